package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"carstok-backend/internal/model"
	"carstok-backend/internal/objectstore"
	"carstok-backend/internal/repository/local"
)

const (
	testBucket     = "car-media"
	testPublicBase = "http://media.test"
	failType       = "application/x-fail"
)

func openStore(t *testing.T) *local.Store {
	t.Helper()
	store, err := local.Open(context.Background(), filepath.Join(t.TempDir(), "carstok.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// recorder collects broadcast events.
type recorder struct {
	mu     sync.Mutex
	events []*model.WSEvent
}

func (r *recorder) Broadcast(e *model.WSEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type announced struct {
	mu   sync.Mutex
	cars []string
}

func (a *announced) AnnounceListing(car *model.Car) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cars = append(a.cars, car.ID)
}

type memObject struct {
	data        []byte
	contentType string
}

// memObjects is an in-memory ObjectStore. Uploads with content type failType fail.
type memObjects struct {
	mu      sync.Mutex
	objects map[string]memObject
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string]memObject{}}
}

func (m *memObjects) Bucket() string { return testBucket }

func (m *memObjects) Upload(_ context.Context, path, contentType string, r io.Reader) (string, error) {
	if contentType == failType {
		return "", io.ErrUnexpectedEOF
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = memObject{data: data, contentType: contentType}
	return objectstore.PublicURL(testPublicBase, testBucket, path), nil
}

func (m *memObjects) Open(_ context.Context, path string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[path]
	if !ok {
		return nil, "", objectstore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, nil
}

func (m *memObjects) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[path]; !ok {
		return objectstore.ErrNotFound
	}
	delete(m.objects, path)
	return nil
}

func (m *memObjects) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func validInput() *model.CarInput {
	return &model.CarInput{
		Brand:   "Kia",
		Model:   "Sportage",
		Year:    2022,
		Price:   21000000,
		Mileage: 15000,
	}
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
