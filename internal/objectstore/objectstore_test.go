package objectstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestPathFromURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{name: "public url", url: "http://localhost:3000/media/car-media/abc/1700000000.jpg", want: "abc/1700000000.jpg", ok: true},
		{name: "query stripped", url: "https://cdn.example/storage/v1/object/public/car-media/abc/1.mp4?t=1", want: "abc/1.mp4", ok: true},
		{name: "relative seed image", url: "/cars/bmw-x5-thumb.jpg", ok: false},
		{name: "bucket only", url: "http://host/media/car-media/", ok: false},
	}
	for _, tt := range tests {
		got, ok := PathFromURL(tt.url, "car-media")
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s: PathFromURL(%q) = %q, %v; want %q, %v", tt.name, tt.url, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPublicURLRoundTrip(t *testing.T) {
	t.Parallel()
	url := PublicURL("http://localhost:3000/", "car-media", "/car-1/42.png")
	if url != "http://localhost:3000/media/car-media/car-1/42.png" {
		t.Fatalf("PublicURL = %q", url)
	}
	path, ok := PathFromURL(url, "car-media")
	if !ok || path != "car-1/42.png" {
		t.Fatalf("PathFromURL = %q, %v", path, ok)
	}
}

func TestDeadline(t *testing.T) {
	t.Parallel()
	at := time.Now().Add(time.Minute)
	withDeadline, cancel := context.WithDeadline(context.Background(), at)
	defer cancel()
	tests := []struct {
		name string
		ctx  context.Context
		want func(time.Time) bool
	}{
		{name: "context deadline", ctx: withDeadline, want: func(d time.Time) bool { return d.Equal(at) }},
		{name: "default timeout", ctx: context.Background(), want: func(d time.Time) bool {
			left := time.Until(d)
			return left > defaultTimeout-time.Second && left <= defaultTimeout
		}},
	}
	for _, tt := range tests {
		if got := deadline(tt.ctx); !tt.want(got) {
			t.Errorf("%s: deadline = %v", tt.name, got)
		}
	}
}

func TestOpenGivesEachCallItsOwnBucket(t *testing.T) {
	t.Parallel()
	// Connect does not dial; no server is needed to build bucket handles.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	store, err := NewGridFSStore(client, "carstok", "car-media", "http://localhost:3000")
	if err != nil {
		t.Fatalf("NewGridFSStore: %v", err)
	}

	const calls = 8
	buckets := make([]*gridfs.Bucket, calls)
	var wg sync.WaitGroup
	for i := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(i+1)*time.Second)
			defer cancel()
			b, err := store.open(ctx)
			if err != nil {
				t.Errorf("open: %v", err)
				return
			}
			buckets[i] = b
		}()
	}
	wg.Wait()

	seen := map[*gridfs.Bucket]bool{}
	for _, b := range buckets {
		if b == nil {
			continue
		}
		if seen[b] {
			t.Fatal("two calls shared a bucket handle")
		}
		seen[b] = true
	}
}
