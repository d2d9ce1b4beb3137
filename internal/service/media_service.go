package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"carstok-backend/internal/model"
	"carstok-backend/internal/objectstore"
	"carstok-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrMediaDisabled = errors.New("media storage is not configured")
	ErrMediaNotFound = errors.New("media not found")
	ErrNoFiles       = errors.New("no files uploaded")
	ErrUploadFailed  = errors.New("every upload failed")
)

// ObjectStore is the blob storage behind listing media.
type ObjectStore interface {
	Bucket() string
	Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, path string) error
}

// Upload is one file of a multipart media upload.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type MediaService struct {
	cars    repository.CarStore
	media   repository.MediaStore
	objects ObjectStore
	now     func() time.Time
}

// NewMediaService returns a media service. objects may be nil, in which case
// uploads and downloads fail with ErrMediaDisabled.
func NewMediaService(cars repository.CarStore, media repository.MediaStore, objects ObjectStore) *MediaService {
	return &MediaService{cars: cars, media: media, objects: objects, now: time.Now}
}

func (s *MediaService) Enabled() bool {
	return s.objects != nil
}

// Bucket names the bucket media URLs point into, or "" when storage is disabled.
func (s *MediaService) Bucket() string {
	if s.objects == nil {
		return ""
	}
	return s.objects.Bucket()
}

// Upload stores files under {carID}/{unix millis}.{ext} and records them. A
// file that fails to store is skipped. The first stored file becomes the
// primary media when the car had none.
func (s *MediaService) Upload(ctx context.Context, carID string, files []Upload) ([]model.CarMedia, error) {
	if s.objects == nil {
		return nil, ErrMediaDisabled
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	existing, err := s.media.ListMedia(ctx, carID)
	if err != nil {
		return nil, err
	}

	base := s.now().UnixMilli()
	created := []model.CarMedia{}
	for i, f := range files {
		path := fmt.Sprintf("%s/%d.%s", carID, base+int64(i), extension(f.Filename))
		url, err := s.objects.Upload(ctx, path, f.ContentType, f.Body)
		if err != nil {
			log.Printf("[MEDIA] upload %s failed: %v", path, err)
			continue
		}

		m, err := s.media.AddMedia(ctx, &model.CarMedia{
			ID:        uuid.NewString(),
			CarID:     carID,
			URL:       url,
			MediaType: MediaType(f.ContentType),
			IsPrimary: len(created) == 0 && len(existing) == 0,
		})
		if err != nil {
			return created, fmt.Errorf("record media: %w", err)
		}
		created = append(created, *m)
	}
	if len(created) == 0 {
		return nil, ErrUploadFailed
	}
	log.Printf("[MEDIA] %d file(s) added to car %s", len(created), carID)
	return created, nil
}

// MediaType classifies an upload from its content type.
func MediaType(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return model.MediaVideo
	}
	return model.MediaImage
}

func extension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "bin"
	}
	return strings.ToLower(ext)
}

// Remove deletes the stored object behind a media record and then the record.
func (s *MediaService) Remove(ctx context.Context, mediaID string) error {
	m, err := s.media.GetMedia(ctx, mediaID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMediaNotFound
	}
	if err != nil {
		return err
	}
	s.deleteObject(ctx, m.URL)
	if err := s.media.DeleteMedia(ctx, mediaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMediaNotFound
		}
		return err
	}
	return nil
}

// deleteObject removes the object a media URL points at. URLs outside the
// bucket, such as the seeded catalogue images, are left alone.
func (s *MediaService) deleteObject(ctx context.Context, url string) {
	if s.objects == nil {
		return
	}
	path, ok := objectstore.PathFromURL(url, s.objects.Bucket())
	if !ok {
		return
	}
	if err := s.objects.Delete(ctx, path); err != nil && !errors.Is(err, objectstore.ErrNotFound) {
		log.Printf("[MEDIA] delete object %s: %v", path, err)
	}
}

// Open streams a stored object.
func (s *MediaService) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	if s.objects == nil {
		return nil, "", ErrMediaDisabled
	}
	r, contentType, err := s.objects.Open(ctx, path)
	if errors.Is(err, objectstore.ErrNotFound) {
		return nil, "", ErrMediaNotFound
	}
	return r, contentType, err
}
