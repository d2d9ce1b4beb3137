package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"carstok-backend/internal/model"
)

func newMediaService(t *testing.T) (*MediaService, *memObjects) {
	t.Helper()
	store := openStore(t)
	objects := newMemObjects()
	svc := NewMediaService(store, store, objects)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, objects
}

func upload(name, contentType, body string) Upload {
	return Upload{Filename: name, ContentType: contentType, Body: strings.NewReader(body)}
}

func TestMediaDisabledWithoutObjectStore(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	svc := NewMediaService(store, store, nil)
	ctx := context.Background()

	if svc.Enabled() || svc.Bucket() != "" {
		t.Fatalf("enabled = %v bucket = %q", svc.Enabled(), svc.Bucket())
	}
	if _, err := svc.Upload(ctx, "1", []Upload{upload("a.jpg", "image/jpeg", "x")}); !errors.Is(err, ErrMediaDisabled) {
		t.Fatalf("upload: err = %v", err)
	}
	if _, _, err := svc.Open(ctx, "1/a.jpg"); !errors.Is(err, ErrMediaDisabled) {
		t.Fatalf("open: err = %v", err)
	}
}

func TestUploadStoresFilesAndPicksPrimary(t *testing.T) {
	t.Parallel()
	svc, objects := newMediaService(t)
	ctx := context.Background()

	car, err := svc.cars.Create(ctx, &model.Car{
		ID: "fresh", Brand: "Kia", Model: "Rio", Year: 2021, Price: 9000000,
		FuelType: model.FuelEssence, Transmission: model.TransmissionManuelle,
		Location: "Oyem", SellerType: model.SellerNoFace, OwnerID: DefaultOwnerID,
		Features: []string{}, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create car: %v", err)
	}

	media, err := svc.Upload(ctx, car.ID, []Upload{
		upload("Front.JPG", "image/jpeg", "jpeg-bytes"),
		upload("tour.mp4", "video/mp4", "mp4-bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("media = %d, want 2", len(media))
	}
	if !media[0].IsPrimary || media[1].IsPrimary {
		t.Errorf("primary flags = %v, %v", media[0].IsPrimary, media[1].IsPrimary)
	}
	if media[0].MediaType != model.MediaImage || media[1].MediaType != model.MediaVideo {
		t.Errorf("media types = %s, %s", media[0].MediaType, media[1].MediaType)
	}
	wantURL := testPublicBase + "/media/car-media/fresh/1700000000000.jpg"
	if media[0].URL != wantURL {
		t.Errorf("url = %q, want %q", media[0].URL, wantURL)
	}
	if !strings.HasSuffix(media[1].URL, "/fresh/1700000000001.mp4") {
		t.Errorf("second url = %q", media[1].URL)
	}
	if objects.len() != 2 {
		t.Errorf("stored objects = %d", objects.len())
	}

	r, contentType, err := svc.Open(ctx, "fresh/1700000000001.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	body, _ := io.ReadAll(r)
	if string(body) != "mp4-bytes" || contentType != "video/mp4" {
		t.Errorf("open = %q %q", body, contentType)
	}
	if _, _, err := svc.Open(ctx, "fresh/missing.jpg"); !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("open missing: err = %v", err)
	}
}

func TestUploadToCarWithMediaIsNotPrimary(t *testing.T) {
	t.Parallel()
	svc, _ := newMediaService(t)

	media, err := svc.Upload(context.Background(), "1", []Upload{upload("side", "image/png", "png")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if media[0].IsPrimary {
		t.Fatal("upload to a car with media became primary")
	}
	if !strings.HasSuffix(media[0].URL, ".bin") {
		t.Fatalf("url without extension = %q", media[0].URL)
	}
}

func TestUploadSkipsFailedFiles(t *testing.T) {
	t.Parallel()
	svc, objects := newMediaService(t)
	ctx := context.Background()

	media, err := svc.Upload(ctx, "1", []Upload{
		upload("bad.jpg", failType, "x"),
		upload("good.jpg", "image/jpeg", "y"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(media) != 1 || objects.len() != 1 {
		t.Fatalf("media = %d objects = %d, want 1 each", len(media), objects.len())
	}

	if _, err := svc.Upload(ctx, "1", []Upload{upload("bad.jpg", failType, "x")}); !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("all failed: err = %v", err)
	}
	if _, err := svc.Upload(ctx, "1", nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("no files: err = %v", err)
	}
	if _, err := svc.Upload(ctx, "missing", []Upload{upload("a.jpg", "image/jpeg", "z")}); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("missing car: err = %v", err)
	}
}

func TestRemoveDeletesObjectAndRecord(t *testing.T) {
	t.Parallel()
	svc, objects := newMediaService(t)
	ctx := context.Background()

	media, err := svc.Upload(ctx, "4", []Upload{upload("a.jpg", "image/jpeg", "a")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := svc.Remove(ctx, media[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if objects.len() != 0 {
		t.Fatalf("objects left = %d", objects.len())
	}
	if err := svc.Remove(ctx, media[0].ID); !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("remove twice: err = %v", err)
	}

	// Seeded media live outside the bucket; only the record goes.
	if err := svc.Remove(ctx, "media-4"); err != nil {
		t.Fatalf("remove seeded: %v", err)
	}
	left, err := svc.media.ListMedia(ctx, "4")
	if err != nil {
		t.Fatalf("list media: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("media left = %d", len(left))
	}
}

func TestDeleteCarRemovesStoredObjects(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	objects := newMemObjects()
	media := NewMediaService(store, store, objects)
	cars := NewCarService(store, media, nil, func() int { return 60 })
	ctx := context.Background()

	if _, err := media.Upload(ctx, "5", []Upload{
		upload("a.jpg", "image/jpeg", "a"),
		upload("b.jpg", "image/jpeg", "b"),
	}); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := cars.Delete(ctx, "5"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if objects.len() != 0 {
		t.Fatalf("objects left = %d", objects.len())
	}
}

func TestMediaType(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"video/mp4":                model.MediaVideo,
		"video/quicktime":          model.MediaVideo,
		"image/jpeg":               model.MediaImage,
		"application/octet-stream": model.MediaImage,
		"":                         model.MediaImage,
	}
	for contentType, want := range tests {
		if got := MediaType(contentType); got != want {
			t.Errorf("MediaType(%q) = %q, want %q", contentType, got, want)
		}
	}
}
