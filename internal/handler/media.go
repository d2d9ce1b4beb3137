package handler

import (
	"errors"
	"io"
	"log"
	"mime/multipart"

	"carstok-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	media *service.MediaService
}

func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// GET /media/:bucket/*
func (h *MediaHandler) Serve(c *fiber.Ctx) error {
	if c.Params("bucket") != h.media.Bucket() {
		return c.Status(404).JSON(fiber.Map{"error": "media not found"})
	}
	path := c.Params("*")
	if path == "" {
		return c.Status(404).JSON(fiber.Map{"error": "media not found"})
	}

	r, contentType, err := h.media.Open(c.Context(), path)
	if err != nil {
		return mediaError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendStream(r)
}

// POST /api/v1/admin/cars/:id/media (multipart, field "files")
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "multipart form expected"})
	}
	headers := append(form.File["files"], form.File["file"]...)

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			log.Printf("[MEDIA] open %s: %v", fh.Filename, err)
			continue
		}
		defer f.Close()
		uploads = append(uploads, service.Upload{
			Filename:    fh.Filename,
			ContentType: contentTypeOf(fh),
			Body:        f,
		})
	}

	media, err := h.media.Upload(c.Context(), c.Params("id"), uploads)
	if err != nil {
		return mediaError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"media": media})
}

// DELETE /api/v1/admin/media/:id
func (h *MediaHandler) Remove(c *fiber.Ctx) error {
	if err := h.media.Remove(c.Context(), c.Params("id")); err != nil {
		return mediaError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func contentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get(fiber.HeaderContentType); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func mediaError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCarNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "car not found"})
	case errors.Is(err, service.ErrMediaNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "media not found"})
	case errors.Is(err, service.ErrMediaDisabled):
		return c.Status(503).JSON(fiber.Map{"error": "media storage is not configured"})
	case errors.Is(err, service.ErrNoFiles):
		return c.Status(400).JSON(fiber.Map{"error": "no files uploaded"})
	case errors.Is(err, service.ErrUploadFailed):
		return c.Status(502).JSON(fiber.Map{"error": "upload failed"})
	case errors.Is(err, io.ErrUnexpectedEOF):
		return c.Status(400).JSON(fiber.Map{"error": "truncated upload"})
	default:
		log.Printf("[MEDIA ERROR] %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}
