package middleware

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type fakeValidator struct{ valid string }

func (f fakeValidator) ValidateToken(token string) error {
	if token != f.valid {
		return errors.New("bad token")
	}
	return nil
}

func newAdminApp(adminKey string) *fiber.App {
	app := fiber.New()
	app.Get("/admin", AdminAuth(fakeValidator{valid: "good"}, adminKey), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("admin_auth").(string))
	})
	return app
}

func TestAdminAuth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		adminKey string
		headers  map[string]string
		want     int
	}{
		{name: "no credentials", want: 401},
		{name: "basic scheme", headers: map[string]string{"Authorization": "Basic abc"}, want: 401},
		{name: "bad token", headers: map[string]string{"Authorization": "Bearer nope"}, want: 401},
		{name: "good token", headers: map[string]string{"Authorization": "Bearer good"}, want: 200},
		{name: "key not configured", headers: map[string]string{"X-Admin-Key": "k"}, want: 403},
		{name: "wrong key", adminKey: "secret", headers: map[string]string{"X-Admin-Key": "k"}, want: 403},
		{name: "right key", adminKey: "secret", headers: map[string]string{"X-Admin-Key": "secret"}, want: 200},
	}
	for _, tt := range tests {
		app := newAdminApp(tt.adminKey)
		req := httptest.NewRequest("GET", "/admin", nil)
		for k, v := range tt.headers {
			req.Header.Set(k, v)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.want)
		}
	}
}

func TestFilteredWriter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := &filteredWriter{dest: &buf, slow: 500 * time.Millisecond, statusFloor: 400}

	lines := []struct {
		line string
		kept bool
	}{
		{line: "15:04:05 | 200 | 1.23ms | GET /api/v1/feed\n", kept: false},
		{line: "15:04:05 | 200 | 850µs | GET /health\n", kept: false},
		{line: "15:04:05 | 404 | 1ms | GET /api/v1/cars/x\n", kept: true},
		{line: "15:04:05 | 200 | 1.2s | POST /api/v1/admin/cars/1/media\n", kept: true},
		{line: "garbage\n", kept: true},
	}
	for _, l := range lines {
		buf.Reset()
		n, err := w.Write([]byte(l.line))
		if err != nil || n != len(l.line) {
			t.Fatalf("Write(%q) = %d, %v", l.line, n, err)
		}
		if got := buf.Len() > 0; got != l.kept {
			t.Errorf("Write(%q) kept = %v, want %v", l.line, got, l.kept)
		}
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Post("/login", RateLimit(2, time.Minute), func(c *fiber.Ctx) error { return c.SendStatus(204) })

	var last int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		if err != nil {
			t.Fatal(err)
		}
		last = resp.StatusCode
	}
	if last != 429 {
		t.Fatalf("third request status = %d, want 429", last)
	}
}
