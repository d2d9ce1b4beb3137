package middleware

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

const (
	slowRequest      = 500 * time.Millisecond
	errorStatusFloor = 400
)

// Logger returns a Fiber access log that only writes slow or failed requests to out.
func Logger(out io.Writer) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		Output:     &filteredWriter{dest: out, slow: slowRequest, statusFloor: errorStatusFloor},
	})
}

// filteredWriter drops access log lines of fast, successful requests. Lines
// look like "15:04:05 | 200 | 1.23ms | GET /path\n"; unparseable lines are
// always written.
type filteredWriter struct {
	dest        io.Writer
	slow        time.Duration
	statusFloor int
}

func (w *filteredWriter) Write(p []byte) (int, error) {
	parts := strings.Split(strings.TrimSpace(string(p)), " | ")
	if len(parts) < 3 {
		return w.dest.Write(p)
	}

	if status, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && status >= w.statusFloor {
		return w.dest.Write(p)
	}
	latency := strings.ReplaceAll(strings.TrimSpace(parts[2]), "µs", "us")
	if d, err := time.ParseDuration(latency); err == nil && d >= w.slow {
		return w.dest.Write(p)
	}
	return len(p), nil
}
