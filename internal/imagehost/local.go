package imagehost

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores images on disk and builds URLs pointing at the server's own
// /uploads route. Meant for development and single-box deployments.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (h *Local) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	// Random name: never trust the client's filename on disk.
	name := uuid.New().String() + safeExt(filename)
	path := filepath.Join(h.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", &UploadError{Provider: "local", Err: err}
	}
	_, err = io.Copy(f, io.LimitReader(r, MaxImageSize))
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		// Best-effort cleanup; the copy error is the one worth reporting.
		os.Remove(path)
		return "", &UploadError{Provider: "local", Err: err}
	}
	return h.baseURL + "/uploads/" + name, nil
}

// Dir is where uploaded files live, for wiring the static route.
func (h *Local) Dir() string { return h.dir }

func safeExt(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
