// Package imagehost turns a raw image stream into a durable public URL.
// The provider behind the interface is interchangeable; the rest of the
// system only ever sees the URL string.
package imagehost

import (
	"context"
	"fmt"
	"io"
	"os"
)

// MaxImageSize is the largest image accepted for upload (5 MB).
const MaxImageSize = 5 << 20

// Host uploads an image and returns its public URL.
type Host interface {
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
}

// UploadError reports a failed upload without leaking provider credentials.
type UploadError struct {
	Provider string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s upload failed: %v", e.Provider, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// FromEnv selects and configures a provider from the IMAGE_HOST environment
// variable: "cloudinary", "imgbb" or "local" (the default). A selected
// provider with missing credentials is a configuration error, surfaced here
// so the process can refuse to start.
func FromEnv() (Host, error) {
	switch provider := os.Getenv("IMAGE_HOST"); provider {
	case "cloudinary":
		return NewCloudinary(
			os.Getenv("CLOUDINARY_CLOUD_NAME"),
			os.Getenv("CLOUDINARY_API_KEY"),
			os.Getenv("CLOUDINARY_API_SECRET"),
		)
	case "imgbb":
		return NewImgBB(os.Getenv("IMGBB_API_KEY"))
	case "local", "":
		dir := os.Getenv("UPLOAD_DIR")
		if dir == "" {
			dir = "./uploads"
		}
		baseURL := os.Getenv("BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:8080"
		}
		return NewLocal(dir, baseURL)
	default:
		return nil, fmt.Errorf("unknown IMAGE_HOST %q", provider)
	}
}
