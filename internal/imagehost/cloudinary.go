package imagehost

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryFolder = "messmate"

// Cloudinary uploads images into the messmate folder of a Cloudinary account.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: cloudinaryFolder})
	if err != nil {
		return "", &UploadError{Provider: "cloudinary", Err: err}
	}
	// The SDK reports API-level rejections in the body, not as an error.
	if resp.Error.Message != "" {
		return "", &UploadError{Provider: "cloudinary", Err: errors.New(resp.Error.Message)}
	}
	return resp.SecureURL, nil
}
