package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

const imgbbEndpoint = "https://api.imgbb.com/1/upload"

// ImgBB uploads images through the ImgBB upload API. There is no official Go
// SDK; the API is a single multipart POST.
type ImgBB struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewImgBB(apiKey string) (*ImgBB, error) {
	if apiKey == "" {
		return nil, errors.New("imgbb requires IMGBB_API_KEY")
	}
	return &ImgBB{
		apiKey:   apiKey,
		endpoint: imgbbEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type imgbbResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

func (h *ImgBB) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", &UploadError{Provider: "imgbb", Err: err}
	}
	if _, err := io.Copy(part, io.LimitReader(r, MaxImageSize)); err != nil {
		return "", &UploadError{Provider: "imgbb", Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &UploadError{Provider: "imgbb", Err: err}
	}

	// The key travels as a query parameter so it never lands in logs that
	// capture request bodies.
	reqURL := h.endpoint + "?key=" + url.QueryEscape(h.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return "", &UploadError{Provider: "imgbb", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := h.client.Do(req)
	if err != nil {
		return "", &UploadError{Provider: "imgbb", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &UploadError{Provider: "imgbb", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var parsed imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &UploadError{Provider: "imgbb", Err: err}
	}
	if !parsed.Success || parsed.Data.URL == "" {
		return "", &UploadError{Provider: "imgbb", Err: fmt.Errorf("upload rejected with status %d", parsed.Status)}
	}
	return parsed.Data.URL, nil
}
