package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/naveenspark/stays/pkg/domain"
)

// maxImageSize caps place image uploads.
const maxImageSize = 10 << 20 // 10 MB

// Uploader stores place images through the image cloud function.
type Uploader struct {
	endpoint   string
	httpClient *http.Client
}

// NewUploader creates an uploader posting to endpoint.
func NewUploader(endpoint string) *Uploader {
	return &Uploader{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// UploadImage posts the image read from r as a multipart "image" field,
// authorized with a bearer token.
func (u *Uploader) UploadImage(ctx context.Context, token, filename string, r io.Reader) (*domain.ImageUpload, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("client.UploadImage: create form file: %w", err)
	}
	n, err := io.Copy(part, io.LimitReader(r, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("client.UploadImage: read image: %w", err)
	}
	if n > maxImageSize {
		return nil, fmt.Errorf("client.UploadImage: image larger than %d bytes", maxImageSize)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("client.UploadImage: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("client.UploadImage: create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var out domain.ImageUpload
	if err := send(u.httpClient, req, &out); err != nil {
		return nil, fmt.Errorf("client.UploadImage: %w", err)
	}
	return &out, nil
}
