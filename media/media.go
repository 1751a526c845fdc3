package media

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled dikembalikan saat kredensial media host tidak dikonfigurasi.
var ErrDisabled = errors.New("media host is not configured")

// UploadedImage adalah hasil upload: URL publik dan id untuk destroy.
type UploadedImage struct {
	URL      string
	PublicID string
}

// Uploader adalah kontrak media host yang dipakai ComplaintService.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*UploadedImage, error)
	Destroy(ctx context.Context, publicID string) error
}

type disabledUploader struct{}

// NewDisabledUploader dipakai bila CLOUDINARY_* kosong: upload selalu gagal,
// destroy tidak melakukan apa-apa.
func NewDisabledUploader() Uploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, io.Reader, string) (*UploadedImage, error) {
	return nil, ErrDisabled
}

func (disabledUploader) Destroy(context.Context, string) error {
	return nil
}
