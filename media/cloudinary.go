package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"complaint-tracker-backend/config"
	"complaint-tracker-backend/logging"
	"complaint-tracker-backend/metrics"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	gobreaker "github.com/sony/gobreaker/v2"
)

const breakerName = "cloudinary"

// uploadAPI adalah subset *uploader.API yang kita pakai (bisa di-fake di test).
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryUploader mengirim gambar complaint ke Cloudinary.
// Semua panggilan lewat circuit breaker supaya request tidak menunggu
// timeout berulang saat Cloudinary sedang down.
type CloudinaryUploader struct {
	api     uploadAPI
	folder  string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[interface{}]
}

// NewUploader memilih implementasi sesuai config.
func NewUploader(cfg config.CloudinaryConfig) (Uploader, error) {
	if !cfg.Enabled() {
		logging.Warn().Msg("[MEDIA] Cloudinary tidak dikonfigurasi, upload gambar dinonaktifkan")
		return NewDisabledUploader(), nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return newCloudinaryUploader(&cld.Upload, cfg.Folder, cfg.Timeout), nil
}

func newCloudinaryUploader(a uploadAPI, folder string, timeout time.Duration) *CloudinaryUploader {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		// buka circuit setelah 5 kegagalan beruntun
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[MEDIA] Circuit breaker berpindah state")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &CloudinaryUploader{api: a, folder: folder, timeout: timeout, cb: cb}
}

// imageResourceType dipakai upload dan destroy. Cloudinary menolak file non-gambar,
// dan destroy selalu menunjuk resource type yang sama dengan saat upload.
const imageResourceType = "image"

// Upload meng-upload file dengan unique filename ke folder yang dikonfigurasi.
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (*UploadedImage, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	res, err := u.cb.Execute(func() (interface{}, error) {
		out, err := u.api.Upload(ctx, file, uploader.UploadParams{
			Folder:         u.folder,
			UniqueFilename: api.Bool(true),
			ResourceType:   imageResourceType,
		})
		if err != nil {
			return nil, err
		}
		if out.Error.Message != "" {
			return nil, fmt.Errorf("cloudinary upload: %s", out.Error.Message)
		}
		if out.SecureURL == "" {
			return nil, fmt.Errorf("cloudinary upload: empty url")
		}
		return &UploadedImage{URL: out.SecureURL, PublicID: out.PublicID}, nil
	})
	metrics.RecordMedia("upload", err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("filename", filename).Msg("[MEDIA] Upload gagal")
		return nil, err
	}
	return res.(*UploadedImage), nil
}

// Destroy menghapus gambar. "not found" dianggap sukses (sudah tidak ada).
func (u *CloudinaryUploader) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	_, err := u.cb.Execute(func() (interface{}, error) {
		out, err := u.api.Destroy(ctx, uploader.DestroyParams{
			PublicID:     publicID,
			ResourceType: imageResourceType,
		})
		if err != nil {
			return nil, err
		}
		if out.Error.Message != "" {
			return nil, fmt.Errorf("cloudinary destroy: %s", out.Error.Message)
		}
		switch out.Result {
		case "ok", "not found":
			return nil, nil
		default:
			return nil, fmt.Errorf("cloudinary destroy: unexpected result %q", out.Result)
		}
	})
	metrics.RecordMedia("destroy", err)
	return err
}

func (u *CloudinaryUploader) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
