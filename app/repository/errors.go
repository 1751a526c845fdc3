package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Error sentinel dari layer repository. Service yang memetakan ke AppError.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict: conditional update tidak mengenai baris apa pun
	// karena state sudah berubah (misal complaint sudah di-assign).
	ErrConflict = errors.New("state changed concurrently")
)

// translateError menyamakan error GORM ke sentinel di atas.
// DB dibuka dengan TranslateError=true, jadi unique violation menjadi gorm.ErrDuplicatedKey.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
