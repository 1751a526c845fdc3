package utils

import (
	"fmt"
)

// APIResponse adalah format standar JSON yang diterima Frontend.
// Contoh sukses : { "success": true,  "statusCode": 200, "message": "...", "data": { ... } }
// Contoh gagal  : { "success": false, "statusCode": 409, "message": "...", "errors": [], "data": null }
type APIResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Errors     interface{} `json:"errors,omitempty"` // selalu array (boleh kosong) pada response gagal
	Stack      string      `json:"stack,omitempty"`
}

// BuildResponseSuccess digunakan saat request berhasil (HTTP 200/201).
func BuildResponseSuccess(statusCode int, message string, data interface{}) APIResponse {
	return APIResponse{
		Success:    true,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}
}

// BuildResponseFailed membentuk envelope error dari AppError.
// Stack trace hanya disertakan kalau withStack true (mode development).
func BuildResponseFailed(err *AppError, withStack bool) APIResponse {
	errs := err.Errors
	if errs == nil {
		errs = []string{}
	}
	resp := APIResponse{
		Success:    false,
		StatusCode: err.StatusCode,
		Message:    err.Message,
		Errors:     errs,
		Data:       nil,
	}
	if withStack && err.Cause() != nil {
		resp.Stack = fmt.Sprintf("%+v", err.Cause())
	}
	return resp
}
