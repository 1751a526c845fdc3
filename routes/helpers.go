package routes

import (
	"net/http"

	"complaint-tracker-backend/app/service"
	"complaint-tracker-backend/middleware"
	"complaint-tracker-backend/utils"

	"github.com/gin-gonic/gin"
)

// callerFrom membangun identitas caller dari context yang di-set AuthMiddleware.
// Bila tidak ada (route salah konfigurasi) request langsung ditolak 401.
func callerFrom(c *gin.Context) (service.Caller, bool) {
	id, role, ok := middleware.Identity(c)
	if !ok {
		_ = c.Error(utils.NewAuthError("Unauthorized Access"))
		return service.Caller{}, false
	}
	return service.Caller{ID: id, Role: role}, true
}

// fail menyerahkan error ke middleware.ErrorHandler.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, utils.BuildResponseSuccess(status, message, data))
}

// bindJSON membaca body JSON. Body kosong dianggap objek kosong supaya
// validasi field wajib dilakukan service dengan pesan yang konsisten.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, utils.NewValidationError("Invalid request body").WithErrors(err.Error()))
		return false
	}
	return true
}

func setAuthCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, maxAge, "/", "", true, true)
}

func clearAuthCookie(c *gin.Context, name string) {
	setAuthCookie(c, name, "", -1)
}
