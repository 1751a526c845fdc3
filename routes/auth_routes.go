package routes

import (
	"net/http"

	"complaint-tracker-backend/app/service"
	"complaint-tracker-backend/middleware"

	"github.com/gin-gonic/gin"
)

// AuthHandler adalah pengelola request untuk fitur autentikasi & profil.
type AuthHandler struct {
	auth          service.AuthService
	accessMaxAge  int
	refreshMaxAge int
}

// NewAuthHandler: umur cookie disamakan dengan TTL token.
func NewAuthHandler(auth service.AuthService, accessMaxAge, refreshMaxAge int) *AuthHandler {
	return &AuthHandler{auth: auth, accessMaxAge: accessMaxAge, refreshMaxAge: refreshMaxAge}
}

// SetupAuthRoutes: register/login/refresh publik (dengan rate limit), sisanya wajib login.
func (h *AuthHandler) SetupAuthRoutes(api *gin.RouterGroup, auth gin.HandlerFunc, limiter gin.HandlerFunc) {
	g := api.Group("/users")
	{
		g.POST("/register", limiter, h.Register)
		g.POST("/login", limiter, h.Login)
		g.POST("/refresh-token", limiter, h.RefreshToken)

		g.POST("/logout", auth, h.Logout)
		g.POST("/change-password", auth, h.ChangePassword)
		g.GET("/me", auth, h.Me)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string  `json:"name"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Role     string  `json:"role"`
		Category *string `json:"category"`
	}
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Category: req.Category,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created successfully", gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	setAuthCookie(c, middleware.AccessTokenCookie, session.AccessToken, h.accessMaxAge)
	setAuthCookie(c, middleware.RefreshTokenCookie, session.RefreshToken, h.refreshMaxAge)
	respond(c, http.StatusOK, "Login successful", gin.H{
		"id":          session.User.ID,
		"name":        session.User.Name,
		"email":       session.User.Email,
		"role":        session.User.Role,
		"accessToken": session.AccessToken,
	})
}

// RefreshToken membaca refresh token dari cookie, atau dari body bila cookie kosong.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if !bindJSON(c, &req) {
			return
		}
		token = req.RefreshToken
	}

	session, err := h.auth.RefreshAccessToken(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}
	setAuthCookie(c, middleware.AccessTokenCookie, session.AccessToken, h.accessMaxAge)
	respond(c, http.StatusOK, "Access token refreshed successfully", gin.H{"accessToken": session.AccessToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	jti, exp := middleware.TokenInfo(c)
	if err := h.auth.Logout(c.Request.Context(), caller, jti, exp); err != nil {
		fail(c, err)
		return
	}
	clearAuthCookie(c, middleware.AccessTokenCookie)
	clearAuthCookie(c, middleware.RefreshTokenCookie)
	respond(c, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), caller, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	user, err := h.auth.Me(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "User fetched successfully", user)
}
