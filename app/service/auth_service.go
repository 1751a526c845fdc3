package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/logging"
	"complaint-tracker-backend/utils"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput adalah data pendaftaran user baru.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Category *string
}

// Session adalah pasangan token hasil login / refresh.
type Session struct {
	User         model.PublicUser
	AccessToken  string
	RefreshToken string
}

// Interface AuthService mendefinisikan apa saja yang bisa dilakukan layanan ini.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.PublicUser, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, caller Caller, jti string, expiresAt time.Time) error
	ChangePassword(ctx context.Context, caller Caller, oldPassword, newPassword string) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (*Session, error)
	Me(ctx context.Context, caller Caller) (*model.PublicUser, error)
}

type authService struct {
	userRepo  repository.UserRepository
	blocklist repository.TokenBlocklist
	tokens    *utils.TokenManager
	cost      int
	now       func() time.Time
}

// NewAuthService menghubungkan Service dengan Repository
func NewAuthService(userRepo repository.UserRepository, blocklist repository.TokenBlocklist, tokens *utils.TokenManager) AuthService {
	return &authService{
		userRepo:  userRepo,
		blocklist: blocklist,
		tokens:    tokens,
		cost:      bcrypt.DefaultCost,
		now:       time.Now,
	}
}

// Register: mendaftarkan user baru. Category wajib untuk WORKER dan dibuang untuk role lain.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.PublicUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, utils.NewValidationError("All fields are required")
	}

	role, ok := model.ParseRole(in.Role)
	if !ok {
		return nil, utils.NewValidationError("Invalid role")
	}

	var category *string
	if role == model.RoleWorker {
		if in.Category == nil || strings.TrimSpace(*in.Category) == "" {
			return nil, utils.NewValidationError("Category is required for WORKER role")
		}
		c := strings.TrimSpace(*in.Category)
		category = &c
	}

	// Hash Password: admin database pun tidak tahu password asli user.
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, utils.NewInternalError("Error creating user", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Role:         role,
		Category:     category,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewConflictError("User with this email already exists")
		}
		return nil, utils.NewInternalError("Error creating user", err)
	}

	pub := user.Public()
	return &pub, nil
}

// Login: cek email & password lalu terbitkan access + refresh token.
// Refresh token disimpan di baris user untuk deteksi rotasi.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, utils.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fromRepoError(err, "User not found", "")
	}

	// Bandingkan password inputan dengan hash di database
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.NewAuthError("Invalid password")
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, utils.NewInternalError(msgInternal, err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, utils.NewInternalError(msgInternal, err)
	}
	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, fromRepoError(err, "User not found", "")
	}

	return &Session{User: user.Public(), AccessToken: access, RefreshToken: refresh}, nil
}

// Logout mencabut refresh token dan mem-blocklist access token yang sedang dipakai
// sampai waktu kedaluwarsanya.
func (s *authService) Logout(ctx context.Context, caller Caller, jti string, expiresAt time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, caller.ID, nil); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return utils.NewInternalError(msgInternal, err)
	}

	if ttl := expiresAt.Sub(s.now()); ttl > 0 {
		if err := s.blocklist.Revoke(ctx, jti, ttl); err != nil {
			// cookie tetap dihapus; token akan mati sendiri saat expired
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", caller.ID.String()).Msg("[AUTH] Gagal blocklist access token")
		}
	}
	return nil
}

// ChangePassword mengganti password dan mencabut refresh token (semua sesi lain harus login ulang).
func (s *authService) ChangePassword(ctx context.Context, caller Caller, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return utils.NewValidationError("Old password and new password are required")
	}

	user, err := s.userRepo.FindByID(ctx, caller.ID)
	if err != nil {
		return fromRepoError(err, "User not found", "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return utils.NewAuthError("Old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return utils.NewInternalError(msgInternal, err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return fromRepoError(err, "User not found", "")
	}
	return nil
}

// RefreshAccessToken menerbitkan access token baru dari refresh token yang masih tercatat.
// Refresh token yang valid tapi berbeda dari yang tersimpan dianggap sudah dicabut.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, utils.NewAuthError("Unauthorized Access")
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, utils.NewAuthError("Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fromRepoError(err, "User not found", "")
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, utils.NewAuthError("Invalid refresh token")
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, utils.NewInternalError(msgInternal, err)
	}
	return &Session{User: user.Public(), AccessToken: access, RefreshToken: refreshToken}, nil
}

// Me mengembalikan profil user yang sedang login.
func (s *authService) Me(ctx context.Context, caller Caller) (*model.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, fromRepoError(err, "User not found", "")
	}
	pub := user.Public()
	return &pub, nil
}
