package database

import (
	"context"
	"errors"
	"fmt"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/logging"

	"golang.org/x/crypto/bcrypt"
)

// SeedAccount adalah akun awal yang dibuat oleh perintah `seed`.
type SeedAccount struct {
	Name  string
	Email string
	Role  model.Role
}

// DefaultSeedAccounts: satu akun per role supervisor.
// WARDEN dan STAFF tidak bisa dibuat lewat /register publik.
var DefaultSeedAccounts = []SeedAccount{
	{Name: "Hostel Warden", Email: "warden@hostel.local", Role: model.RoleWarden},
	{Name: "Hostel Staff", Email: "staff@hostel.local", Role: model.RoleStaff},
}

// SeedUsers membuat akun supervisor bila role tersebut belum punya akun sama sekali.
// Dijalankan ulang aman: role yang sudah ada di-skip.
func SeedUsers(ctx context.Context, users repository.UserRepository, accounts []SeedAccount, password string) error {
	if password == "" {
		return errors.New("SEED_PASSWORD is not configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	for _, acc := range accounts {
		count, err := users.CountByRole(ctx, acc.Role)
		if err != nil {
			return fmt.Errorf("count %s: %w", acc.Role, err)
		}
		if count > 0 {
			logging.Info().Str("role", string(acc.Role)).Msg("[SEEDER] Akun sudah ada, skip")
			continue
		}

		user := &model.User{
			Name:         acc.Name,
			Email:        acc.Email,
			PasswordHash: string(hash),
			Role:         acc.Role,
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				logging.Warn().Str("email", acc.Email).Msg("[SEEDER] Email sudah dipakai, skip")
				continue
			}
			return fmt.Errorf("create %s: %w", acc.Email, err)
		}
		logging.Info().Str("role", string(acc.Role)).Str("email", acc.Email).Msg("[SEEDER] Akun dibuat")
	}
	return nil
}
