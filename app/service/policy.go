package service

import (
	_ "embed"
	"fmt"
	"strings"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/logging"
	"complaint-tracker-backend/utils"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/google/uuid"
)

//go:embed authz_model.conf
var authzModel string

//go:embed authz_policy.csv
var authzPolicy string

const (
	objComplaint = "complaint"
	objFeedback  = "feedback"
	objReport    = "report"

	actCreate       = "create"
	actRead         = "read"
	actAccept       = "accept"
	actUpdateStatus = "update_status"
	actReopen       = "reopen"
	actDelete       = "delete"
	actStats        = "stats"
)

// Caller adalah identitas user yang sudah lolos AuthMiddleware.
type Caller struct {
	ID   uuid.UUID
	Role model.Role
}

// Policy memegang aturan level role ("role X boleh mencoba aksi Y").
// Aturan relasi (pemilik, worker yang di-assign) tetap dicek di service.
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// NewPolicy memuat model & policy yang di-embed ke binary.
func NewPolicy() (*Policy, error) {
	m, err := casbinmodel.NewModelFromString(authzModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	if err := loadPolicy(e, authzPolicy); err != nil {
		return nil, err
	}
	return &Policy{enforcer: e}, nil
}

func loadPolicy(e *casbin.SyncedEnforcer, csv string) error {
	for _, line := range strings.Split(csv, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] != "p" || len(parts) != 4 {
			return fmt.Errorf("invalid policy line %q", line)
		}
		if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
			return fmt.Errorf("add policy %v: %w", parts[1:], err)
		}
	}
	return nil
}

// Allowed mengembalikan false juga saat enforcer error (fail closed).
func (p *Policy) Allowed(role model.Role, object, action string) bool {
	ok, err := p.enforcer.Enforce(string(role), object, action)
	if err != nil {
		logging.Error().Err(err).Str("role", string(role)).Str("object", object).Str("action", action).
			Msg("[AUTHZ] Enforce gagal")
		return false
	}
	return ok
}

// Authorize mengembalikan ForbiddenError bila role caller tidak punya izin.
func (p *Policy) Authorize(caller Caller, object, action, message string) error {
	if !p.Allowed(caller.Role, object, action) {
		return utils.NewForbiddenError(message)
	}
	return nil
}
