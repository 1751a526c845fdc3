package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/logging"
	"complaint-tracker-backend/metrics"
	"complaint-tracker-backend/utils"

	"github.com/google/uuid"
)

const (
	msgComplaintNotFound = "Complaint not found"
	msgInternal          = "Internal Server Error"
)

// parseComplaintID memvalidasi id dari path/body.
func parseComplaintID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, utils.NewValidationError("Complaint ID is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.NewValidationError("Invalid complaint ID")
	}
	return id, nil
}

// fromRepoError memetakan sentinel repository ke AppError.
// Error lain dianggap 500 dan stack-nya disimpan untuk log.
func fromRepoError(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return utils.NewNotFoundError(notFound)
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		return utils.NewConflictError(conflict)
	default:
		return utils.NewInternalError(msgInternal, err)
	}
}

// canView adalah visibility partition:
// STUDENT -> miliknya, WORKER -> yang di-assign ke dia, WARDEN/STAFF -> semua.
func canView(caller Caller, c *model.Complaint) bool {
	switch {
	case caller.Role.IsSupervisor():
		return true
	case caller.Role == model.RoleStudent:
		return c.IsOwnedBy(caller.ID)
	case caller.Role == model.RoleWorker:
		return c.IsAssignedTo(caller.ID)
	default:
		return false
	}
}

// lifecycleRecorder menulis timeline (Mongo) dan menyiarkan event (Redis).
// Keduanya best-effort: kegagalan hanya di-log, operasi utama tetap sukses.
type lifecycleRecorder struct {
	events    repository.EventRepository
	publisher repository.EventPublisher
	now       func() time.Time
}

func newLifecycleRecorder(events repository.EventRepository, publisher repository.EventPublisher) lifecycleRecorder {
	return lifecycleRecorder{events: events, publisher: publisher, now: time.Now}
}

func (r lifecycleRecorder) record(ctx context.Context, caller Caller, complaintID uuid.UUID, action model.EventAction, from, to *model.Status, note string) {
	ev := model.ComplaintEvent{
		ComplaintID: complaintID.String(),
		ActorID:     caller.ID.String(),
		ActorRole:   caller.Role,
		Action:      action,
		FromStatus:  from,
		ToStatus:    to,
		Note:        note,
		CreatedAt:   r.now().UTC(),
	}

	if to != nil {
		metrics.RecordTransition(string(action), string(*to))
	}

	if r.events != nil {
		if err := r.events.Append(ctx, &ev); err != nil {
			metrics.RecordSideEffectFailure("timeline")
			logging.Ctx(ctx).Warn().Err(err).Str("complaint_id", ev.ComplaintID).Str("action", string(action)).
				Msg("[TIMELINE] Gagal menulis event")
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, ev); err != nil {
			metrics.RecordSideEffectFailure("publisher")
			logging.Ctx(ctx).Warn().Err(err).Str("complaint_id", ev.ComplaintID).Str("action", string(action)).
				Msg("[EVENTS] Gagal publish event")
		}
	}
}

// observe mencatat penolakan lifecycle ke metrics lalu mengembalikan err apa adanya.
func observe(action string, err error) error {
	if err != nil {
		metrics.RecordRejection(action, utils.AsAppError(err).StatusCode)
	}
	return err
}

func statusPtr(s model.Status) *model.Status {
	return &s
}
