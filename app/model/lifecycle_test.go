package model_test

import (
	"testing"

	"complaint-tracker-backend/app/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, st := range model.AllStatuses() {
		got, ok := model.ParseStatus(string(st))
		assert.True(t, ok, "status %s harus dikenali", st)
		assert.Equal(t, st, got)
	}

	for _, bad := range []string{"", "pending", "CLOSED", "DONE", "RESOLVED "} {
		_, ok := model.ParseStatus(bad)
		assert.False(t, ok, "status %q tidak boleh diterima", bad)
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range model.AllRoles() {
		got, ok := model.ParseRole(string(r))
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok := model.ParseRole("ADMIN")
	assert.False(t, ok)
}

func TestRole_IsSupervisor(t *testing.T) {
	assert.True(t, model.RoleWarden.IsSupervisor())
	assert.True(t, model.RoleStaff.IsSupervisor())
	assert.False(t, model.RoleStudent.IsSupervisor())
	assert.False(t, model.RoleWorker.IsSupervisor())
}

// TestCanTransition memeriksa seluruh pasangan (from, to) terhadap tabel transisi.
func TestCanTransition(t *testing.T) {
	allowed := map[[2]model.Status]bool{
		{model.StatusInProgress, model.StatusResolved}: true,
		{model.StatusReopened, model.StatusInProgress}: true,
		{model.StatusReopened, model.StatusResolved}:   true,
	}

	for _, from := range model.AllStatuses() {
		for _, to := range model.AllStatuses() {
			want := allowed[[2]model.Status{from, to}]
			assert.Equal(t, want, model.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestAllowedTransitions(t *testing.T) {
	assert.Empty(t, model.AllowedTransitions(model.StatusPending))
	assert.Equal(t, []model.Status{model.StatusResolved}, model.AllowedTransitions(model.StatusInProgress))
	assert.Empty(t, model.AllowedTransitions(model.StatusResolved))
	assert.Equal(t, []model.Status{model.StatusInProgress, model.StatusResolved}, model.AllowedTransitions(model.StatusReopened))
	assert.Empty(t, model.AllowedTransitions(model.Status("UNKNOWN")))
}

func TestComplaintPredicates(t *testing.T) {
	owner := uuid.New()
	worker := uuid.New()

	c := &model.Complaint{StudentID: owner, Status: model.StatusPending}
	assert.True(t, c.IsOwnedBy(owner))
	assert.False(t, c.IsOwnedBy(worker))
	assert.True(t, c.CanBeAccepted())
	assert.False(t, c.IsAssignedTo(worker))

	c.AssignedToID = &worker
	c.Status = model.StatusInProgress
	assert.False(t, c.CanBeAccepted())
	assert.True(t, c.IsAssignedTo(worker))
	assert.False(t, c.CanBeReopened())
	assert.False(t, c.AcceptsFeedback())

	c.Status = model.StatusResolved
	assert.True(t, c.CanBeReopened())
	assert.True(t, c.AcceptsFeedback())

	c.Status = model.StatusReopened
	assert.False(t, c.CanBeReopened())
}

func TestUserPublic_HidesSecrets(t *testing.T) {
	token := "refresh"
	u := &model.User{ID: uuid.New(), Name: "A", Email: "a@example.com", PasswordHash: "hash", Role: model.RoleStudent, RefreshToken: &token}
	p := u.Public()
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, model.RoleStudent, p.Role)
}
