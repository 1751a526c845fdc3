package service

import (
	"testing"

	"complaint-tracker-backend/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_RoleMatrix(t *testing.T) {
	p, err := NewPolicy()
	require.NoError(t, err)

	cases := []struct {
		action string
		roles  []model.Role
	}{
		{actCreate, []model.Role{model.RoleStudent, model.RoleWorker, model.RoleWarden, model.RoleStaff}},
		{actRead, []model.Role{model.RoleStudent, model.RoleWorker, model.RoleWarden, model.RoleStaff}},
		{actAccept, []model.Role{model.RoleWorker}},
		{actUpdateStatus, []model.Role{model.RoleWorker}},
		{actReopen, []model.Role{model.RoleStudent}},
		{actDelete, []model.Role{model.RoleWarden, model.RoleStaff}},
		{actStats, []model.Role{model.RoleWarden, model.RoleStaff}},
	}

	for _, tc := range cases {
		allowed := make(map[model.Role]bool)
		for _, r := range tc.roles {
			allowed[r] = true
		}
		for _, role := range model.AllRoles() {
			assert.Equal(t, allowed[role], p.Allowed(role, objComplaint, tc.action), "%s %s", role, tc.action)
		}
	}

	assert.True(t, p.Allowed(model.RoleStudent, objFeedback, actCreate))
	assert.False(t, p.Allowed(model.RoleWorker, objFeedback, actCreate))
	assert.False(t, p.Allowed(model.Role("GUEST"), objComplaint, actRead))
}
