package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"complaint-tracker-backend/app/model"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), ErrDuplicate)

	other := errors.New("connection reset")
	assert.Same(t, other, translateError(other))
}

func TestEncodeEvent(t *testing.T) {
	to := model.StatusInProgress
	ev := model.ComplaintEvent{
		ComplaintID: "c-1",
		ActorID:     "w-1",
		ActorRole:   model.RoleWorker,
		Action:      model.ActionAccepted,
		ToStatus:    &to,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	payload, err := encodeEvent(ev)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &body))
	assert.Equal(t, "c-1", body["complaintId"])
	assert.Equal(t, "ACCEPTED", body["action"])
	assert.Equal(t, "IN_PROGRESS", body["toStatus"])
	assert.NotContains(t, body, "fromStatus")
}

func TestNoopImplementations(t *testing.T) {
	ctx := context.Background()

	events := NewEventRepository(nil)
	require.NoError(t, events.Append(ctx, &model.ComplaintEvent{ComplaintID: "x"}))
	list, err := events.ListByComplaint(ctx, "x")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	assert.NoError(t, NewEventPublisher(nil, "ch").Publish(ctx, model.ComplaintEvent{}))

	bl := NewTokenBlocklist(nil)
	require.NoError(t, bl.Revoke(ctx, "jti", time.Minute))
	revoked, err := bl.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
