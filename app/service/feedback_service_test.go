package service

import (
	"context"
	"net/http"
	"testing"

	"complaint-tracker-backend/app/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiveFeedback_CreateOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := newCaller(model.RoleStudent)
	c := env.store.put(model.Complaint{Status: model.StatusResolved, StudentID: owner.ID})

	fb, err := env.feedback.GiveFeedback(ctx, owner, c.ID.String(), FeedbackInput{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, c.ID, fb.ComplaintID)
	assert.Equal(t, owner.ID, fb.StudentID)

	_, err = env.feedback.GiveFeedback(ctx, owner, c.ID.String(), FeedbackInput{Rating: 1})
	assertStatus(t, err, http.StatusConflict)

	stored, err := memFeedbackRepo{env.store}.FindByComplaintID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Rating)
}

func TestGiveFeedback_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := newCaller(model.RoleStudent)
	pending := env.store.put(model.Complaint{Status: model.StatusPending, StudentID: owner.ID})
	resolved := env.store.put(model.Complaint{Status: model.StatusResolved, StudentID: owner.ID})

	_, err := env.feedback.GiveFeedback(ctx, owner, "", FeedbackInput{Rating: 3})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = env.feedback.GiveFeedback(ctx, owner, uuid.NewString(), FeedbackInput{Rating: 3})
	assertStatus(t, err, http.StatusNotFound)

	_, err = env.feedback.GiveFeedback(ctx, owner, pending.ID.String(), FeedbackInput{Rating: 3})
	assertStatus(t, err, http.StatusConflict)

	_, err = env.feedback.GiveFeedback(ctx, newCaller(model.RoleStudent), resolved.ID.String(), FeedbackInput{Rating: 3})
	assertStatus(t, err, http.StatusForbidden)

	_, err = env.feedback.GiveFeedback(ctx, newCaller(model.RoleWarden), resolved.ID.String(), FeedbackInput{Rating: 3})
	assertStatus(t, err, http.StatusForbidden)
}

func TestGetFeedback(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := newCaller(model.RoleStudent)
	c := env.store.put(model.Complaint{Status: model.StatusResolved, StudentID: owner.ID})

	_, err := env.feedback.GetFeedback(ctx, owner, c.ID.String())
	assertStatus(t, err, http.StatusNotFound)

	_, err = env.feedback.GiveFeedback(ctx, owner, c.ID.String(), FeedbackInput{Rating: 4})
	require.NoError(t, err)

	fb, err := env.feedback.GetFeedback(ctx, newCaller(model.RoleStaff), c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 4, fb.Rating)

	_, err = env.feedback.GetFeedback(ctx, newCaller(model.RoleStudent), c.ID.String())
	assertStatus(t, err, http.StatusForbidden)
}
