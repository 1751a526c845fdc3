package utils

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResponseFailed_EmptyErrorsArray(t *testing.T) {
	resp := BuildResponseFailed(NewNotFoundError("Complaint not found"), false)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(404), body["statusCode"])
	assert.Equal(t, []interface{}{}, body["errors"])
	assert.Contains(t, body, "data")
	assert.Nil(t, body["data"])
	assert.NotContains(t, body, "stack")
}

func TestBuildResponseFailed_StackOnlyWhenRequested(t *testing.T) {
	appErr := NewInternalError("Internal Server Error", errors.New("boom"))

	assert.Empty(t, BuildResponseFailed(appErr, false).Stack)
	assert.Contains(t, BuildResponseFailed(appErr, true).Stack, "boom")
}

func TestBuildResponseSuccess_OmitsErrors(t *testing.T) {
	raw, err := json.Marshal(BuildResponseSuccess(201, "Created", map[string]string{"id": "1"}))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "errors")
}
