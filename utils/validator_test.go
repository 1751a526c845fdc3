package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Title  string `validate:"required"`
	Rating int    `validate:"min=1,max=5"`
	Kind   string `validate:"omitempty,oneof=a b"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sampleInput{Title: "x", Rating: 3}, "Invalid input"))

	err := ValidateStruct(sampleInput{Rating: 9, Kind: "c"}, "Invalid input")
	require.Error(t, err)

	appErr := AsAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Invalid input", appErr.Message)
	assert.ElementsMatch(t, []string{
		"title is required",
		"rating must be at most 5",
		"kind must be one of [a b]",
	}, appErr.Errors)
}
