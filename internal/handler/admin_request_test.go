package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mzurek/drumtrack/internal/model"
)

func TestAllowedTransitions(t *testing.T) {
	assert.Equal(t, model.RequestStatusApproved, allowedTransitions[model.RequestStatusPending])
	assert.Equal(t, model.RequestStatusCompleted, allowedTransitions[model.RequestStatusApproved])

	// COMPLETED is terminal, and nothing ever moves backwards.
	assert.Empty(t, allowedTransitions[model.RequestStatusCompleted])
	for from, to := range allowedTransitions {
		assert.NotEqual(t, model.RequestStatusPending, to, "no path back to PENDING from %s", from)
	}
}
