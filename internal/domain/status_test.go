package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseStatus_RejectsUnknown(t *testing.T) {
	_, err := domain.ParseSessionStatus("paused")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = domain.ParseExerciseLogStatus("done")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = domain.ParseTrackerStatus("")
	assert.ErrorIs(t, err, domain.ErrValidation)

	st, err := domain.ParseTrackerStatus("paused")
	require.NoError(t, err)
	assert.Equal(t, domain.TrackerPaused, st)
}

func TestStatus_JSON(t *testing.T) {
	var body struct {
		Status domain.SessionStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"in_progress"}`), &body))
	assert.Equal(t, domain.SessionInProgress, body.Status)

	err := json.Unmarshal([]byte(`{"status":"bogus"}`), &body)
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err := json.Marshal(struct {
		Status domain.ExerciseLogStatus `json:"status"`
	}{domain.ExerciseLogSkipped})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"skipped"}`, string(out))
}

func TestStatus_BSON(t *testing.T) {
	type doc struct {
		Status domain.TrackerStatus `bson:"status"`
	}
	raw, err := bson.Marshal(doc{Status: domain.TrackerCompleted})
	require.NoError(t, err)

	var decoded doc
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, domain.TrackerCompleted, decoded.Status)

	raw, err = bson.Marshal(bson.M{"status": "halted"})
	require.NoError(t, err)
	assert.Error(t, bson.Unmarshal(raw, &decoded))

	raw, err = bson.Marshal(bson.M{"status": 3})
	require.NoError(t, err)
	assert.Error(t, bson.Unmarshal(raw, &decoded))
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{&domain.NotFoundError{Entity: "set log"}, "not_found"},
		{&domain.ImmutableError{SessionID: "abc"}, "immutable"},
		{&domain.StateTransitionError{Entity: "exercise log", Op: "start", From: "completed", Final: true}, "invalid_state_transition"},
		{&domain.ValidationError{Field: "rpe", Reason: "out of range"}, "validation"},
		{&domain.ConflictError{Entity: "set log", Reason: "duplicate"}, "conflict"},
		{fmt.Errorf("wrapped: %w", &domain.ImmutableError{}), "immutable"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, domain.ErrorKind(tc.err), tc.err.Error())
	}
}

func TestStateTransitionError_Message(t *testing.T) {
	err := &domain.StateTransitionError{Entity: "workout session", Op: "complete", From: "completed", Final: true}
	assert.Contains(t, err.Error(), "already finalized")

	err = &domain.StateTransitionError{Entity: "exercise log", Op: "start", From: "in_progress"}
	assert.NotContains(t, err.Error(), "finalized")
}
