package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockFileStorage struct {
	mock.Mock
}

func (m *mockFileStorage) PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error {
	return m.Called(ctx, objectKey, contentType, body).Error(0)
}

func (m *mockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *mockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

func TestArchivePublisher_StoresFinalizedSession(t *testing.T) {
	f := newFixture(t)
	fs := &mockFileStorage{}
	archive := service.NewArchivePublisher(fs, f.stores.Sessions, f.stores.Tx)
	pub := service.NewFanoutPublisher(archive, service.LogPublisher{}, service.NewMetricsPublisher(f.metrics))
	sessions := service.NewSessionService(f.stores, pub, f.metrics, f.clock, fs, 5*time.Minute)

	session := f.start(t)
	bench := f.logExercise(t, session.ID, 0)
	f.addSet(t, bench.ID, 1, 100, 5)

	prefix := "sessions/" + f.trainee.ID.Hex() + "/" + session.ID.Hex() + "/"
	var archived []byte
	fs.On("PutObject", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, ".json")
	}), "application/json", mock.Anything).
		Run(func(args mock.Arguments) { archived = args.Get(3).([]byte) }).
		Return(nil).Once()

	_, err := sessions.CompleteSession(f.ctx, f.trainee.ID, session.ID, service.CompleteSessionInput{})
	require.NoError(t, err)
	fs.AssertExpectations(t)

	var body struct {
		Session struct {
			ID          primitive.ObjectID `json:"id"`
			TotalVolume float64            `json:"totalVolume"`
		} `json:"session"`
		ExerciseLogs []struct {
			TotalVolume float64 `json:"totalVolume"`
			Sets        []struct {
				Volume float64 `json:"volume"`
			} `json:"sets"`
		} `json:"exerciseLogs"`
	}
	require.NoError(t, json.Unmarshal(archived, &body))
	assert.Equal(t, session.ID, body.Session.ID)
	assert.Equal(t, 500.0, body.Session.TotalVolume)
	require.Len(t, body.ExerciseLogs, 1)
	require.Len(t, body.ExerciseLogs[0].Sets, 1)
	assert.Equal(t, 500.0, body.ExerciseLogs[0].Sets[0].Volume)

	stored, err := f.store.Sessions().GetByID(f.ctx, session.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored.ArchiveKey, prefix))
	assert.Equal(t, domain.SessionCompleted, stored.Status)

	fs.On("GeneratePresignedDownloadURL", mock.Anything, stored.ArchiveKey, 5*time.Minute).
		Return("https://archive.example.com/signed", nil).Once()
	url, err := sessions.GetArchiveURL(f.ctx, f.trainee.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://archive.example.com/signed", url)
}

func TestArchivePublisher_UploadFailure(t *testing.T) {
	f := newFixture(t)
	fs := &mockFileStorage{}
	archive := service.NewArchivePublisher(fs, f.stores.Sessions, f.stores.Tx)
	sessions := service.NewSessionService(f.stores, service.NewFanoutPublisher(archive), f.metrics, f.clock, fs, time.Minute)
	fs.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("s3 unavailable")).Once()

	session := f.start(t)
	detail, err := sessions.CompleteSession(f.ctx, f.trainee.ID, session.ID, service.CompleteSessionInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, detail.Session.Status)

	_, err = sessions.GetArchiveURL(f.ctx, f.trainee.ID, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	fs.AssertExpectations(t)
}

func TestArchivePublisher_RemovesObjectWhenKeyCannotBeRecorded(t *testing.T) {
	f := newFixture(t)
	fs := &mockFileStorage{}
	archive := service.NewArchivePublisher(fs, f.stores.Sessions, f.stores.Tx)

	missing := primitive.NewObjectID()
	fs.On("PutObject", mock.Anything, mock.Anything, "application/json", mock.Anything).Return(nil).Once()
	fs.On("DeleteObject", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.Contains(key, missing.Hex())
	})).Return(nil).Once()

	err := archive.PublishSessionCompleted(f.ctx, service.SessionCompletedEvent{
		SessionID: missing,
		TraineeID: f.trainee.ID,
		Detail:    &service.SessionDetail{Session: &domain.WorkoutSession{ID: missing}},
	})
	assert.Error(t, err)
	fs.AssertExpectations(t)

	assert.Error(t, archive.PublishSessionCompleted(f.ctx, service.SessionCompletedEvent{SessionID: missing}))
}
