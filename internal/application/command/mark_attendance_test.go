package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-backend/internal/domain/attendance"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/logger"
)

const (
	testUserID  = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"
	otherUserID = "9b2d61a4-12fa-4c11-8d40-52a9e10cf702"
)

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{Output: discard{}, Level: logger.LevelFatal})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func markCmd(userID string) MarkAttendanceCommand {
	lat, lon := 12.9716, 77.5946
	return MarkAttendanceCommand{
		UserID:       userID,
		Latitude:     &lat,
		Longitude:    &lon,
		LocationName: "Main Campus",
	}
}

func TestMarkAttendance(t *testing.T) {
	repo := newFakeAttendanceRepo()
	invalidator := newFakeInvalidator()
	h := NewMarkAttendanceHandler(repo, invalidator, quietLogger(), MarkAttendanceHandlerConfig{})

	record, err := h.Handle(context.Background(), markCmd(testUserID))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, record.Status)
	assert.Equal(t, shared.UserID(testUserID), record.UserID)
	assert.Equal(t, "Main Campus", record.LocationName())
	assert.Equal(t, 1, invalidator.count(shared.UserID(testUserID)))
}

func TestMarkAttendanceTwiceSameDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	h := NewMarkAttendanceHandler(repo, nil, quietLogger(), MarkAttendanceHandlerConfig{})

	_, err := h.Handle(context.Background(), markCmd(testUserID))
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), markCmd(testUserID))
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
}

func TestMarkAttendanceDistinctUsersSameDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	h := NewMarkAttendanceHandler(repo, nil, quietLogger(), MarkAttendanceHandlerConfig{})

	_, err := h.Handle(context.Background(), markCmd(testUserID))
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), markCmd(otherUserID))
	assert.NoError(t, err)
}

func TestMarkAttendanceNextDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	h := NewMarkAttendanceHandler(repo, nil, quietLogger(), MarkAttendanceHandlerConfig{})

	day1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return day1 }
	_, err := h.Handle(context.Background(), markCmd(testUserID))
	require.NoError(t, err)

	h.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	_, err = h.Handle(context.Background(), markCmd(testUserID))
	assert.NoError(t, err)
}

// Concurrent marks for the same user and day must yield exactly one success;
// all others observe the already-marked conflict.
func TestMarkAttendanceConcurrent(t *testing.T) {
	repo := newFakeAttendanceRepo()
	h := NewMarkAttendanceHandler(repo, nil, quietLogger(), MarkAttendanceHandlerConfig{})

	const workers = 32

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.Handle(context.Background(), markCmd(testUserID))
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, attendance.ErrAlreadyMarked):
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestMarkAttendanceGeolocationPolicy(t *testing.T) {
	noGeo := MarkAttendanceCommand{UserID: testUserID}

	// Optional by default: records with the unknown-location fallback.
	h := NewMarkAttendanceHandler(newFakeAttendanceRepo(), nil, quietLogger(), MarkAttendanceHandlerConfig{})
	record, err := h.Handle(context.Background(), noGeo)
	require.NoError(t, err)
	assert.Equal(t, shared.UnknownLocation, record.LocationName())

	// Required by policy: missing position is a hard error.
	h = NewMarkAttendanceHandler(newFakeAttendanceRepo(), nil, quietLogger(), MarkAttendanceHandlerConfig{
		GeolocationRequired: true,
	})
	_, err = h.Handle(context.Background(), noGeo)
	assert.ErrorIs(t, err, attendance.ErrGeolocationUnavailable)
}

func TestMarkAttendanceValidation(t *testing.T) {
	h := NewMarkAttendanceHandler(newFakeAttendanceRepo(), nil, quietLogger(), MarkAttendanceHandlerConfig{})

	_, err := h.Handle(context.Background(), MarkAttendanceCommand{})
	assert.ErrorIs(t, err, shared.ErrValidation)

	lat := 12.9
	_, err = h.Handle(context.Background(), MarkAttendanceCommand{UserID: testUserID, Latitude: &lat})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = h.Handle(context.Background(), MarkAttendanceCommand{UserID: "not-a-uuid"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestMarkAttendanceStorageFailure(t *testing.T) {
	repo := newFakeAttendanceRepo()
	repo.failWith = errStorageDown
	invalidator := newFakeInvalidator()
	h := NewMarkAttendanceHandler(repo, invalidator, quietLogger(), MarkAttendanceHandlerConfig{})

	_, err := h.Handle(context.Background(), markCmd(testUserID))
	assert.ErrorIs(t, err, errStorageDown)
	assert.Equal(t, 0, invalidator.count(shared.UserID(testUserID)))
}
