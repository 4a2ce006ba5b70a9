package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

const testUserID = shared.UserID("3f2504e0-4f89-41d3-9a0c-0305e82c3301")

func validGeo() *shared.Geolocation {
	return &shared.Geolocation{Latitude: 12.9716, Longitude: 77.5946, Name: "Main Campus"}
}

func TestNewRecord(t *testing.T) {
	markedAt := time.Date(2024, 3, 1, 9, 15, 30, 0, time.UTC)

	record, err := NewRecord("rec-1", testUserID, markedAt, validGeo(), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, StatusPresent, record.Status)
	assert.Equal(t, "2024-03-01", record.DateString(time.UTC))
	assert.Equal(t, "09:15:30", record.ClockString(time.UTC))
	assert.Equal(t, "Main Campus", record.LocationName())
}

func TestNewRecordDayFollowsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 2024-02-29 22:30 UTC is already 2024-03-01 in IST.
	markedAt := time.Date(2024, 2, 29, 22, 30, 0, 0, time.UTC)

	record, err := NewRecord("rec-1", testUserID, markedAt, validGeo(), loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", record.DateString(loc))
}

func TestNewRecordValidation(t *testing.T) {
	markedAt := time.Now()

	_, err := NewRecord("", testUserID, markedAt, validGeo(), time.UTC)
	assert.Error(t, err)

	_, err = NewRecord("rec-1", "", markedAt, validGeo(), time.UTC)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	badGeo := &shared.Geolocation{Latitude: 91, Longitude: 0}
	_, err = NewRecord("rec-1", testUserID, markedAt, badGeo, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidGeolocation)
}

func TestLocationNameFallback(t *testing.T) {
	// Position captured but reverse geocoding gave no name.
	unnamed := &shared.Geolocation{Latitude: 1, Longitude: 1}
	record, err := NewRecord("rec-1", testUserID, time.Now(), unnamed, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, shared.UnknownLocation, record.LocationName())

	// No position captured at all.
	record, err = NewRecord("rec-2", testUserID, time.Now(), nil, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, shared.UnknownLocation, record.LocationName())
}
