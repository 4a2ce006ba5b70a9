package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

const testUserID = shared.UserID("3f2504e0-4f89-41d3-9a0c-0305e82c3301")

func TestNew(t *testing.T) {
	submittedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	a, err := New("a-1", testUserID, "  Graph Theory Worksheet  ", " solutions attached ",
		" Mathematics ", " second attempt ", "https://blobs/x.pdf", "worksheet.pdf", "application/pdf", submittedAt)
	require.NoError(t, err)

	assert.Equal(t, "Graph Theory Worksheet", a.Title)
	assert.Equal(t, "solutions attached", a.Description)
	assert.Equal(t, "Mathematics", a.Subject)
	assert.Equal(t, "second attempt", a.Comments)
	assert.Equal(t, submittedAt, a.SubmittedAt)

	// File metadata is kept exactly as uploaded.
	assert.Equal(t, "worksheet.pdf", a.FileName)
	assert.Equal(t, "application/pdf", a.FileType)
}

func TestNewValidation(t *testing.T) {
	now := time.Now()

	_, err := New("a-1", testUserID, "   ", "", "", "", "https://blobs/x.pdf", "x.pdf", "application/pdf", now)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = New("a-1", testUserID, "Title", "", "", "", "", "x.pdf", "application/pdf", now)
	assert.ErrorIs(t, err, ErrMissingFile)

	_, err = New("a-1", "", "Title", "", "", "", "https://blobs/x.pdf", "x.pdf", "application/pdf", now)
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestBlobPath(t *testing.T) {
	now := time.UnixMilli(1709287200123).UTC()

	assert.Equal(t,
		"3f2504e0-4f89-41d3-9a0c-0305e82c3301/1709287200123.pdf",
		BlobPath(testUserID, "worksheet.pdf", now))

	// No extension on the original name means no extension on the path.
	assert.Equal(t,
		"3f2504e0-4f89-41d3-9a0c-0305e82c3301/1709287200123",
		BlobPath(testUserID, "README", now))

	// Only the final extension survives.
	assert.Equal(t,
		"3f2504e0-4f89-41d3-9a0c-0305e82c3301/1709287200123.gz",
		BlobPath(testUserID, "archive.tar.gz", now))
}
