package command

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/assignment"
	"github.com/edutrack/edutrack-backend/internal/domain/attendance"
	"github.com/edutrack/edutrack-backend/internal/domain/note"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
)

// fakeAttendanceRepo enforces the per-day uniqueness the way the database
// does: atomically at insert time, under a single lock.
type fakeAttendanceRepo struct {
	mu       sync.Mutex
	records  map[string]*attendance.Record // key: userID|date
	failWith error
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Record)}
}

func (f *fakeAttendanceRepo) key(userID shared.UserID, date time.Time) string {
	return userID.String() + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Insert(_ context.Context, rec *attendance.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}
	k := f.key(rec.UserID, rec.Date)
	if _, exists := f.records[k]; exists {
		return attendance.ErrAlreadyMarked
	}
	f.records[k] = rec
	return nil
}

func (f *fakeAttendanceRepo) ListByUser(_ context.Context, userID shared.UserID, _ int) ([]*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*attendance.Record
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) CountInRange(_ context.Context, userID shared.UserID, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, rec := range f.records {
		if rec.UserID == userID && !rec.Date.Before(from) && !rec.Date.After(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttendanceRepo) ListAllWithStudent(_ context.Context, _ int) ([]*attendance.RecordWithStudent, error) {
	return nil, nil
}

// fakeAssignmentRepo stores submissions in memory.
type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments []*assignment.Assignment
	failWith    error
}

func (f *fakeAssignmentRepo) Insert(_ context.Context, a *assignment.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}
	f.assignments = append(f.assignments, a)
	return nil
}

func (f *fakeAssignmentRepo) ListByUser(_ context.Context, userID shared.UserID, _ int) ([]*assignment.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*assignment.Assignment
	for _, a := range f.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) CountByUser(_ context.Context, userID shared.UserID) (int, error) {
	all, _ := f.ListByUser(context.Background(), userID, 0)
	return len(all), nil
}

func (f *fakeAssignmentRepo) CountByUserInRange(_ context.Context, userID shared.UserID, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, a := range f.assignments {
		if a.UserID == userID && !a.SubmittedAt.Before(from) && !a.SubmittedAt.After(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAssignmentRepo) ListAllWithStudent(_ context.Context, _ int) ([]*assignment.AssignmentWithStudent, error) {
	return nil, nil
}

// fakeBlobStore records uploads and can be told to fail.
type fakeBlobStore struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	failWith error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(_ context.Context, path string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return "", f.failWith
	}
	f.uploads[path] = data
	return "https://blobs.example.com/assignments/" + path, nil
}

// fakeNoteRepo stores notes in memory.
type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[string]*note.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[string]*note.Note)}
}

func (f *fakeNoteRepo) Insert(_ context.Context, n *note.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *n
	f.notes[n.ID] = &clone
	return nil
}

func (f *fakeNoteRepo) GetByID(_ context.Context, id string) (*note.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.notes[id]
	if !ok {
		return nil, note.ErrNotFound
	}
	clone := *n
	return &clone, nil
}

func (f *fakeNoteRepo) ListByUser(_ context.Context, userID shared.UserID) ([]*note.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*note.Note
	for _, n := range f.notes {
		if n.UserID == userID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) SetCompleted(_ context.Context, id string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.notes[id]
	if !ok {
		return note.ErrNotFound
	}
	n.Completed = completed
	return nil
}

func (f *fakeNoteRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.notes[id]; !ok {
		return note.ErrNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeNoteRepo) CountByUser(_ context.Context, userID shared.UserID) (note.Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var counts note.Counts
	for _, n := range f.notes {
		if n.UserID == userID {
			counts.Total++
			if n.Completed {
				counts.Completed++
			}
		}
	}
	return counts, nil
}

// fakeInvalidator counts invalidations per user.
type fakeInvalidator struct {
	mu    sync.Mutex
	calls map[shared.UserID]int
}

func newFakeInvalidator() *fakeInvalidator {
	return &fakeInvalidator{calls: make(map[shared.UserID]int)}
}

func (f *fakeInvalidator) Invalidate(_ context.Context, userID shared.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[userID]++
	return nil
}

func (f *fakeInvalidator) count(userID shared.UserID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[userID]
}

var errStorageDown = errors.New("storage down")
