package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack-backend/internal/application/command"
	"github.com/edutrack/edutrack-backend/internal/application/query"
	"github.com/edutrack/edutrack-backend/internal/domain/assignment"
	"github.com/edutrack/edutrack-backend/internal/domain/attendance"
	"github.com/edutrack/edutrack-backend/internal/domain/note"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/internal/infrastructure/identity"
	"github.com/edutrack/edutrack-backend/pkg/logger"
)

const (
	studentID    = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"
	teacherID    = "8b1e72aa-21c4-4f0f-9d55-7f3c1a2b4d60"
	studentToken = "student-token"
	teacherToken = "teacher-token"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type stubAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*attendance.Record // userID|date
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{records: make(map[string]*attendance.Record)}
}

func (s *stubAttendanceRepo) key(r *attendance.Record) string {
	return r.UserID.String() + "|" + r.Date.Format("2006-01-02")
}

func (s *stubAttendanceRepo) Insert(_ context.Context, r *attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(r)
	if _, ok := s.records[k]; ok {
		return attendance.ErrAlreadyMarked
	}
	s.records[k] = r
	return nil
}

func (s *stubAttendanceRepo) ListByUser(_ context.Context, userID shared.UserID, _ int) ([]*attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*attendance.Record
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubAttendanceRepo) CountInRange(context.Context, shared.UserID, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (s *stubAttendanceRepo) ListAllWithStudent(_ context.Context, _ int) ([]*attendance.RecordWithStudent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*attendance.RecordWithStudent
	for _, r := range s.records {
		out = append(out, &attendance.RecordWithStudent{Record: *r, FullName: "Someone"})
	}
	return out, nil
}

type stubAssignmentRepo struct {
	mu          sync.Mutex
	assignments []*assignment.Assignment
}

func (s *stubAssignmentRepo) Insert(_ context.Context, a *assignment.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, a)
	return nil
}

func (s *stubAssignmentRepo) ListByUser(_ context.Context, userID shared.UserID, _ int) ([]*assignment.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*assignment.Assignment
	for _, a := range s.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAssignmentRepo) CountByUser(context.Context, shared.UserID) (int, error) {
	return 0, nil
}

func (s *stubAssignmentRepo) CountByUserInRange(context.Context, shared.UserID, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (s *stubAssignmentRepo) ListAllWithStudent(context.Context, int) ([]*assignment.AssignmentWithStudent, error) {
	return nil, nil
}

type stubBlobStore struct{}

func (stubBlobStore) Put(_ context.Context, path string, _ []byte, _ string) (string, error) {
	return "https://blobs.example.com/assignments/" + path, nil
}

type stubNoteRepo struct {
	mu    sync.Mutex
	notes map[string]*note.Note
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{notes: make(map[string]*note.Note)}
}

func (s *stubNoteRepo) Insert(_ context.Context, n *note.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notes[n.ID] = &cp
	return nil
}

func (s *stubNoteRepo) GetByID(_ context.Context, id string) (*note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, note.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *stubNoteRepo) ListByUser(_ context.Context, userID shared.UserID) ([]*note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*note.Note
	for _, n := range s.notes {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *stubNoteRepo) SetCompleted(_ context.Context, id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return note.ErrNotFound
	}
	n.Completed = completed
	return nil
}

func (s *stubNoteRepo) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return note.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *stubNoteRepo) CountByUser(context.Context, shared.UserID) (note.Counts, error) {
	return note.Counts{}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Test server
// ─────────────────────────────────────────────────────────────────────────────

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{Output: discard{}, Level: logger.LevelFatal})
}

func newTestServer(t *testing.T) (*Server, *stubAttendanceRepo, *stubNoteRepo) {
	t.Helper()

	provider := identity.NewStaticProvider()
	provider.Register(studentToken, identity.Identity{
		UserID: shared.UserID(studentID),
		Role:   shared.RoleStudent,
	})
	provider.Register(teacherToken, identity.Identity{
		UserID: shared.UserID(teacherID),
		Role:   shared.RoleTeacher,
	})

	attRepo := newStubAttendanceRepo()
	noteRepo := newStubNoteRepo()
	assignRepo := &stubAssignmentRepo{}
	log := quietLogger()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	srv := NewServer(cfg, Dependencies{
		MarkAttendanceHandler: command.NewMarkAttendanceHandler(attRepo, nil, log,
			command.MarkAttendanceHandlerConfig{Location: time.UTC}),
		SubmitAssignmentHandler:  command.NewSubmitAssignmentHandler(assignRepo, stubBlobStore{}, nil, log),
		NoteHandler:              command.NewNoteHandler(noteRepo, nil, log),
		GetAttendanceHandler:     query.NewGetAttendanceHandler(attRepo),
		GetAssignmentsHandler:    query.NewGetAssignmentsHandler(assignRepo),
		GetNotesHandler:          query.NewGetNotesHandler(noteRepo),
		ListAllAttendanceHandler: query.NewListAllAttendanceHandler(attRepo),
		Identity:                 provider,
		Logger:                   log,
	})
	return srv, attRepo, noteRepo
}

func do(srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestAuthRequired(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/v1/attendance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(srv, http.MethodGet, "/api/v1/attendance", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTeacherEndpointsRequireTeacherRole(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/v1/teacher/attendance", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(srv, http.MethodGet, "/api/v1/teacher/attendance", teacherToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMarkAttendanceConflictOnSecondMark(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/v1/attendance", studentToken, map[string]interface{}{})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(srv, http.MethodPost, "/api/v1/attendance", studentToken, map[string]interface{}{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "already_marked", resp.Error.Code)
}

func TestMarkAttendanceRejectsHalfCoordinates(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/v1/attendance", studentToken, map[string]interface{}{
		"latitude": 12.97,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNoteValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/v1/notes", studentToken, map[string]interface{}{
		"content": "no title",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodPost, "/api/v1/notes", studentToken, map[string]interface{}{
		"title": "no content",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Whitespace-only content passes the DTO check but not the domain one.
	rec = do(srv, http.MethodPost, "/api/v1/notes", studentToken, map[string]interface{}{
		"title":   "blank content",
		"content": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNoteKeepsSubjectAndReminder(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/v1/notes", studentToken, map[string]interface{}{
		"title":        "Revise graphs",
		"content":      "BFS, DFS",
		"subject":      "Algorithms",
		"reminderDate": "2024-03-10T09:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data noteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Algorithms", created.Data.Subject)
	require.NotNil(t, created.Data.ReminderDate)
	assert.Equal(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), created.Data.ReminderDate.UTC())

	// The reminder comes back on listing too.
	rec = do(srv, http.MethodGet, "/api/v1/notes", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Data []noteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, "Algorithms", listed.Data[0].Subject)
	require.NotNil(t, listed.Data[0].ReminderDate)
}

func TestNoteToggleRoundTrip(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/v1/notes", studentToken, map[string]interface{}{
		"title":   "revise graphs",
		"content": "BFS, DFS",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data noteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	assert.False(t, created.Data.Completed)

	rec = do(srv, http.MethodPatch, "/api/v1/notes/"+created.Data.ID+"/toggle", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var toggled struct {
		Data noteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.True(t, toggled.Data.Completed)
}

func TestForeignNoteReportsNotFound(t *testing.T) {
	srv, _, noteRepo := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/v1/notes", studentToken, map[string]interface{}{
		"title":   "mine",
		"content": "private body",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data noteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Another caller cannot toggle or delete it, and cannot tell it exists.
	rec = do(srv, http.MethodPatch, "/api/v1/notes/"+created.Data.ID+"/toggle", teacherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(srv, http.MethodDelete, "/api/v1/notes/"+created.Data.ID, teacherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := noteRepo.GetByID(context.Background(), created.Data.ID)
	assert.NoError(t, err)
}

func TestDeleteMissingNote(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodDelete, "/api/v1/notes/does-not-exist", studentToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAssignmentRoundTrip(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Graph Theory Worksheet"))
	require.NoError(t, mw.WriteField("description", "solutions attached"))
	require.NoError(t, mw.WriteField("subject", "Mathematics"))
	require.NoError(t, mw.WriteField("comments", "second attempt"))

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="worksheet.pdf"`)
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 ..."))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", &buf)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data assignmentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "worksheet.pdf", created.Data.FileName)
	assert.Equal(t, "application/pdf", created.Data.FileType)
	assert.Equal(t, "Mathematics", created.Data.Subject)
	assert.Equal(t, "second attempt", created.Data.Comments)

	// Listing returns the same file metadata the submission reported.
	list := do(srv, http.MethodGet, "/api/v1/assignments", studentToken, nil)
	require.Equal(t, http.StatusOK, list.Code)

	var listed struct {
		Data []assignmentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, created.Data.FileName, listed.Data[0].FileName)
	assert.Equal(t, created.Data.FileType, listed.Data[0].FileType)
	assert.Equal(t, created.Data.FileURL, listed.Data[0].FileURL)
}
