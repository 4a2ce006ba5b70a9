// Package http implements the REST API for the EduTrack backend.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edutrack/edutrack-backend/internal/application/command"
	"github.com/edutrack/edutrack-backend/internal/application/query"
	"github.com/edutrack/edutrack-backend/internal/domain/assignment"
	"github.com/edutrack/edutrack-backend/internal/domain/attendance"
	"github.com/edutrack/edutrack-backend/internal/domain/note"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/internal/domain/student"
	"github.com/edutrack/edutrack-backend/internal/infrastructure/identity"
	"github.com/edutrack/edutrack-backend/pkg/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// authedHandler is a handler that runs with a resolved caller identity. The
// user ID is always passed explicitly; nothing reads it from ambient state.
type authedHandler func(w http.ResponseWriter, r *http.Request, id identity.Identity)

// authenticated resolves the bearer token before invoking the handler.
func (s *Server) authenticated(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Identity == nil {
			writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Identity provider not configured")
			return
		}

		token := bearerToken(r)
		id, err := s.deps.Identity.CurrentUser(r.Context(), token)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}

		s.mirrorProfile(r, id)

		next(w, r, id)
	}
}

// teacherOnly rejects callers without the teacher role.
func (s *Server) teacherOnly(next authedHandler) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, id identity.Identity) {
		if !id.Role.IsTeacher() {
			s.writeDomainError(w, r, shared.ErrTeacherOnly)
			return
		}
		next(w, r, id)
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// mirrorProfile keeps the local profile copy in sync with the identity
// provider. Failures only cost the teacher views their display data, so they
// are logged and swallowed.
func (s *Server) mirrorProfile(r *http.Request, id identity.Identity) {
	if s.deps.Profiles == nil {
		return
	}

	profile, err := student.NewProfile(id.UserID, id.FullName, id.RollNumber, id.Role)
	if err != nil {
		return
	}

	if err := s.deps.Profiles.Upsert(r.Context(), profile); err != nil {
		s.logger.Warn("profile mirror failed",
			logger.UserID(id.UserID.String()),
			logger.Err(err),
		)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError translates domain errors into HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, attendance.ErrAlreadyMarked):
		writeJSONError(w, http.StatusConflict, "already_marked", "Attendance already marked for today")
	case errors.Is(err, attendance.ErrGeolocationUnavailable):
		writeJSONError(w, http.StatusUnprocessableEntity, "geolocation_unavailable", "Geolocation could not be determined")
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case shared.IsUnauthenticated(err):
		writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "A valid bearer token is required")
	case shared.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, "forbidden", "The caller is not allowed to perform this operation")
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", "The requested resource does not exist")
	case errors.Is(err, shared.ErrServiceUnavailable) || errors.Is(err, shared.ErrTimeout):
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", "An upstream dependency is unavailable, try again later")
	case shared.IsStorage(err):
		writeJSONError(w, http.StatusBadGateway, "upstream_failure", "An upstream dependency failed")
	default:
		s.logger.Error("unhandled error",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}

	info := map[string]interface{}{
		"name":    "EduTrack API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":      "/health",
			"attendance":  "/api/v1/attendance",
			"assignments": "/api/v1/assignments",
			"notes":       "/api/v1/notes",
			"performance": "/api/v1/performance",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// markAttendanceRequest is the POST /api/v1/attendance body. Coordinates are
// optional; whether marking without them is allowed is server policy.
type markAttendanceRequest struct {
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	LocationName string   `json:"locationName" validate:"omitempty,max=255"`
}

type geolocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

type attendanceResponse struct {
	ID       string               `json:"id"`
	Date     string               `json:"date"`
	MarkedAt time.Time            `json:"markedAt"`
	Status   string               `json:"status"`
	Location *geolocationResponse `json:"location,omitempty"`
}

func toAttendanceResponse(rec *attendance.Record) attendanceResponse {
	resp := attendanceResponse{
		ID:       rec.ID,
		Date:     rec.Date.Format("2006-01-02"),
		MarkedAt: rec.MarkedAt,
		Status:   string(rec.Status),
	}
	if rec.Location != nil {
		resp.Location = &geolocationResponse{
			Latitude:  rec.Location.Latitude,
			Longitude: rec.Location.Longitude,
			Name:      rec.Location.Name,
		}
	}
	return resp
}

// handleMarkAttendance handles POST /api/v1/attendance
func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	var req markAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	cmd := command.MarkAttendanceCommand{
		UserID:       id.UserID.String(),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: req.LocationName,
	}

	rec, err := s.deps.MarkAttendanceHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAttendanceResponse(rec))
}

// handleGetAttendance handles GET /api/v1/attendance
func (s *Server) handleGetAttendance(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	q := query.GetAttendanceQuery{
		UserID: id.UserID.String(),
		Limit:  getQueryParamInt(r, "limit", 0),
	}

	records, err := s.deps.GetAttendanceHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]attendanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toAttendanceResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGNMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type assignmentResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Comments    string    `json:"comments,omitempty"`
	FileURL     string    `json:"fileUrl"`
	FileName    string    `json:"fileName"`
	FileType    string    `json:"fileType"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func toAssignmentResponse(a *assignment.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Subject:     a.Subject,
		Comments:    a.Comments,
		FileURL:     a.FileURL,
		FileName:    a.FileName,
		FileType:    a.FileType,
		SubmittedAt: a.SubmittedAt,
	}
}

// handleSubmitAssignment handles POST /api/v1/assignments (multipart form).
// Expected fields: title, description, subject, comments (all but title
// optional) and a "file" part.
func (s *Server) handleSubmitAssignment(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid or oversized multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_failed", "A file part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to read uploaded file")
		return
	}

	cmd := command.SubmitAssignmentCommand{
		UserID:      id.UserID.String(),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Subject:     r.FormValue("subject"),
		Comments:    r.FormValue("comments"),
		FileName:    header.Filename,
		FileBytes:   data,
		ContentType: header.Header.Get("Content-Type"),
	}

	a, err := s.deps.SubmitAssignmentHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentResponse(a))
}

// handleGetAssignments handles GET /api/v1/assignments
func (s *Server) handleGetAssignments(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	q := query.GetAssignmentsQuery{
		UserID: id.UserID.String(),
		Limit:  getQueryParamInt(r, "limit", 0),
	}

	assignments, err := s.deps.GetAssignmentsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]assignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, toAssignmentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createNoteRequest struct {
	Title        string     `json:"title" validate:"required,max=255"`
	Content      string     `json:"content" validate:"required,max=20000"`
	Subject      string     `json:"subject" validate:"omitempty,max=100"`
	ReminderDate *time.Time `json:"reminderDate"`
}

type noteResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Subject      string     `json:"subject,omitempty"`
	ReminderDate *time.Time `json:"reminderDate,omitempty"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toNoteResponse(n *note.Note) noteResponse {
	return noteResponse{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		Subject:      n.Subject,
		ReminderDate: n.ReminderDate,
		Completed:    n.Completed,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

// handleCreateNote handles POST /api/v1/notes
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	var req createNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	n, err := s.deps.NoteHandler.Create(r.Context(), command.CreateNoteCommand{
		UserID:       id.UserID.String(),
		Title:        req.Title,
		Content:      req.Content,
		Subject:      req.Subject,
		ReminderDate: req.ReminderDate,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(n))
}

// handleGetNotes handles GET /api/v1/notes
func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	notes, err := s.deps.GetNotesHandler.Handle(r.Context(), query.GetNotesQuery{
		UserID: id.UserID.String(),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleToggleNote handles PATCH /api/v1/notes/{id}/toggle
func (s *Server) handleToggleNote(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	noteID := r.PathValue("id")
	if noteID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Note ID is required")
		return
	}

	n, err := s.deps.NoteHandler.Toggle(r.Context(), command.ToggleNoteCommand{
		UserID: id.UserID.String(),
		NoteID: noteID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// handleDeleteNote handles DELETE /api/v1/notes/{id}
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	noteID := r.PathValue("id")
	if noteID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Note ID is required")
		return
	}

	err := s.deps.NoteHandler.Delete(r.Context(), command.DeleteNoteCommand{
		UserID: id.UserID.String(),
		NoteID: noteID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// PERFORMANCE HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetPerformance handles GET /api/v1/performance?month=YYYY-MM
func (s *Server) handleGetPerformance(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	report, err := s.deps.GetPerformanceHandler.Handle(r.Context(), query.GetPerformanceQuery{
		UserID: id.UserID.String(),
		Month:  getQueryParam(r, "month", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type teacherAttendanceResponse struct {
	attendanceResponse
	UserID     string `json:"userId"`
	FullName   string `json:"fullName"`
	RollNumber string `json:"rollNumber,omitempty"`
}

// handleListAllAttendance handles GET /api/v1/teacher/attendance
func (s *Server) handleListAllAttendance(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	records, err := s.deps.ListAllAttendanceHandler.Handle(r.Context(), query.ListAllAttendanceQuery{
		Limit: getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]teacherAttendanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, teacherAttendanceResponse{
			attendanceResponse: toAttendanceResponse(&rec.Record),
			UserID:             rec.UserID.String(),
			FullName:           rec.FullName,
			RollNumber:         rec.RollNumber,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type teacherAssignmentResponse struct {
	assignmentResponse
	UserID     string `json:"userId"`
	FullName   string `json:"fullName"`
	RollNumber string `json:"rollNumber,omitempty"`
}

// handleListAllAssignments handles GET /api/v1/teacher/assignments
func (s *Server) handleListAllAssignments(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	assignments, err := s.deps.ListAllAssignmentsHandler.Handle(r.Context(), query.ListAllAssignmentsQuery{
		Limit: getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]teacherAssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, teacherAssignmentResponse{
			assignmentResponse: toAssignmentResponse(&a.Assignment),
			UserID:             a.UserID.String(),
			FullName:           a.FullName,
			RollNumber:         a.RollNumber,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON decodes a JSON request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
