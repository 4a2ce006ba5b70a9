// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edutrack/edutrack-backend/internal/domain/assignment"
	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT ASSIGNMENT COMMAND
// Uploads the file to the blob store first, then records the metadata row.
// The ordering is deliberate: a failed insert after a successful upload
// leaves an orphaned blob, which is logged and accepted; the reverse order
// could record a submission whose file does not exist.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitAssignmentCommand contains the data to submit an assignment.
type SubmitAssignmentCommand struct {
	// UserID is the submitting user. Always explicit.
	UserID string

	// Title is the assignment title, required.
	Title string

	// Description is optional free text.
	Description string

	// Subject is an optional course/subject label.
	Subject string

	// Comments is optional free text from the submitter.
	Comments string

	// FileName is the original file name. It is stored verbatim; the blob
	// path keeps only its extension.
	FileName string

	// FileBytes is the file content, required.
	FileBytes []byte

	// ContentType is the MIME type reported by the upload.
	ContentType string
}

// Validate validates the command.
func (c SubmitAssignmentCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("submit_assignment: user_id is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return assignment.ErrEmptyTitle
	}
	if len(c.FileBytes) == 0 {
		return assignment.ErrMissingFile
	}
	return nil
}

// SubmitAssignmentHandler handles the SubmitAssignmentCommand.
type SubmitAssignmentHandler struct {
	repo        assignment.Repository
	blobs       assignment.BlobStore
	invalidator ReportInvalidator
	logger      *logger.Logger

	now func() time.Time
}

// NewSubmitAssignmentHandler creates a new SubmitAssignmentHandler.
func NewSubmitAssignmentHandler(
	repo assignment.Repository,
	blobs assignment.BlobStore,
	invalidator ReportInvalidator,
	log *logger.Logger,
) *SubmitAssignmentHandler {
	if log == nil {
		log = logger.Default()
	}

	return &SubmitAssignmentHandler{
		repo:        repo,
		blobs:       blobs,
		invalidator: invalidator,
		logger:      log.With(logger.Component("submit_assignment")),
		now:         time.Now,
	}
}

// Handle executes the submit assignment command.
func (h *SubmitAssignmentHandler) Handle(ctx context.Context, cmd SubmitAssignmentCommand) (*assignment.Assignment, error) {
	if err := cmd.Validate(); err != nil {
		if errors.Is(err, assignment.ErrEmptyTitle) || errors.Is(err, assignment.ErrMissingFile) {
			return nil, shared.WrapError("assignment", "Submit", shared.ErrValidation, "invalid submission", err)
		}
		return nil, shared.WrapError("assignment", "Submit", shared.ErrValidation, "invalid command", err)
	}

	userID, err := shared.NewUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	submittedAt := h.now()
	path := assignment.BlobPath(userID, cmd.FileName, submittedAt)

	fileURL, err := h.blobs.Put(ctx, path, cmd.FileBytes, cmd.ContentType)
	if err != nil {
		h.logger.Error("assignment upload failed",
			logger.UserID(userID.String()),
			logger.String("path", path),
			logger.Err(err),
		)
		return nil, err
	}

	a, err := assignment.New(uuid.NewString(), userID, cmd.Title, cmd.Description,
		cmd.Subject, cmd.Comments, fileURL, cmd.FileName, cmd.ContentType, submittedAt)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Insert(ctx, a); err != nil {
		// The uploaded blob is now orphaned. No compensating delete:
		// the store has no reference-counted cleanup and a stray
		// object is harmless.
		h.logger.Warn("assignment insert failed after upload, blob orphaned",
			logger.UserID(userID.String()),
			logger.String("file_url", fileURL),
			logger.Err(err),
		)
		return nil, err
	}

	h.invalidateReports(ctx, userID)

	h.logger.Info("assignment submitted",
		logger.UserID(userID.String()),
		logger.AssignmentID(a.ID),
		logger.String("title", a.Title),
	)

	return a, nil
}

// invalidateReports drops the user's cached reports, best effort.
func (h *SubmitAssignmentHandler) invalidateReports(ctx context.Context, userID shared.UserID) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.Invalidate(ctx, userID); err != nil {
		h.logger.Warn("report cache invalidation failed",
			logger.UserID(userID.String()),
			logger.Err(err),
		)
	}
}
