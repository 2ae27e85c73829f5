package services

import (
	"context"

	"studyultra/internal/domain/models"
	"studyultra/internal/language"
)

// EmptySubmissionWarning is shown when a submission has neither a question
// nor a file.
const EmptySubmissionWarning = "Digite uma pergunta ou envie uma imagem/vídeo."

// SubmitRequest is one submission from the question form.
type SubmitRequest struct {
	Question   string
	Attachment *models.Attachment
}

// SubmitResult describes what a submission produced. Turn is nil when
// nothing was recorded, in which case Warning may explain why.
type SubmitResult struct {
	Language       language.Tag          `json:"language"`
	Turn           *models.ChatTurn      `json:"turn,omitempty"`
	Warning        string                `json:"warning,omitempty"`
	AttachmentKind models.AttachmentKind `json:"attachment_kind,omitempty"`
	AttachmentName string                `json:"attachment_name,omitempty"`
	SnapshotID     string                `json:"snapshot_id,omitempty"`
	History        models.ChatHistory    `json:"history"`
}

// TutorService runs the tutoring conversation for logged-in sessions.
type TutorService interface {
	// StartSession loads the user's stored history and registers a session
	StartSession(ctx context.Context, identity *models.Identity) (*models.Session, error)

	// Session returns a live session by ID
	Session(id string) (*models.Session, error)

	// EndSession discards a session. Stored history is kept.
	EndSession(id string) bool

	// History returns a copy of the session's live history
	History(sess *models.Session) models.ChatHistory

	// Submit answers one submission and records the turn
	Submit(ctx context.Context, sess *models.Session, req *SubmitRequest) (*SubmitResult, error)

	// Snapshots lists the raw stored snapshots of the session's user
	Snapshots(ctx context.Context, sess *models.Session) ([]models.ChatSnapshot, error)
}
