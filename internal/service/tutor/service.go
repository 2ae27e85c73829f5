// Package tutor runs the question/answer loop of a logged-in session.
package tutor

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"studyultra/internal/config"
	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
	"studyultra/internal/domain/repositories"
	"studyultra/internal/domain/services"
	domainllm "studyultra/internal/domain/services/llm"
	"studyultra/internal/language"
	"studyultra/internal/service/session"
)

// PromptBuilder renders the prompt for one question.
type PromptBuilder interface {
	Build(question, studentName string, lang language.Tag) (string, error)
}

// Deps are the collaborators of the tutor service.
type Deps struct {
	Classifier language.Classifier
	Prompts    PromptBuilder
	Completion domainllm.CompletionClient
	Store      repositories.HistoryStore
	Analyzer   services.AttachmentAnalyzer
	Sessions   *session.Registry
	Reload     models.ReloadMode
	Logger     *zap.Logger
}

type tutorService struct {
	classifier language.Classifier
	prompts    PromptBuilder
	completion domainllm.CompletionClient
	store      repositories.HistoryStore
	analyzer   services.AttachmentAnalyzer
	sessions   *session.Registry
	reload     models.ReloadMode
	logger     *zap.Logger
}

// NewService creates the tutor service.
func NewService(deps Deps) services.TutorService {
	reload := deps.Reload
	if reload == "" {
		reload = models.ReloadLast
	}
	return &tutorService{
		classifier: deps.Classifier,
		prompts:    deps.Prompts,
		completion: deps.Completion,
		store:      deps.Store,
		analyzer:   deps.Analyzer,
		sessions:   deps.Sessions,
		reload:     reload,
		logger:     deps.Logger,
	}
}

// StartSession seeds the new session from the user's stored snapshots.
// A load failure fails the login: starting empty would make the next
// snapshot overwrite the user's visible history.
func (s *tutorService) StartSession(ctx context.Context, identity *models.Identity) (*models.Session, error) {
	if identity == nil || !identity.Complete() {
		return nil, domain.ErrInvalidToken
	}

	snapshots, err := s.store.LoadAll(ctx, identity.Subject)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Create(*identity, s.reload.Seed(snapshots))
	s.logger.Info("session started",
		zap.String("session_id", sess.ID),
		zap.String("user_id", identity.Subject),
		zap.Int("snapshots", len(snapshots)),
		zap.Int("turns", sess.Len()),
		zap.String("reload", string(s.reload)))
	return sess, nil
}

func (s *tutorService) Session(id string) (*models.Session, error) {
	return s.sessions.Get(id)
}

func (s *tutorService) EndSession(id string) bool {
	ok := s.sessions.Delete(id)
	if ok {
		s.logger.Info("session ended", zap.String("session_id", id))
	}
	return ok
}

func (s *tutorService) History(sess *models.Session) models.ChatHistory {
	if sess == nil {
		return models.ChatHistory{}
	}
	return sess.Turns()
}

// Submit answers a question or an attachment. An attachment takes
// precedence over the text. A blank submission returns a warning and
// changes nothing. A turn is recorded only when the answer is non-empty,
// and it stays in the session only if its snapshot was stored.
func (s *tutorService) Submit(ctx context.Context, sess *models.Session, req *services.SubmitRequest) (*services.SubmitResult, error) {
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}
	if req == nil {
		req = &services.SubmitRequest{}
	}
	if err := validation.Validate(req.Question, validation.RuneLength(0, config.MaxQuestionLength)); err != nil {
		return nil, domain.NewValidationError("question: %v", err)
	}

	unlock := sess.LockSubmissions()
	defer unlock()

	result := &services.SubmitResult{Language: s.classifier.Detect(req.Question)}

	var answer string
	switch {
	case req.Attachment != nil:
		kind, text, err := s.analyzer.Analyze(req.Attachment)
		if err != nil {
			return nil, err
		}
		result.AttachmentKind = kind
		result.AttachmentName = req.Attachment.Filename
		answer = text

	case strings.TrimSpace(req.Question) == "":
		result.Warning = services.EmptySubmissionWarning
		result.History = sess.Turns()
		return result, nil

	default:
		prompt, err := s.prompts.Build(req.Question, sess.Identity.Name, result.Language)
		if err != nil {
			return nil, err
		}
		completion, err := s.completion.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}
		answer = completion.Text
	}

	if answer == "" {
		s.logger.Warn("empty answer, turn not recorded",
			zap.String("session_id", sess.ID),
			zap.String("language", string(result.Language)))
		result.History = sess.Turns()
		return result, nil
	}

	turn := models.ChatTurn{Question: req.Question, Answer: answer}
	history := sess.Append(turn)

	snapshot, err := s.store.Append(ctx, sess.Identity.Subject, history)
	if err != nil {
		sess.Truncate(len(history) - 1)
		return nil, err
	}

	result.Turn = &turn
	result.SnapshotID = snapshot.ID
	result.History = history
	s.logger.Debug("turn recorded",
		zap.String("session_id", sess.ID),
		zap.String("snapshot_id", snapshot.ID),
		zap.String("language", string(result.Language)),
		zap.Int("turns", len(history)))
	return result, nil
}

func (s *tutorService) Snapshots(ctx context.Context, sess *models.Session) ([]models.ChatSnapshot, error) {
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.store.LoadAll(ctx, sess.Identity.Subject)
}
