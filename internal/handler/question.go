package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"studyultra/internal/config"
	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
	"studyultra/internal/domain/services"
	"studyultra/internal/httputil"
)

// multipartMemory is the part of a multipart form kept in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// QuestionRequest is the JSON form of a submission.
type QuestionRequest struct {
	Question string `json:"question"`
}

// QuestionHandler accepts questions and uploads for the current session.
type QuestionHandler struct {
	tutor         services.TutorService
	maxAttachment int64
	logger        *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(tutor services.TutorService, maxAttachment int64, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		tutor:         tutor,
		maxAttachment: maxAttachment,
		logger:        logger,
	}
}

// Submit answers a question or an uploaded file.
// POST /api/sessions/current/questions
//
// Accepts application/json {"question": "..."} or multipart/form-data with
// a "question" field and an optional "file" part.
func (h *QuestionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := httputil.GetSession(r)
	if sess == nil {
		handleError(w, h.logger, domain.ErrSessionNotFound)
		return
	}

	req, err := h.parse(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	result, err := h.tutor.Submit(r.Context(), sess, req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

func (h *QuestionHandler) parse(w http.ResponseWriter, r *http.Request) (*services.SubmitRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var body QuestionRequest
		if err := httputil.ParseJSON(w, r, &body); err != nil {
			return nil, err
		}
		return &services.SubmitRequest{Question: body.Question}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxAttachment+config.MaxJSONBodyBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, domain.NewValidationError("invalid multipart form: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	req := &services.SubmitRequest{Question: r.FormValue("question")}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return nil, domain.NewValidationError("invalid file part: %v", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxAttachment+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > h.maxAttachment {
		return nil, domain.NewValidationError("attachment exceeds %d bytes", h.maxAttachment)
	}

	req.Attachment = &models.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	return req, nil
}
