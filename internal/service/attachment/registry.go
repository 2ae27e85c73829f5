package attachment

import (
	"strings"
	"sync"

	"studyultra/internal/domain/models"
)

// MediaHandler answers attachments of one media category.
type MediaHandler interface {
	// CanHandle reports whether the handler accepts the detected media type
	CanHandle(mediaType string) bool

	// Kind is the category recorded for handled attachments
	Kind() models.AttachmentKind

	// Answer returns the text stored as the turn's answer
	Answer(att *models.Attachment) (string, error)
}

// HandlerRegistry routes media types to handlers, first match wins.
// Safe for concurrent use.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers []MediaHandler
}

// NewHandlerRegistry creates an empty registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make([]MediaHandler, 0)}
}

// Register appends a handler.
func (r *HandlerRegistry) Register(h MediaHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
}

// Get returns the first handler accepting mediaType, or nil.
func (r *HandlerRegistry) Get(mediaType string) MediaHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.handlers {
		if h.CanHandle(mediaType) {
			return h
		}
	}
	return nil
}

// placeholderHandler answers every attachment under a media type prefix
// with a fixed message.
type placeholderHandler struct {
	prefix string
	kind   models.AttachmentKind
	answer string
}

func (h *placeholderHandler) CanHandle(mediaType string) bool {
	return strings.HasPrefix(mediaType, h.prefix)
}

func (h *placeholderHandler) Kind() models.AttachmentKind { return h.kind }

func (h *placeholderHandler) Answer(*models.Attachment) (string, error) {
	return h.answer, nil
}

// NewImageHandler answers image/* uploads with the image placeholder.
func NewImageHandler(answer string) MediaHandler {
	return &placeholderHandler{prefix: "image/", kind: models.AttachmentImage, answer: answer}
}

// NewVideoHandler answers video/* uploads with the video placeholder.
func NewVideoHandler(answer string) MediaHandler {
	return &placeholderHandler{prefix: "video/", kind: models.AttachmentVideo, answer: answer}
}
