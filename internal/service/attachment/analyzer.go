// Package attachment classifies uploaded files and produces the answer
// recorded for them.
package attachment

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"studyultra/internal/domain"
	"studyultra/internal/domain/models"
	"studyultra/internal/domain/services"
)

type analyzer struct {
	registry *HandlerRegistry
	maxBytes int64
	logger   *zap.Logger
}

// NewAnalyzer returns the default analyzer: placeholder answers for images
// and videos, everything else unsupported.
func NewAnalyzer(maxBytes int64, logger *zap.Logger) services.AttachmentAnalyzer {
	registry := NewHandlerRegistry()
	registry.Register(NewImageHandler(services.ImagePlaceholderAnswer))
	registry.Register(NewVideoHandler(services.VideoPlaceholderAnswer))
	return NewAnalyzerWithRegistry(registry, maxBytes, logger)
}

// NewAnalyzerWithRegistry builds an analyzer over a custom registry.
func NewAnalyzerWithRegistry(registry *HandlerRegistry, maxBytes int64, logger *zap.Logger) services.AttachmentAnalyzer {
	return &analyzer{registry: registry, maxBytes: maxBytes, logger: logger}
}

// MediaType returns the attachment's media type. The declared content type
// wins unless it is missing or generic, then the content is sniffed.
func MediaType(att *models.Attachment) string {
	if declared := normalize(att.ContentType); declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return normalize(mimetype.Detect(att.Content).String())
}

func normalize(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func (a *analyzer) Classify(att *models.Attachment) models.AttachmentKind {
	if h := a.registry.Get(MediaType(att)); h != nil {
		return h.Kind()
	}
	return models.AttachmentUnsupported
}

func (a *analyzer) Analyze(att *models.Attachment) (models.AttachmentKind, string, error) {
	if att == nil {
		return "", "", domain.NewValidationError("no attachment")
	}
	if a.maxBytes > 0 && int64(att.Size()) > a.maxBytes {
		return "", "", domain.NewValidationError("attachment exceeds %d bytes", a.maxBytes)
	}

	mediaType := MediaType(att)
	h := a.registry.Get(mediaType)
	if h == nil {
		a.logger.Debug("unsupported attachment",
			zap.String("filename", att.Filename),
			zap.String("media_type", mediaType))
		return models.AttachmentUnsupported, services.UnsupportedAttachmentAnswer, nil
	}

	answer, err := h.Answer(att)
	if err != nil {
		return "", "", err
	}
	a.logger.Debug("attachment analyzed",
		zap.String("filename", att.Filename),
		zap.String("media_type", mediaType),
		zap.String("kind", string(h.Kind())),
		zap.Int("size", att.Size()))
	return h.Kind(), answer, nil
}
