package services

import "studyultra/internal/domain/models"

// Placeholder answers for uploads. Media analysis is not implemented yet.
const (
	ImagePlaceholderAnswer      = "Análise da imagem ainda não implementada, mas em breve!"
	VideoPlaceholderAnswer      = "Análise de vídeo ainda não implementada, mas em breve!"
	UnsupportedAttachmentAnswer = "Formato de arquivo não suportado."
)

// AttachmentAnalyzer answers an uploaded file in place of a completion.
type AttachmentAnalyzer interface {
	// Classify returns the media category of the attachment
	Classify(att *models.Attachment) models.AttachmentKind

	// Analyze returns the category and the answer recorded for the turn
	Analyze(att *models.Attachment) (models.AttachmentKind, string, error)
}
