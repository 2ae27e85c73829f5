package config

const (
	// MaxQuestionLength is the maximum question length in characters.
	// Prompts stay well inside the completion model's context window.
	MaxQuestionLength = 8000

	// MaxUploadBytes caps MAX_ATTACHMENT_BYTES. Attachments are held in
	// memory for the duration of a request.
	MaxUploadBytes = 100 << 20

	// MaxJSONBodyBytes limits JSON request bodies.
	MaxJSONBodyBytes = 1 << 20
)
