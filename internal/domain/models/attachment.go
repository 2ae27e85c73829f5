package models

// AttachmentKind is the coarse media category of an uploaded file.
type AttachmentKind string

const (
	AttachmentImage       AttachmentKind = "image"
	AttachmentVideo       AttachmentKind = "video"
	AttachmentUnsupported AttachmentKind = "unsupported"
)

// Attachment is an uploaded file. Content is held in memory only and is
// never persisted.
type Attachment struct {
	Filename    string
	ContentType string // as declared by the client, may be empty
	Content     []byte
}

// Size returns the content length in bytes.
func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Content)
}
