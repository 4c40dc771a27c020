package mailer

import (
	"path/filepath"
	"strings"

	"github.com/SeakMengs/MailBlast/pkg/broadcast"
)

// Client delivers rendered broadcast messages. It is the engine's
// MessageSender capability, so providers can be swapped without touching the
// orchestrator.
type Client = broadcast.MessageSender

// attachmentMimeTypes maps the attachment extensions we commonly see in
// Drive links to their MIME type. Anything else falls back to a generic
// binary type.
var attachmentMimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"txt":  "text/plain",
}

// AttachmentContentType returns the MIME type to tag an attachment with,
// looked up from its filename extension.
func AttachmentContentType(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if mimeType, ok := attachmentMimeTypes[ext]; ok {
		return mimeType
	}
	return "application/octet-stream"
}
