package mailer

import "testing"

func TestHTMLToPlainText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "Plain text unchanged",
			html:     "Hello world",
			expected: "Hello world",
		},
		{
			name:     "Line breaks",
			html:     "line one<br>line two<br/>line three<br />end",
			expected: "line one\nline two\nline three\nend",
		},
		{
			name:     "Anchor becomes text: href",
			html:     `Click <a href="https://example.com">here</a> now`,
			expected: "Click here: https://example.com now",
		},
		{
			name:     "Bold and italic stripped",
			html:     "<b>bold</b> and <i>italic</i>",
			expected: "bold and italic",
		},
		{
			name:     "Combined markup",
			html:     `Hi <b>Ann</b>,<br>see <a href="https://x.com/r">the report</a>`,
			expected: "Hi Ann,\nsee the report: https://x.com/r",
		},
		{
			name:     "Empty input",
			html:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HTMLToPlainText(tt.html)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestAttachmentContentType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"report.pdf", "application/pdf"},
		{"report.PDF", "application/pdf"},
		{"letter.doc", "application/msword"},
		{"letter.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"photo.jpg", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"logo.png", "image/png"},
		{"notes.txt", "text/plain"},
		{"archive.zip", "application/octet-stream"},
		{"no-extension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := AttachmentContentType(tt.filename)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}
