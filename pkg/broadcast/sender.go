package broadcast

import "context"

// Attachment is a fetched file ready to embed in a message. Content is held
// fully in memory; no size cap is enforced, which is a known limitation for
// very large files.
type Attachment struct {
	Filename string
	Content  []byte
}

// OutboundMessage is one fully rendered message ready for delivery.
type OutboundMessage struct {
	From       string
	Secret     string
	To         string
	CC         []string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// MessageSender delivers one message. Implementations must return every
// delivery failure (auth, connection, relay rejection) as an error value and
// never panic; a nil error means the relay accepted the message.
type MessageSender interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// LinkResolver turns a remote share link into file bytes plus a filename.
// Failures (unsupported link shape, network error, non-success status) come
// back as error values for the caller to record; they are never fatal.
type LinkResolver interface {
	Resolve(ctx context.Context, link string) (*Attachment, error)
}
