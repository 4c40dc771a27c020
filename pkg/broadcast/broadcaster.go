package broadcast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Mode selects what a run does after rendering.
type Mode int

const (
	// ModePreview renders content and resolves attachments but never
	// dispatches; every outcome stays Pending.
	ModePreview Mode = iota
	// ModeSend performs the full dispatch.
	ModeSend
)

// DefaultSendDelay is the pause between consecutive sends, chosen to stay
// under the relay's rate limit.
const DefaultSendDelay = 500 * time.Millisecond

var (
	ErrNoRecipients       = errors.New("broadcast: no recipients selected")
	ErrMissingCredentials = errors.New("broadcast: sender credentials are required to send")
)

// UnknownPlaceholdersError reports template placeholders that are not
// dataset columns. It aborts a run before any outcome is created.
type UnknownPlaceholdersError struct {
	Names []string
}

func (e *UnknownPlaceholdersError) Error() string {
	return fmt.Sprintf("broadcast: unknown placeholders: %s", strings.Join(e.Names, ", "))
}

// Broadcaster runs template-driven broadcast jobs against a dataset. It owns
// all per-run state; the sender and resolver it drives are stateless.
type Broadcaster struct {
	sender   MessageSender
	resolver LinkResolver
	limiter  *rate.Limiter
	logger   *zap.SugaredLogger
}

// NewBroadcaster wires a broadcaster with its delivery collaborators.
// sendDelay paces consecutive sends; zero or negative falls back to
// DefaultSendDelay. resolver may be nil when attachments are never used.
func NewBroadcaster(sender MessageSender, resolver LinkResolver, sendDelay time.Duration, logger *zap.SugaredLogger) *Broadcaster {
	if sendDelay <= 0 {
		sendDelay = DefaultSendDelay
	}

	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Broadcaster{
		sender:   sender,
		resolver: resolver,
		limiter:  rate.NewLimiter(rate.Every(sendDelay), 1),
		logger:   logger,
	}
}

// Run executes one broadcast job. Configuration errors (no recipients,
// missing credentials, unknown placeholders) abort before any outcome is
// created or any network call happens. Per-recipient errors mark only that
// recipient Failed and never stop the loop.
//
// Recipients are processed strictly sequentially. The context is checked
// between recipients; on cancellation the partial result is returned together
// with the context's error.
func (b *Broadcaster) Run(ctx context.Context, dataset *Dataset, job Job, mode Mode) (*RunResult, error) {
	if len(job.Recipients) == 0 {
		return nil, ErrNoRecipients
	}

	if mode == ModeSend && job.Sender.Empty() {
		return nil, ErrMissingCredentials
	}

	placeholders := placeholderSet(job.SubjectTemplate, job.BodyTemplate)
	if unknown := PlaceholdersNotInColumns(placeholders, dataset.Columns); len(unknown) > 0 {
		return nil, &UnknownPlaceholdersError{Names: unknown}
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	result := &RunResult{ID: runID, Outcomes: make([]*Outcome, 0, len(job.Recipients))}
	for _, email := range job.Recipients {
		result.Outcomes = append(result.Outcomes, &Outcome{Email: email, Status: StatusPending})
	}

	for i, outcome := range result.Outcomes {
		if err := ctx.Err(); err != nil {
			b.logger.Warnw("broadcast cancelled", "run_id", runID, "processed", i, "total", len(result.Outcomes))
			return result, err
		}

		b.processRecipient(ctx, dataset, job, mode, outcome)
	}

	summary := result.Summary()
	if mode == ModeSend {
		b.logger.Infow("broadcast finished",
			"run_id", runID, "success", summary.Success, "failed", summary.Failed, "total", summary.Total)
	}

	return result, nil
}

func (b *Broadcaster) processRecipient(ctx context.Context, dataset *Dataset, job Job, mode Mode, outcome *Outcome) {
	placeholders := placeholderSet(job.SubjectTemplate, job.BodyTemplate)

	row, found := dataset.FirstRowFor(job.EmailColumn, outcome.Email)
	if !found {
		outcome.Reason = fmt.Sprintf("no dataset row found for %s", outcome.Email)
		if mode == ModeSend {
			outcome.Status = StatusFailed
		}
		return
	}

	outcome.Preview.Subject = Render(job.SubjectTemplate, row, placeholders)
	outcome.Preview.Body = Render(job.BodyTemplate, row, placeholders)

	var attachment *Attachment
	if job.AttachmentColumn != "" {
		attachment = b.resolveAttachment(ctx, row[job.AttachmentColumn], outcome)
	}

	if mode != ModeSend {
		return
	}

	outcome.Status = StatusProcessing

	// Pacing happens before each send so failures are rate-limited too.
	if err := b.limiter.Wait(ctx); err != nil {
		outcome.Status = StatusFailed
		outcome.Reason = err.Error()
		return
	}

	err := b.sender.Send(ctx, OutboundMessage{
		From:       job.Sender.Email,
		Secret:     job.Sender.Secret,
		To:         outcome.Email,
		CC:         job.CC,
		Subject:    outcome.Preview.Subject,
		HTMLBody:   outcome.Preview.Body,
		Attachment: attachment,
	})
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Reason = err.Error()
		b.logger.Warnw("send failed", "to", outcome.Email, "error", err)
		return
	}

	outcome.Status = StatusSuccess
}

// resolveAttachment fetches the recipient's attachment and annotates the
// preview. A failure downgrades the attachment to absent; the message is
// still sent without it.
func (b *Broadcaster) resolveAttachment(ctx context.Context, link string, outcome *Outcome) *Attachment {
	if b.resolver == nil {
		outcome.Preview.AttachmentNote = "attachment skipped: no resolver configured"
		return nil
	}

	attachment, err := b.resolver.Resolve(ctx, link)
	if err != nil {
		outcome.Preview.AttachmentNote = fmt.Sprintf("attachment error: %s (link: %s)", err, link)
		b.logger.Warnw("attachment resolution failed", "to", outcome.Email, "link", link, "error", err)
		return nil
	}

	outcome.Preview.AttachmentNote = fmt.Sprintf("attachment: %s (link: %s)", attachment.Filename, link)
	return attachment
}

// placeholderSet unions the placeholders of both templates, preserving
// first-seen order across subject then body.
func placeholderSet(subjectTemplate, bodyTemplate string) []string {
	names := ExtractPlaceholders(subjectTemplate)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}

	for _, name := range ExtractPlaceholders(bodyTemplate) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}
