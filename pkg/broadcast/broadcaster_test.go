package broadcast

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeSender struct {
	sent    []OutboundMessage
	failFor map[string]error
}

func (f *fakeSender) Send(_ context.Context, msg OutboundMessage) error {
	f.sent = append(f.sent, msg)
	if err, ok := f.failFor[msg.To]; ok {
		return err
	}
	return nil
}

type fakeResolver struct {
	calls   int
	failFor map[string]error
}

func (f *fakeResolver) Resolve(_ context.Context, link string) (*Attachment, error) {
	f.calls++
	if err, ok := f.failFor[link]; ok {
		return nil, err
	}
	return &Attachment{Filename: "report.pdf", Content: []byte("%PDF-")}, nil
}

func testDataset() *Dataset {
	return &Dataset{
		Columns: []string{"name", "email", "link"},
		Rows: []Row{
			{"name": "Ann", "email": "ann@x.com", "link": "https://drive.google.com/file/d/aaa/view"},
			{"name": "Bo", "email": "bo@x.com", "link": "https://drive.google.com/file/d/bbb/view"},
		},
	}
}

func testJob(dataset *Dataset) Job {
	return Job{
		SubjectTemplate: "Hi {name}",
		BodyTemplate:    "Hello {name}!",
		EmailColumn:     "email",
		Recipients:      dataset.Recipients("email"),
		Sender:          Credentials{Email: "sender@x.com", Secret: "app-password"},
	}
}

func newTestBroadcaster(sender MessageSender, resolver LinkResolver) *Broadcaster {
	return NewBroadcaster(sender, resolver, time.Millisecond, nil)
}

func TestRunSendSuccess(t *testing.T) {
	dataset := testDataset()
	sender := &fakeSender{}
	b := newTestBroadcaster(sender, nil)

	result, err := b.Run(context.Background(), dataset, testJob(dataset), ModeSend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := result.Summary()
	if summary.Success != 2 || summary.Failed != 0 || summary.Total != 2 {
		t.Errorf("expected summary {2 0 2}, got %+v", summary)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sender.sent))
	}
	if sender.sent[0].Subject != "Hi Ann" || sender.sent[1].Subject != "Hi Bo" {
		t.Errorf("unexpected rendered subjects: %q, %q", sender.sent[0].Subject, sender.sent[1].Subject)
	}
	if sender.sent[0].HTMLBody != "Hello Ann!" {
		t.Errorf("unexpected rendered body: %q", sender.sent[0].HTMLBody)
	}

	for _, outcome := range result.Outcomes {
		if outcome.Status != StatusSuccess {
			t.Errorf("expected success for %s, got %s", outcome.Email, outcome.Status)
		}
	}
}

func TestRunPreviewNeverSends(t *testing.T) {
	dataset := testDataset()
	sender := &fakeSender{}
	b := newTestBroadcaster(sender, nil)

	job := testJob(dataset)
	// Preview must not require credentials.
	job.Sender = Credentials{}

	result, err := b.Run(context.Background(), dataset, job, ModePreview)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 0 {
		t.Errorf("preview must not call the sender, got %d sends", len(sender.sent))
	}
	for _, outcome := range result.Outcomes {
		if outcome.Status != StatusPending {
			t.Errorf("expected pending for %s, got %s", outcome.Email, outcome.Status)
		}
	}
	if result.Outcomes[0].Preview.Subject != "Hi Ann" {
		t.Errorf("expected rendered preview subject, got %q", result.Outcomes[0].Preview.Subject)
	}
}

func TestRunUnknownPlaceholderAborts(t *testing.T) {
	dataset := testDataset()
	sender := &fakeSender{}
	b := newTestBroadcaster(sender, nil)

	job := testJob(dataset)
	job.BodyTemplate = "Hello {missing}!"

	result, err := b.Run(context.Background(), dataset, job, ModeSend)
	if result != nil {
		t.Error("expected no outcomes to be created")
	}

	var upErr *UnknownPlaceholdersError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UnknownPlaceholdersError, got %v", err)
	}
	if len(upErr.Names) != 1 || upErr.Names[0] != "missing" {
		t.Errorf("expected [missing], got %v", upErr.Names)
	}
	if len(sender.sent) != 0 {
		t.Error("aborted run must not send")
	}
}

func TestRunNoRecipientsAborts(t *testing.T) {
	dataset := testDataset()
	b := newTestBroadcaster(&fakeSender{}, nil)

	job := testJob(dataset)
	job.Recipients = nil

	if _, err := b.Run(context.Background(), dataset, job, ModeSend); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("expected ErrNoRecipients, got %v", err)
	}
}

func TestRunMissingCredentialsAborts(t *testing.T) {
	dataset := testDataset()
	b := newTestBroadcaster(&fakeSender{}, nil)

	job := testJob(dataset)
	job.Sender = Credentials{Email: "sender@x.com"}

	if _, err := b.Run(context.Background(), dataset, job, ModeSend); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestRunSendFailureIsolated(t *testing.T) {
	dataset := testDataset()
	sender := &fakeSender{failFor: map[string]error{"ann@x.com": errors.New("relay rejected")}}
	b := newTestBroadcaster(sender, nil)

	result, err := b.Run(context.Background(), dataset, testJob(dataset), ModeSend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := result.Summary()
	if summary.Success != 1 || summary.Failed != 1 || summary.Total != 2 {
		t.Errorf("expected summary {1 1 2}, got %+v", summary)
	}
	if result.Outcomes[0].Status != StatusFailed || result.Outcomes[0].Reason != "relay rejected" {
		t.Errorf("expected failed outcome with relay reason, got %+v", result.Outcomes[0])
	}
	if result.Outcomes[1].Status != StatusSuccess {
		t.Errorf("a failure must not stop the loop, got %s", result.Outcomes[1].Status)
	}
}

func TestRunResolveFailureDoesNotBlockSend(t *testing.T) {
	dataset := testDataset()
	sender := &fakeSender{}
	resolver := &fakeResolver{failFor: map[string]error{
		"https://drive.google.com/file/d/aaa/view": errors.New("download failed"),
	}}
	b := newTestBroadcaster(sender, resolver)

	job := testJob(dataset)
	job.AttachmentColumn = "link"

	result, err := b.Run(context.Background(), dataset, job, ModeSend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both recipients still get their message; the failing one without the
	// attachment.
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sender.sent))
	}
	if sender.sent[0].Attachment != nil {
		t.Error("failed resolution must downgrade the attachment to absent")
	}
	if sender.sent[1].Attachment == nil {
		t.Error("other recipient's attachment must be unaffected")
	}

	if result.Outcomes[0].Status != StatusSuccess {
		t.Errorf("resolve failure must not fail the send, got %s", result.Outcomes[0].Status)
	}
	if !strings.Contains(result.Outcomes[0].Preview.AttachmentNote, "download failed") {
		t.Errorf("expected failure annotation, got %q", result.Outcomes[0].Preview.AttachmentNote)
	}
	if !strings.Contains(result.Outcomes[1].Preview.AttachmentNote, "report.pdf") {
		t.Errorf("expected filename annotation, got %q", result.Outcomes[1].Preview.AttachmentNote)
	}
}

func TestRunPreviewResolvesAttachments(t *testing.T) {
	dataset := testDataset()
	sender := &fakeSender{}
	resolver := &fakeResolver{}
	b := newTestBroadcaster(sender, resolver)

	job := testJob(dataset)
	job.AttachmentColumn = "link"

	if _, err := b.Run(context.Background(), dataset, job, ModePreview); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resolver.calls != 2 {
		t.Errorf("preview must resolve attachments for the annotation, got %d calls", resolver.calls)
	}
	if len(sender.sent) != 0 {
		t.Error("preview must not send")
	}
}

func TestRunCancelledBetweenRecipients(t *testing.T) {
	dataset := testDataset()
	sender := &fakeSender{}
	b := newTestBroadcaster(sender, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := b.Run(ctx, dataset, testJob(dataset), ModeSend)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil {
		t.Fatal("expected the partial result")
	}
	if len(sender.sent) != 0 {
		t.Errorf("expected no sends after cancellation, got %d", len(sender.sent))
	}
	for _, outcome := range result.Outcomes {
		if outcome.Status != StatusPending {
			t.Errorf("expected pending for %s, got %s", outcome.Email, outcome.Status)
		}
	}
}

func TestSplitCC(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "Empty", raw: "", expected: nil},
		{name: "Whitespace only", raw: "  ", expected: nil},
		{name: "Single", raw: "a@x.com", expected: []string{"a@x.com"}},
		{name: "Trimmed", raw: " a@x.com , b@x.com ", expected: []string{"a@x.com", "b@x.com"}},
		{name: "Empty entries dropped", raw: "a@x.com,,b@x.com,", expected: []string{"a@x.com", "b@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitCC(tt.raw)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, result)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("expected %v, got %v", tt.expected, result)
				}
			}
		})
	}
}
