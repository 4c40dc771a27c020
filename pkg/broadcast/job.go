package broadcast

import (
	"encoding/json"
	"strings"
)

type Status int

const (
	StatusPending Status = iota
	StatusProcessing
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Credentials identify the sending account on the SMTP relay. For Gmail the
// secret is an app password, not the account password.
type Credentials struct {
	Email  string
	Secret string
}

func (c Credentials) Empty() bool {
	return c.Email == "" || c.Secret == ""
}

// Job is the full configuration for one broadcast run.
type Job struct {
	SubjectTemplate string
	BodyTemplate    string

	// EmailColumn names the dataset column holding recipient addresses.
	EmailColumn string

	// AttachmentColumn names the dataset column holding share links to
	// fetch per-recipient attachments from. Empty disables attachments.
	AttachmentColumn string

	// Recipients is the subset of addresses to process, in order. Use
	// Dataset.Recipients to target everyone.
	Recipients []string

	// CC holds already split-and-trimmed carbon-copy addresses, applied to
	// every message in the run. Build it with SplitCC.
	CC []string

	Sender Credentials
}

// SplitCC normalizes a raw comma-separated CC string into a list of trimmed
// addresses, dropping empty entries. Normalization happens once here, at job
// construction, so delivery code never re-parses the raw string.
func SplitCC(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var cc []string
	for _, addr := range strings.Split(raw, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			cc = append(cc, addr)
		}
	}
	return cc
}

// Preview is the rendered content for one recipient, produced in both
// preview and send runs.
type Preview struct {
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentNote string `json:"attachment_note,omitempty"`
}

// Outcome tracks one recipient's progress through a run. Status transitions
// Pending -> Processing -> Success|Failed during dispatch; preview runs never
// leave Pending.
type Outcome struct {
	Email   string  `json:"email"`
	Status  Status  `json:"status"`
	Reason  string  `json:"reason,omitempty"`
	Preview Preview `json:"preview"`
}

// Summary counts terminal outcomes of a completed run.
type Summary struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

// RunResult holds every recipient outcome of one run. Outcomes are owned by
// the run and never shared across runs.
type RunResult struct {
	ID       string     `json:"id"`
	Outcomes []*Outcome `json:"outcomes"`
}

// Summary recomputes the run counts by scanning all outcomes.
func (r *RunResult) Summary() Summary {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusSuccess:
			s.Success++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
