package spreadsheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SeakMengs/MailBlast/pkg/broadcast"
)

// ErrInvalidSheetURL means the URL matches neither of the recognized Google
// Sheets share shapes.
var ErrInvalidSheetURL = errors.New("invalid Google Sheets URL format")

// Loader turns shared spreadsheet URLs and uploaded CSV files into datasets.
type Loader struct {
	fetchTimeout time.Duration

	// exportBase is the spreadsheet export host; tests swap in a local
	// server.
	exportBase string
}

func NewLoader(fetchTimeout time.Duration) *Loader {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}

	return &Loader{
		fetchTimeout: fetchTimeout,
		exportBase:   "https://docs.google.com",
	}
}

// ExtractSheetID pulls the document identifier out of a shared Sheets URL.
// Two shapes are recognized: the path form "/d/<id>/..." and the legacy query
// form "key=<id>&...".
func ExtractSheetID(rawURL string) (string, error) {
	if idx := strings.Index(rawURL, "/d/"); idx != -1 {
		id := rawURL[idx+len("/d/"):]
		if slash := strings.IndexByte(id, '/'); slash >= 0 {
			id = id[:slash]
		}
		if id != "" {
			return id, nil
		}
		return "", ErrInvalidSheetURL
	}

	if idx := strings.Index(rawURL, "key="); idx != -1 {
		id := rawURL[idx+len("key="):]
		if amp := strings.IndexByte(id, '&'); amp >= 0 {
			id = id[:amp]
		}
		if id != "" {
			return id, nil
		}
	}

	return "", ErrInvalidSheetURL
}

// csvExportURL builds the document's CSV export endpoint.
func (l *Loader) csvExportURL(sheetID string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv", l.exportBase, sheetID)
}

// LoadFromURL fetches the sheet's CSV export and parses it into a dataset.
func (l *Loader) LoadFromURL(ctx context.Context, sheetURL string) (*broadcast.Dataset, error) {
	sheetID, err := ExtractSheetID(sheetURL)
	if err != nil {
		return nil, err
	}

	exportURL := l.csvExportURL(sheetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheet: %w", err)
	}

	client := &http.Client{Timeout: l.fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load sheet: unexpected status %d", resp.StatusCode)
	}

	return LoadFromReader(resp.Body)
}

// LoadFromReader parses CSV content, typically an uploaded file, into a
// dataset. The first record is the header row.
func LoadFromReader(r io.Reader) (*broadcast.Dataset, error) {
	reader := csv.NewReader(r)
	// Rows shorter or longer than the header are normalized by the dataset
	// builder instead of failing the whole file.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	dataset, err := broadcast.NewDatasetFromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}

	return dataset, nil
}
