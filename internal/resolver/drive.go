package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/SeakMengs/MailBlast/pkg/broadcast"
	"go.uber.org/zap"
)

// ErrUnsupportedLink means the link is not a Google Drive file-share URL.
// No network call is made for unsupported links.
var ErrUnsupportedLink = errors.New("unsupported Drive link format")

const (
	fileSegment    = "/file/d/"
	confirmPrefix  = "download_warning"
	defaultTimeout = 10 * time.Second
)

// DriveResolver fetches publicly shared Google Drive files through the
// direct-download endpoint. Large files answer the first GET with an
// interstitial warning cookie; the resolver reissues the GET once with the
// cookie's token appended. Each step is bounded by its own timeout and
// attempted exactly once.
type DriveResolver struct {
	stepTimeout time.Duration
	logger      *zap.SugaredLogger

	// baseURL points at Drive; tests swap in a local server.
	baseURL string
}

func NewDriveResolver(stepTimeout time.Duration, logger *zap.SugaredLogger) *DriveResolver {
	if stepTimeout <= 0 {
		stepTimeout = defaultTimeout
	}
	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &DriveResolver{
		stepTimeout: stepTimeout,
		logger:      logger,
		baseURL:     "https://drive.google.com",
	}
}

// FileID extracts the file identifier from a Drive share link: the segment
// between "/file/d/" and the next "/".
func FileID(link string) (string, bool) {
	if !strings.Contains(link, "drive.google.com") {
		return "", false
	}

	idx := strings.Index(link, fileSegment)
	if idx == -1 {
		return "", false
	}

	id := link[idx+len(fileSegment):]
	if slash := strings.IndexByte(id, '/'); slash >= 0 {
		id = id[:slash]
	}
	if id == "" {
		return "", false
	}

	return id, true
}

// Resolve downloads the linked file and returns its bytes and filename.
// Every failure is returned as an error value; the caller records it against
// the affected recipient and continues.
func (r *DriveResolver) Resolve(ctx context.Context, link string) (*broadcast.Attachment, error) {
	fileID, ok := FileID(link)
	if !ok {
		return nil, ErrUnsupportedLink
	}

	// Fresh cookie session per resolve; the confirm token is only valid
	// together with the cookies of the first response.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: r.stepTimeout}

	downloadURL := fmt.Sprintf("%s/uc?id=%s&export=download", r.baseURL, fileID)
	resp, err := r.get(ctx, client, downloadURL)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	if token := confirmToken(resp.Cookies()); token != "" {
		resp.Body.Close()
		resp, err = r.get(ctx, client, downloadURL+"&confirm="+url.QueryEscape(token))
		if err != nil {
			return nil, fmt.Errorf("download failed: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("download failed: unexpected status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	return &broadcast.Attachment{
		Filename: attachmentFilename(resp.Header.Get("Content-Disposition"), fileID),
		Content:  content,
	}, nil
}

func (r *DriveResolver) get(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

func confirmToken(cookies []*http.Cookie) string {
	for _, cookie := range cookies {
		if strings.HasPrefix(cookie.Name, confirmPrefix) {
			return cookie.Value
		}
	}
	return ""
}

// attachmentFilename prefers the filename advertised in Content-Disposition.
// Without one it falls back to the file id with a .pdf extension, which is
// wrong for non-PDF files but matches the most common share type.
func attachmentFilename(contentDisposition, fileID string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fileID + ".pdf"
}
