package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/edgar"
	"github.com/ternarybob/lucrum/internal/interfaces"
)

const (
	// MaxUploadSize caps uploaded report files.
	MaxUploadSize = 10 * 1024 * 1024

	fetchTimeout = 30 * time.Second
)

// allowedExtensions are the upload formats we can extract text from.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// Resolver turns a source reference (raw text, URL, Google Doc, ticker) or
// an uploaded file into plain text ready for analysis. Failures surface as
// SourceUnavailableError and are never retried automatically.
type Resolver struct {
	edgar      *edgar.Client
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewResolver creates a source resolver. The EDGAR client handles ticker
// sources; everything else goes through the shared HTTP client.
func NewResolver(edgarClient *edgar.Client, logger arbor.ILogger) *Resolver {
	return &Resolver{
		edgar: edgarClient,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		logger: logger,
	}
}

var _ interfaces.SourceResolver = (*Resolver)(nil)

// Resolve returns the report text for a source reference.
func (r *Resolver) Resolve(ctx context.Context, source, sourceType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(sourceType)) {
	case "", "text":
		return source, nil
	case "url":
		return r.fetchURL(ctx, source)
	case "gdocs":
		return r.fetchGoogleDoc(ctx, source)
	case "ticker":
		return r.fetchLatestFiling(ctx, source)
	default:
		return "", &common.SourceUnavailableError{
			Source: sourceType,
			Err:    fmt.Errorf("unknown source type"),
		}
	}
}

// ResolveUpload extracts text from an uploaded file. The extension decides
// the extractor; size and type are validated before any parsing.
func (r *Resolver) ResolveUpload(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", &common.SourceUnavailableError{
			Source: filename,
			Err:    fmt.Errorf("unsupported file type %q, allowed: PDF, DOCX, TXT", ext),
		}
	}
	if len(data) > MaxUploadSize {
		return "", &common.SourceUnavailableError{
			Source: filename,
			Err:    fmt.Errorf("file too large (%.1f MB), maximum is 10 MB", float64(len(data))/1024/1024),
		}
	}

	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDOCXText(data)
	default:
		text = decodeText(data)
	}
	if err != nil {
		return "", &common.SourceUnavailableError{Source: filename, Err: err}
	}

	r.logger.Debug().
		Str("filename", filename).
		Int("bytes", len(data)).
		Int("text_length", len(text)).
		Msg("Extracted upload")

	return text, nil
}

// fetchURL downloads a page or document and projects it to plain text.
func (r *Resolver) fetchURL(ctx context.Context, rawURL string) (string, error) {
	body, contentType, err := r.download(ctx, rawURL)
	if err != nil {
		return "", &common.SourceUnavailableError{Source: rawURL, Err: err}
	}

	text, err := projectToText(body, contentType, rawURL)
	if err != nil {
		return "", &common.SourceUnavailableError{Source: rawURL, Err: err}
	}
	return text, nil
}

// fetchLatestFiling resolves a ticker to its most recent 8-K and fetches
// the primary document.
func (r *Resolver) fetchLatestFiling(ctx context.Context, ticker string) (string, error) {
	company, filing, err := r.edgar.LatestEarningsFiling(ctx, ticker)
	if err != nil {
		return "", &common.SourceUnavailableError{Source: ticker, Err: err}
	}

	r.logger.Info().
		Str("ticker", ticker).
		Str("company", company.Name).
		Str("form", filing.Form).
		Str("filed", filing.FilingDate).
		Msg("Fetching SEC filing")

	body, contentType, err := r.edgar.FetchDocument(ctx, filing.DocumentURL)
	if err != nil {
		return "", &common.SourceUnavailableError{Source: ticker, Err: err}
	}

	text, err := projectToText(body, contentType, filing.DocumentURL)
	if err != nil {
		return "", &common.SourceUnavailableError{Source: ticker, Err: err}
	}
	return text, nil
}

// projectToText converts a downloaded document to plain text based on its
// content type, defaulting to HTML extraction.
func projectToText(body []byte, contentType, sourceURL string) (string, error) {
	if strings.Contains(contentType, "application/pdf") {
		return extractPDFText(body)
	}
	if strings.Contains(contentType, "text/plain") {
		return decodeText(body), nil
	}
	return htmlToMarkdown(body, sourceURL)
}

func (r *Resolver) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; lucrum/1.0)")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch failed with HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(body) > MaxUploadSize {
		return nil, "", fmt.Errorf("document too large, maximum is 10 MB")
	}
	return body, resp.Header.Get("Content-Type"), nil
}
