package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/lucrum/internal/common"
)

var googleDocIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

// fetchGoogleDoc fetches plain text from a public Google Docs URL through
// the txt export endpoint. The document must be shared with "Anyone with
// the link".
func (r *Resolver) fetchGoogleDoc(ctx context.Context, rawURL string) (string, error) {
	match := googleDocIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", &common.SourceUnavailableError{
			Source: rawURL,
			Err:    fmt.Errorf("invalid Google Docs URL, expected https://docs.google.com/document/d/..."),
		}
	}

	exportURL := fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=txt", match[1])

	body, _, err := r.download(ctx, exportURL)
	if err != nil {
		return "", &common.SourceUnavailableError{
			Source: rawURL,
			Err:    fmt.Errorf("failed to fetch document, ensure it is publicly shared: %w", err),
		}
	}

	text := strings.TrimSpace(decodeText(body))
	if text == "" {
		return "", &common.SourceUnavailableError{
			Source: rawURL,
			Err:    fmt.Errorf("the Google Doc appears to be empty"),
		}
	}
	return text, nil
}
