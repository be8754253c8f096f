package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/voice-agent-go/voice-agent-go/internal/config"
)

// ErrMissingDocsCredentials indicates the Google Docs OAuth configuration
// is incomplete.
var ErrMissingDocsCredentials = errors.New("google docs credentials not configured")

// DocsReader fetches document text from the Google Docs API.
type DocsReader struct {
	cfg *config.GoogleConfig
}

// NewDocsReader creates a reader using the OAuth refresh-token credentials
// from config.
func NewDocsReader(cfg *config.GoogleConfig) *DocsReader {
	return &DocsReader{cfg: cfg}
}

// Read fetches a document by ID and returns its text prefixed with the
// document title.
func (r *DocsReader) Read(ctx context.Context, documentID string) (string, error) {
	if r.cfg.ClientID == "" || r.cfg.ClientSecret == "" || r.cfg.RefreshToken == "" {
		return "", fmt.Errorf("%w: set GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, and GOOGLE_REFRESH_TOKEN", ErrMissingDocsCredentials)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     r.cfg.ClientID,
		ClientSecret: r.cfg.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: r.cfg.RefreshToken})

	svc, err := docs.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return "", fmt.Errorf("failed to create docs service: %w", err)
	}

	doc, err := svc.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch document %s: %w", documentID, err)
	}

	title := doc.Title
	if title == "" {
		title = "Untitled"
	}

	return fmt.Sprintf("Title: %s\n\n%s", title, ExtractDocText(doc)), nil
}

// ExtractDocText flattens a Google Docs document structure into plain text:
// paragraphs line by line, table rows with cells tab-joined.
func ExtractDocText(doc *docs.Document) string {
	if doc.Body == nil {
		return ""
	}

	var parts []string
	for _, element := range doc.Body.Content {
		switch {
		case element.Paragraph != nil:
			if text := paragraphText(element.Paragraph); text != "" {
				parts = append(parts, text)
			}
		case element.Table != nil:
			if text := tableText(element.Table); text != "" {
				parts = append(parts, text)
			}
		}
	}

	return strings.Join(parts, "\n")
}

func paragraphText(p *docs.Paragraph) string {
	var b strings.Builder
	for _, element := range p.Elements {
		if element.TextRun != nil {
			b.WriteString(element.TextRun.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

func tableText(t *docs.Table) string {
	var rows []string
	for _, row := range t.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var cellParts []string
			for _, element := range cell.Content {
				if element.Paragraph != nil {
					if text := paragraphText(element.Paragraph); text != "" {
						cellParts = append(cellParts, text)
					}
				}
			}
			cells = append(cells, strings.Join(cellParts, " "))
		}
		rows = append(rows, strings.Join(cells, "\t"))
	}
	return strings.Join(rows, "\n")
}
