package gdocs

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Docs and Drive API services. Drive is used
// only for searching documents; all content operations go through Docs.
type Client struct {
	docs  *docs.Service
	drive *drive.Service
}

// NewClientFromTokenSource creates a Docs client from a per-user OAuth token source.
func NewClientFromTokenSource(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	docsSvc, err := docs.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{docs: docsSvc, drive: driveSvc}, nil
}

// NewClientFromHTTP creates a Docs client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	docsSvc, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{docs: docsSvc, drive: driveSvc}, nil
}

// DocURL returns the web URL of a document.
func DocURL(documentID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", documentID)
}

// Create creates a new document, optionally with initial content.
func (c *Client) Create(ctx context.Context, title, content string) (*DocInfo, error) {
	created, err := c.docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if content != "" {
		_, err = c.docs.Documents.BatchUpdate(created.DocumentId, &docs.BatchUpdateDocumentRequest{
			Requests: []*docs.Request{{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: 1},
					Text:     content,
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to insert initial content: %w", err)
		}
	}

	return &DocInfo{ID: created.DocumentId, Title: title, URL: DocURL(created.DocumentId)}, nil
}

// Read returns the document's title and plain text content.
func (c *Client) Read(ctx context.Context, documentID string) (*DocContent, error) {
	doc, err := c.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	title := doc.Title
	if title == "" {
		title = "Untitled"
	}

	return &DocContent{
		ID:      documentID,
		Title:   title,
		Content: strings.TrimSpace(extractText(doc)),
	}, nil
}

// Append adds content at the end of the document.
func (c *Client) Append(ctx context.Context, documentID, content string) error {
	doc, err := c.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	// The document body always ends with a newline the API will not let
	// us write past, so insert just before the final index.
	end := endIndex(doc)
	insertAt := end - 1
	if insertAt < 1 {
		insertAt = 1
	}

	_, err = c.docs.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: insertAt},
				Text:     content,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append to document: %w", err)
	}
	return nil
}

// Replace replaces the document's entire body with content.
func (c *Client) Replace(ctx context.Context, documentID, content string) error {
	doc, err := c.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var requests []*docs.Request
	if end := endIndex(doc); end > 2 {
		requests = append(requests, &docs.Request{
			DeleteContentRange: &docs.DeleteContentRangeRequest{
				Range: &docs.Range{StartIndex: 1, EndIndex: end - 1},
			},
		})
	}
	requests = append(requests, &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: 1},
			Text:     content,
		},
	})

	_, err = c.docs.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to replace document content: %w", err)
	}
	return nil
}

// Search finds documents by name or full text via Drive.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	escaped := strings.ReplaceAll(query, `'`, `\'`)
	q := fmt.Sprintf(
		"mimeType='application/vnd.google-apps.document' and trashed=false and (name contains '%s' or fullText contains '%s')",
		escaped, escaped,
	)

	resp, err := c.drive.Files.List().
		Q(q).
		PageSize(maxResults).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Files))
	for _, f := range resp.Files {
		results = append(results, SearchResult{ID: f.Id, Title: f.Name, URL: DocURL(f.Id)})
	}
	return results, nil
}

// extractText walks the document body collecting text run content.
func extractText(doc *docs.Document) string {
	if doc.Body == nil {
		return ""
	}
	var sb strings.Builder
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, pe := range element.Paragraph.Elements {
			if pe.TextRun != nil {
				sb.WriteString(pe.TextRun.Content)
			}
		}
	}
	return sb.String()
}

// endIndex returns the end index of the last structural element.
func endIndex(doc *docs.Document) int64 {
	if doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}
	return doc.Body.Content[len(doc.Body.Content)-1].EndIndex
}
