package gdocs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gdocs"
)

type rewriteTransport struct {
	Transport http.RoundTripper
	Host      string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.Host
	return t.Transport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.Handler) (*gdocs.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	httpClient := &http.Client{Transport: &rewriteTransport{
		Transport: http.DefaultTransport,
		Host:      strings.TrimPrefix(server.URL, "http://"),
	}}

	client, err := gdocs.NewClientFromHTTP(context.Background(), httpClient)
	if err != nil {
		server.Close()
		t.Fatalf("failed to create client: %v", err)
	}
	return client, server
}

const docJSON = `{
	"documentId": "doc1",
	"title": "Notes",
	"body": {"content": [
		{"endIndex": 1},
		{"endIndex": 14, "paragraph": {"elements": [{"textRun": {"content": "hello world\n"}}]}}
	]}
}`

func TestCreate(t *testing.T) {
	var batchUpdates int
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
			batchUpdates++
			w.Write([]byte(`{}`))
		case r.Method == http.MethodPost:
			w.Write([]byte(`{"documentId":"doc1","title":"Notes"}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	info, err := client.Create(context.Background(), "Notes", "initial text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ID != "doc1" {
		t.Errorf("unexpected id: %q", info.ID)
	}
	if !strings.Contains(info.URL, "doc1") {
		t.Errorf("url should embed document id: %q", info.URL)
	}
	if batchUpdates != 1 {
		t.Errorf("expected one batchUpdate for initial content, got %d", batchUpdates)
	}
}

func TestRead(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(docJSON))
	}))
	defer server.Close()

	content, err := client.Read(context.Background(), "doc1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Title != "Notes" {
		t.Errorf("unexpected title: %q", content.Title)
	}
	if content.Content != "hello world" {
		t.Errorf("unexpected content: %q", content.Content)
	}
}

func TestAppendInsertsBeforeFinalNewline(t *testing.T) {
	var update struct {
		Requests []struct {
			InsertText *struct {
				Location struct {
					Index int64 `json:"index"`
				} `json:"location"`
				Text string `json:"text"`
			} `json:"insertText"`
		} `json:"requests"`
	}

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ":batchUpdate") {
			json.NewDecoder(r.Body).Decode(&update)
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(docJSON))
	}))
	defer server.Close()

	if err := client.Append(context.Background(), "doc1", "\nmore"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(update.Requests) != 1 || update.Requests[0].InsertText == nil {
		t.Fatalf("expected one insertText request: %+v", update.Requests)
	}
	if got := update.Requests[0].InsertText.Location.Index; got != 13 {
		t.Errorf("expected insert at endIndex-1 (13), got %d", got)
	}
}

func TestSearch(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if !strings.Contains(q, "vnd.google-apps.document") || !strings.Contains(q, "meeting") {
			t.Errorf("unexpected drive query: %q", q)
		}
		w.Write([]byte(`{"files":[{"id":"doc1","name":"Meeting notes"}]}`))
	}))
	defer server.Close()

	results, err := client.Search(context.Background(), "meeting", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Meeting notes" {
		t.Errorf("unexpected results: %+v", results)
	}
}
