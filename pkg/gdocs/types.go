package gdocs

// DocInfo identifies a created document.
type DocInfo struct {
	ID    string
	Title string
	URL   string
}

// DocContent is a document's extracted plain text.
type DocContent struct {
	ID      string
	Title   string
	Content string
}

// SearchResult is one Drive search hit.
type SearchResult struct {
	ID    string
	Title string
	URL   string
}
