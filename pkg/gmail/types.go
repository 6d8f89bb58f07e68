package gmail

// EmailSummary is a search hit with its common headers and snippet.
type EmailSummary struct {
	ID       string
	ThreadID string
	From     string
	To       string
	Subject  string
	Date     string
	Snippet  string
}

// SendRequest is the input for sending an email.
type SendRequest struct {
	To       string
	Subject  string
	Body     string
	ThreadID string // reply within an existing thread when set
}

// SendResult identifies the sent message.
type SendResult struct {
	MessageID string
	ThreadID  string
}
