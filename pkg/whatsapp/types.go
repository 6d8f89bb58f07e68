package whatsapp

// sendTextRequest is the payload for a plain text send.
type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             TextBody `json:"text"`
}

// TextBody is the text portion of an outbound message.
type TextBody struct {
	Body string `json:"body"`
}

// sendInteractiveRequest is the payload for an interactive list send.
type sendInteractiveRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Interactive      Interactive `json:"interactive"`
}

// Interactive is an interactive list message.
type Interactive struct {
	Type   string      `json:"type"`
	Header *ListHeader `json:"header,omitempty"`
	Body   TextBody    `json:"body"`
	Footer *TextBody   `json:"footer,omitempty"`
	Action ListAction  `json:"action"`
}

// ListHeader is the optional header of a list message.
type ListHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ListAction holds the list button and its sections.
type ListAction struct {
	Button   string        `json:"button"`
	Sections []ListSection `json:"sections"`
}

// ListSection groups rows under an optional title.
type ListSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []ListRow `json:"rows"`
}

// ListRow is one tappable row of a list section.
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ListMessage is the transport-facing shape of an interactive list send.
type ListMessage struct {
	To       string
	Body     string
	Button   string
	Sections []ListSection
	Header   string
	Footer   string
}

// apiError is the Graph API error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Webhook payload types (inbound).

// WebhookPayload is the top-level body of a webhook POST.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one webhook entry.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change is one change notification inside an entry.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the inbound messages of a change.
type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages"`
}

// Message is one inbound message.
type Message struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *TextBody    `json:"text,omitempty"`
	Interactive *ListReply `json:"interactive,omitempty"`
}

// ListReply is the user's selection from an interactive list.
type ListReply struct {
	Type      string `json:"type"`
	ListReply *Row   `json:"list_reply,omitempty"`
}

// Row identifies the selected list row.
type Row struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
