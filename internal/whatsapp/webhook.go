package whatsapp

import "errors"

// Sentinel texts returned when an inbound message shape is not understood.
// They flow through the classifier like any other text and land in the
// fallback rule.
const (
	TextUnrecognized = "mensaje no reconocido"
	TextUnprocessed  = "mensaje no procesado"
)

// ErrMalformedEvent indicates the webhook body is missing the expected
// entry/changes/messages structure. The whole turn aborts on it.
var ErrMalformedEvent = errors.New("whatsapp: malformed webhook event")

// WebhookPayload mirrors the Cloud API webhook body.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
	Contacts         []Contact        `json:"contacts"`
}

// InboundMessage is one user message inside a webhook delivery.
type InboundMessage struct {
	From        string           `json:"from"`
	ID          string           `json:"id"`
	Timestamp   string           `json:"timestamp"`
	Type        string           `json:"type"`
	Text        *InboundText     `json:"text,omitempty"`
	Button      *InboundButton   `json:"button,omitempty"`
	Interactive *InteractiveBody `json:"interactive,omitempty"`
}

type InboundText struct {
	Body string `json:"body"`
}

type InboundButton struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

type InteractiveBody struct {
	Type        string        `json:"type"`
	ListReply   *InboundReply `json:"list_reply,omitempty"`
	ButtonReply *InboundReply `json:"button_reply,omitempty"`
}

type InboundReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Contact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// Event is the flattened inbound event the conversation handler consumes.
type Event struct {
	From        string
	MessageID   string
	ProfileName string
	Text        string
}

// ExtractText produces the plain text the user effectively said, regardless
// of whether the message was typed, a button press or a list selection.
func ExtractText(msg InboundMessage) string {
	switch {
	case msg.Type == "":
		return TextUnrecognized
	case msg.Type == "text" && msg.Text != nil:
		return msg.Text.Body
	case msg.Type == "button" && msg.Button != nil:
		return msg.Button.Text
	case msg.Type == "interactive" && msg.Interactive != nil && msg.Interactive.Type == "list_reply" && msg.Interactive.ListReply != nil:
		return msg.Interactive.ListReply.Title
	case msg.Type == "interactive" && msg.Interactive != nil && msg.Interactive.Type == "button_reply" && msg.Interactive.ButtonReply != nil:
		return msg.Interactive.ButtonReply.Title
	}
	return TextUnprocessed
}

// ParseEvent digs the first message out of a webhook payload, normalizing
// the sender id. Returns ErrMalformedEvent when the structure is incomplete.
func ParseEvent(payload WebhookPayload) (*Event, error) {
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil, ErrMalformedEvent
	}
	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil, ErrMalformedEvent
	}
	msg := value.Messages[0]
	if msg.From == "" || msg.ID == "" {
		return nil, ErrMalformedEvent
	}
	evt := &Event{
		From:      NormalizeWaID(msg.From),
		MessageID: msg.ID,
		Text:      ExtractText(msg),
	}
	if len(value.Contacts) > 0 {
		evt.ProfileName = value.Contacts[0].Profile.Name
	}
	return evt, nil
}
