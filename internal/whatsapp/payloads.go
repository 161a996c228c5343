package whatsapp

import (
	"encoding/json"
	"fmt"
)

// Message kinds, used for logging and transcripts.
const (
	KindText     = "text"
	KindButton   = "button"
	KindList     = "list"
	KindDocument = "document"
	KindSticker  = "sticker"
	KindReaction = "reaction"
	KindReply    = "reply"
	KindRead     = "read"
)

// Limits imposed by the Cloud API on interactive messages.
const (
	maxButtons  = 3
	maxListRows = 10
)

// Message is one outbound Cloud API request: the recipient, the kind (for
// observability) and the ready-to-POST JSON body.
type Message struct {
	Kind string
	To   string
	Body []byte
}

type envelope struct {
	MessagingProduct string           `json:"messaging_product"`
	RecipientType    string           `json:"recipient_type,omitempty"`
	To               string           `json:"to,omitempty"`
	Type             string           `json:"type,omitempty"`
	Status           string           `json:"status,omitempty"`
	MessageID        string           `json:"message_id,omitempty"`
	Context          *contextBody     `json:"context,omitempty"`
	Text             *textBody        `json:"text,omitempty"`
	Interactive      *interactiveBody `json:"interactive,omitempty"`
	Document         *documentBody    `json:"document,omitempty"`
	Sticker          *stickerBody     `json:"sticker,omitempty"`
	Reaction         *reactionBody    `json:"reaction,omitempty"`
}

type contextBody struct {
	MessageID string `json:"message_id"`
}

type textBody struct {
	Body string `json:"body"`
}

type interactiveBody struct {
	Type   string         `json:"type"`
	Body   textReplyBody  `json:"body"`
	Footer *textReplyBody `json:"footer,omitempty"`
	Action actionBody     `json:"action"`
}

type textReplyBody struct {
	Text string `json:"text"`
}

type actionBody struct {
	Buttons  []buttonEntry `json:"buttons,omitempty"`
	Button   string        `json:"button,omitempty"`
	Sections []section     `json:"sections,omitempty"`
}

type buttonEntry struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type section struct {
	Title string `json:"title"`
	Rows  []row  `json:"rows"`
}

type row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type documentBody struct {
	Link     string `json:"link"`
	Caption  string `json:"caption"`
	Filename string `json:"filename"`
}

type stickerBody struct {
	ID string `json:"id"`
}

type reactionBody struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

func build(kind, to string, env envelope) Message {
	env.MessagingProduct = "whatsapp"
	data, _ := json.Marshal(env)
	return Message{Kind: kind, To: to, Body: data}
}

// Text builds a plain text message.
func Text(to, body string) Message {
	return build(KindText, to, envelope{
		RecipientType: "individual",
		To:            to,
		Type:          "text",
		Text:          &textBody{Body: body},
	})
}

// ReplyText builds a text message quoting the inbound message.
func ReplyText(to, messageID, body string) Message {
	return build(KindReply, to, envelope{
		RecipientType: "individual",
		To:            to,
		Context:       &contextBody{MessageID: messageID},
		Type:          "text",
		Text:          &textBody{Body: body},
	})
}

// ButtonReply builds an interactive button message (at most 3 options).
func ButtonReply(to string, options []string, body, footer, idPrefix string) Message {
	if len(options) > maxButtons {
		options = options[:maxButtons]
	}
	buttons := make([]buttonEntry, 0, len(options))
	for i, option := range options {
		buttons = append(buttons, buttonEntry{
			Type:  "reply",
			Reply: buttonReply{ID: fmt.Sprintf("%s_btn_%d", idPrefix, i+1), Title: option},
		})
	}
	return build(KindButton, to, envelope{
		RecipientType: "individual",
		To:            to,
		Type:          "interactive",
		Interactive: &interactiveBody{
			Type:   "button",
			Body:   textReplyBody{Text: body},
			Footer: &textReplyBody{Text: footer},
			Action: actionBody{Buttons: buttons},
		},
	})
}

// ListReply builds an interactive list message (at most 10 rows).
func ListReply(to string, options []string, body, footer, idPrefix string) Message {
	if len(options) > maxListRows {
		options = options[:maxListRows]
	}
	rows := make([]row, 0, len(options))
	for i, option := range options {
		rows = append(rows, row{ID: fmt.Sprintf("%s_row_%d", idPrefix, i+1), Title: option})
	}
	return build(KindList, to, envelope{
		RecipientType: "individual",
		To:            to,
		Type:          "interactive",
		Interactive: &interactiveBody{
			Type:   "list",
			Body:   textReplyBody{Text: body},
			Footer: &textReplyBody{Text: footer},
			Action: actionBody{
				Button:   "Ver Opciones",
				Sections: []section{{Title: "Secciones", Rows: rows}},
			},
		},
	})
}

// Document builds a document message pointing at a hosted file.
func Document(to, url, caption, filename string) Message {
	return build(KindDocument, to, envelope{
		RecipientType: "individual",
		To:            to,
		Type:          "document",
		Document:      &documentBody{Link: url, Caption: caption, Filename: filename},
	})
}

// Sticker builds a sticker message from an uploaded media id.
func Sticker(to, mediaID string) Message {
	return build(KindSticker, to, envelope{
		RecipientType: "individual",
		To:            to,
		Type:          "sticker",
		Sticker:       &stickerBody{ID: mediaID},
	})
}

// Reaction builds an emoji reaction to an inbound message.
func Reaction(to, messageID, emoji string) Message {
	return build(KindReaction, to, envelope{
		RecipientType: "individual",
		To:            to,
		Type:          "reaction",
		Reaction:      &reactionBody{MessageID: messageID, Emoji: emoji},
	})
}

// MarkRead builds the read receipt for an inbound message.
func MarkRead(messageID string) Message {
	return build(KindRead, "", envelope{
		Status:    "read",
		MessageID: messageID,
	})
}
