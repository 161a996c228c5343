package whatsapp

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractText(t *testing.T) {
	cases := []struct {
		name string
		msg  InboundMessage
		want string
	}{
		{
			name: "text",
			msg:  InboundMessage{Type: "text", Text: &InboundText{Body: "hola"}},
			want: "hola",
		},
		{
			name: "button",
			msg:  InboundMessage{Type: "button", Button: &InboundButton{Text: "Agendar cita"}},
			want: "Agendar cita",
		},
		{
			name: "list reply",
			msg: InboundMessage{Type: "interactive", Interactive: &InteractiveBody{
				Type: "list_reply", ListReply: &InboundReply{Title: "TAOS 2025"},
			}},
			want: "TAOS 2025",
		},
		{
			name: "button reply",
			msg: InboundMessage{Type: "interactive", Interactive: &InteractiveBody{
				Type: "button_reply", ButtonReply: &InboundReply{Title: "SUV"},
			}},
			want: "SUV",
		},
		{
			name: "no type",
			msg:  InboundMessage{},
			want: TextUnrecognized,
		},
		{
			name: "unsupported type",
			msg:  InboundMessage{Type: "image"},
			want: TextUnprocessed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractText(tc.msg); got != tc.want {
				t.Errorf("ExtractText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseEvent(t *testing.T) {
	raw := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"contacts": [{"wa_id": "5213312345678", "profile": {"name": "Ana"}}],
					"messages": [{
						"from": "5213312345678",
						"id": "wamid.abc",
						"type": "text",
						"text": {"body": "hola"}
					}]
				}
			}]
		}]
	}`
	var payload WebhookPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatal(err)
	}

	evt, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if evt.From != "523312345678" {
		t.Errorf("sender should be normalized, got %q", evt.From)
	}
	if evt.MessageID != "wamid.abc" || evt.Text != "hola" || evt.ProfileName != "Ana" {
		t.Errorf("unexpected event: %+v", evt)
	}
}

func TestParseEventMalformed(t *testing.T) {
	cases := []WebhookPayload{
		{},
		{Entry: []Entry{{}}},
		{Entry: []Entry{{Changes: []Change{{}}}}},
	}
	for i, payload := range cases {
		if _, err := ParseEvent(payload); !errors.Is(err, ErrMalformedEvent) {
			t.Errorf("case %d: expected ErrMalformedEvent, got %v", i, err)
		}
	}
}
