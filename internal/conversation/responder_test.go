package conversation

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rrcordoba/volky/internal/leads"
	"github.com/rrcordoba/volky/internal/whatsapp"
)

var testNow = time.Date(2025, time.September, 5, 12, 0, 0, 0, time.UTC)

func decodeBody(t *testing.T, msg whatsapp.Message) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(msg.Body, &body); err != nil {
		t.Fatalf("decode %s body: %v", msg.Kind, err)
	}
	return body
}

func TestRespondGreeting(t *testing.T) {
	tr := &turn{Text: "hola", Number: "5210000", MessageID: "wamid.1"}
	lead := &leads.Lead{Name: "juan pérez"}

	msgs := respond(IntentGreeting, tr, lead, testNow)
	if len(msgs) != 2 {
		t.Fatalf("expected reaction + menu, got %d messages", len(msgs))
	}
	if msgs[0].Kind != whatsapp.KindReaction {
		t.Errorf("first message kind = %q", msgs[0].Kind)
	}
	body := decodeBody(t, msgs[1])
	text := body["interactive"].(map[string]any)["body"].(map[string]any)["text"].(string)
	if !strings.Contains(text, "juan pérez") {
		t.Errorf("greeting should address the lead by name, got %q", text)
	}
	if !strings.Contains(text, "Volky") {
		t.Errorf("greeting should introduce the assistant, got %q", text)
	}
}

func TestRespondCategoryListsAllSUVs(t *testing.T) {
	tr := &turn{Text: "suv", Number: "5210000", MessageID: "wamid.1"}
	msgs := respond(IntentCategory, tr, &leads.Lead{}, testNow)
	if len(msgs) != 1 || msgs[0].Kind != whatsapp.KindList {
		t.Fatalf("expected one list message, got %+v", msgs)
	}
	body := decodeBody(t, msgs[0])
	sections := body["interactive"].(map[string]any)["action"].(map[string]any)["sections"].([]any)
	rows := sections[0].(map[string]any)["rows"].([]any)
	want := []string{"TAIGUN 2025", "TAOS 2025", "TIGUAN 2025", "TERAMONT 2025", "CROSS SPORT 2025"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, r := range rows {
		if title := r.(map[string]any)["title"].(string); title != want[i] {
			t.Errorf("row %d: got %q, want %q", i, title, want[i])
		}
	}
}

func TestRespondScheduleOffersDatedOptions(t *testing.T) {
	tr := &turn{Text: "agendar cita", Number: "5210000", MessageID: "wamid.1"}
	msgs := respond(IntentSchedule, tr, &leads.Lead{}, testNow)
	body := decodeBody(t, msgs[0])
	sections := body["interactive"].(map[string]any)["action"].(map[string]any)["sections"].([]any)
	rows := sections[0].(map[string]any)["rows"].([]any)
	if len(rows) != 5 {
		t.Fatalf("expected 5 date rows, got %d", len(rows))
	}
	first := rows[0].(map[string]any)["title"].(string)
	if first != "📅 6 de septiembre (sábado)" {
		t.Errorf("first date = %q", first)
	}
}

func TestRespondSpecSheetPrefixesTargetModel(t *testing.T) {
	tr := &turn{Text: "ficha", Number: "5210000", MessageID: "wamid.1"}
	msgs := respond(IntentSpecSheet, tr, &leads.Lead{TargetModel: "JETTA 2025"}, testNow)
	body := decodeBody(t, msgs[0])
	text := body["text"].(map[string]any)["body"].(string)
	if !strings.HasPrefix(text, "*Modelo:* JETTA 2025") {
		t.Errorf("spec sheet should lead with the target model, got %q", text)
	}
	if !strings.Contains(text, "Garantía: 3 años o 60,000 km") {
		t.Errorf("spec sheet missing warranty line: %q", text)
	}
}

func TestRespondStatusSummarizesLead(t *testing.T) {
	lead := &leads.Lead{
		Name:        "ana",
		DownPayment: 120000,
		Payment:     leads.PaymentCredit,
		TargetModel: "TAOS 2025",
		TestDrive:   true,
	}
	tr := &turn{Text: "estado", Number: "5210000", MessageID: "wamid.1"}
	msgs := respond(IntentStatus, tr, lead, testNow)
	body := decodeBody(t, msgs[0])
	text := body["interactive"].(map[string]any)["body"].(map[string]any)["text"].(string)
	for _, want := range []string{
		"• Nombre: ana",
		"• Enganche: $120,000 MXN",
		"• Pago: crédito",
		"• Modelo objetivo: TAOS 2025",
		"• Prueba de manejo: Sí",
		"• Cita: —",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("status body missing %q:\n%s", want, text)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{50000, "50,000"},
		{1234567, "1,234,567"},
	}
	for _, tc := range tests {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
