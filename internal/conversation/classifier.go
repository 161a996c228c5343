package conversation

import (
	"strings"

	"github.com/rrcordoba/volky/internal/catalog"
)

// Intent names one branch of the conversation. The value doubles as the
// label recorded in transcripts and metrics.
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentCategories Intent = "categories"
	IntentModels     Intent = "models"
	IntentCategory   Intent = "category"
	IntentModel      Intent = "model"
	IntentSpecSheet  Intent = "spec_sheet"
	IntentPrices     Intent = "prices"
	IntentPromotions Intent = "promotions"
	IntentQuote      Intent = "quote"
	IntentTestDrive  Intent = "test_drive"
	IntentSchedule   Intent = "schedule"
	IntentPickDate   Intent = "pick_date"
	IntentPickSlot   Intent = "pick_slot"
	IntentStatus     Intent = "status"
	IntentReset      Intent = "reset"
	IntentYes        Intent = "yes"
	IntentNo         Intent = "no"
	IntentFallback   Intent = "fallback"
)

// turn carries everything one inbound message contributes to classification
// and response building.
type turn struct {
	Text      string // original-case message text
	Number    string
	MessageID string
	Model     string // catalog model detected during passive capture
}

type rule struct {
	intent Intent
	match  func(*turn) bool
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func keywordRule(intent Intent, keywords ...string) rule {
	return rule{intent: intent, match: func(t *turn) bool {
		return containsAny(t.Text, keywords)
	}}
}

// rules is the decision list. Evaluation is strictly top to bottom and the
// first match wins; several keyword sets overlap, so reordering changes
// behavior ("agendar cita" appears both in the scheduling trigger and in
// later confirmations).
var rules = []rule{
	keywordRule(IntentGreeting,
		"hola", "buenas tardes", "buenos dias", "buenos días", "buenas noches",
		"buen dia", "buen día", "buena tarde", "buena noche",
		"menu", "inicio", "empezar"),
	keywordRule(IntentCategories, "autos disponibles", "ver autos"),
	keywordRule(IntentModels, "modelo", "modelos"),
	{intent: IntentCategory, match: func(t *turn) bool {
		return catalog.MatchCategory(t.Text) != ""
	}},
	{intent: IntentModel, match: func(t *turn) bool {
		return t.Model != ""
	}},
	keywordRule(IntentSpecSheet, "ficha técnica", "ver ficha técnica", "ficha"),
	keywordRule(IntentPrices, "lista de precios", "ver lista de precios", "precios"),
	keywordRule(IntentPromotions, "promociones", "ver promociones"),
	keywordRule(IntentQuote, "cotizar un auto", "cotizar"),
	keywordRule(IntentTestDrive, "prueba de manejo", "agendar prueba de manejo"),
	keywordRule(IntentSchedule,
		"sí, agendar cita", "si, agendar cita", "agendar cita", "agenda", "agendar"),
	{intent: IntentPickDate, match: func(t *turn) bool {
		return strings.Contains(t.Text, DateMarker) && containsAny(strings.ToLower(t.Text), monthsES)
	}},
	{intent: IntentPickSlot, match: func(t *turn) bool {
		// The slot labels are echoed back exactly as sent, so this one
		// rule folds case before comparing.
		lower := strings.ToLower(t.Text)
		for _, slot := range TimeSlots {
			if strings.Contains(lower, strings.ToLower(slot)) {
				return true
			}
		}
		return false
	}},
	keywordRule(IntentStatus, "estado", "resumen", "mi info", "mis datos", "status"),
	keywordRule(IntentReset, "reiniciar", "empezar de nuevo", "borrar datos", "reset"),
	{intent: IntentYes, match: func(t *turn) bool {
		s := strings.TrimSpace(t.Text)
		return s == "sí" || s == "si"
	}},
	{intent: IntentNo, match: func(t *turn) bool {
		return strings.TrimSpace(t.Text) == "no"
	}},
}

// Classify runs the decision list and returns the first matching intent,
// falling back to IntentFallback.
func Classify(t *turn) Intent {
	for _, r := range rules {
		if r.match(t) {
			return r.intent
		}
	}
	return IntentFallback
}
