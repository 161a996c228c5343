package conversation

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{name: "greeting", text: "hola", want: IntentGreeting},
		{name: "menu keyword", text: "menu", want: IntentGreeting},
		// Greeting outranks the category rule.
		{name: "greeting beats category", text: "hola quiero ver suv", want: IntentGreeting},
		{name: "available cars", text: "quiero ver autos disponibles", want: IntentCategories},
		{name: "models dump", text: "qué modelos tienes", want: IntentModels},
		{name: "category", text: "quiero un suv", want: IntentCategory},
		{name: "spec sheet", text: "mándame la ficha técnica", want: IntentSpecSheet},
		{name: "prices", text: "lista de precios", want: IntentPrices},
		{name: "promotions", text: "qué promociones tienen", want: IntentPromotions},
		{name: "quote", text: "quiero cotizar un auto", want: IntentQuote},
		{name: "test drive", text: "quiero una prueba de manejo", want: IntentTestDrive},
		{name: "schedule", text: "quiero agendar cita", want: IntentSchedule},
		{name: "pick date", text: "📅 5 de septiembre (viernes)", want: IntentPickDate},
		// Slot labels echo back in upper case and must still match.
		{name: "pick slot", text: "10:00 AM - 12:00 PM", want: IntentPickSlot},
		{name: "status", text: "dame mi resumen", want: IntentStatus},
		{name: "reset", text: "borrar datos", want: IntentReset},
		{name: "bare yes", text: "sí", want: IntentYes},
		{name: "bare yes unaccented", text: "si", want: IntentYes},
		{name: "bare no", text: "no", want: IntentNo},
		{name: "fallback", text: "xyz", want: IntentFallback},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &turn{Text: tc.text, Model: ParseModel(tc.text)}
			if got := Classify(tr); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestClassifyModelMention(t *testing.T) {
	tr := &turn{Text: "me interesa el jetta", Model: ParseModel("me interesa el jetta")}
	if got := Classify(tr); got != IntentModel {
		t.Errorf("Classify = %q, want %q", got, IntentModel)
	}
}
