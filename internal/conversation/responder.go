package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/rrcordoba/volky/internal/catalog"
	"github.com/rrcordoba/volky/internal/leads"
	"github.com/rrcordoba/volky/internal/whatsapp"
)

const (
	footerAssistant = "Asistente Virtual Volky"
	footerSales     = "Ventas R&R Córdoba"
	footerShort     = "R&R Córdoba"
)

// specSheet is the generic technical sheet shared by every model, rendered
// in declaration order.
var specSheet = []struct{ label, value string }{
	{"Motor", "4 cilindros 1.6–2.0L, inyección multipunto"},
	{"Potencia", "115–180 hp (según versión)"},
	{"Torque", "150–320 Nm (según versión)"},
	{"Transmisión", "Manual 5/6 vel o Automática Tiptronic/DSG"},
	{"Tracción", "Delantera (algunas versiones AWD en SUV)"},
	{"Seguridad", "6 bolsas de aire, ABS, ESC, ISOFIX"},
	{"Infotenimiento", "Pantalla 8–10\", App-Connect (CarPlay/Android Auto)"},
	{"Consumo promedio", "12–18 km/L (mixto, depende versión)"},
	{"Garantía", "3 años o 60,000 km"},
}

// SpecSheet renders the generic technical sheet as a single message body.
func SpecSheet() string {
	var b strings.Builder
	b.WriteString("*Ficha técnica genérica*")
	for _, row := range specSheet {
		b.WriteString(fmt.Sprintf("\n• %s: %s", row.label, row.value))
	}
	return b.String()
}

// formatAmount groups a whole-peso figure with thousands commas.
func formatAmount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if n < 0 {
		return "-" + out
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// respond builds the ordered outbound messages for a classified turn. The
// lead reflects every passive update already applied this turn.
func respond(intent Intent, t *turn, lead *leads.Lead, now time.Time) []whatsapp.Message {
	number := t.Number
	switch intent {
	case IntentGreeting:
		name := ""
		if lead.Name != "" {
			name = lead.Name + " "
		}
		body := fmt.Sprintf("¡Hola %s👋! Soy *Volky* de *R&R Córdoba Autos*.\n¿Qué te gustaría hacer?", name)
		options := []string{
			"Ver autos disponibles", "Cotizar un auto", "Auto a cuenta",
			"Ver ficha técnica", "Agendar cita", "Promociones",
		}
		return []whatsapp.Message{
			whatsapp.Reaction(number, t.MessageID, "🫡"),
			whatsapp.ListReply(number, options, body, footerAssistant, "sed_menu"),
		}

	case IntentCategories:
		body := "Perfecto ✅ ¿Qué categoría te interesa?\n\n🚙 SUV\n🚗 Compactos\n🚘 Camionetas"
		options := []string{"SUV", "Compactos", "Camionetas", "Modelos"}
		return []whatsapp.Message{
			whatsapp.ListReply(number, options, body, footerSales, "sed_cat"),
		}

	case IntentModels:
		var b strings.Builder
		b.WriteString("Estos son los modelos disponibles ahora mismo:\n")
		for _, cat := range catalog.Categories {
			b.WriteString(fmt.Sprintf("\n - %s:\n", cat))
			for _, m := range catalog.Models(cat) {
				b.WriteString(fmt.Sprintf("    • %s\n", m))
			}
		}
		b.WriteString("\nEscribe el *modelo* que te interesa")
		return []whatsapp.Message{whatsapp.Text(number, b.String())}

	case IntentCategory:
		category := catalog.MatchCategory(t.Text)
		models := catalog.Models(category)
		footer := fmt.Sprintf("%s • %s", footerSales, category)
		if len(models) == 0 {
			body := "Por ahora no tengo existencias en esa categoría. ¿Quieres revisar otra?"
			options := []string{"SUV", "Compactos", "Camionetas"}
			return []whatsapp.Message{
				whatsapp.ButtonReply(number, options, body, footer, "sed_cat_retry"),
			}
		}
		body := fmt.Sprintf("Estos son los *%s* disponibles:\n\n", category)
		for i, m := range models {
			if i > 0 {
				body += "\n"
			}
			body += "• " + m
		}
		body += "\n\n¿De cuál te gustaría más información?"
		return []whatsapp.Message{
			whatsapp.ListReply(number, models, body, footer, "sed_modelos"),
		}

	case IntentModel:
		body := fmt.Sprintf("¿Qué te gustaría hacer con *%s*?", t.Model)
		options := []string{
			"Ver ficha técnica", "Lista de precios",
			"Agendar prueba de manejo", "Agendar cita",
		}
		return []whatsapp.Message{
			whatsapp.ListReply(number, options, body, footerSales, "sed_modelo_accion"),
		}

	case IntentSpecSheet:
		body := SpecSheet()
		if lead.TargetModel != "" {
			body = fmt.Sprintf("*Modelo:* %s\n\n%s", lead.TargetModel, body)
		}
		return []whatsapp.Message{whatsapp.Text(number, body)}

	case IntentPrices:
		body := "Te comparto rangos estimados 💰:\n" +
			"• Compactos: desde $300,000\n" +
			"• SUV: desde $400,000\n" +
			"• Camionetas: desde $900,000 (comerciales) y $600,000 (pickups)\n\n" +
			"¿Quieres que cotice un *modelo y versión* específicos?"
		options := []string{"Sí, cotizar modelo", "Ver promociones", "Agendar cita"}
		return []whatsapp.Message{
			whatsapp.ButtonReply(number, options, body, footerSales, "sed_precios"),
		}

	case IntentPromotions:
		body := "Ahora mismo tenemos:\n" +
			"🎯 0% comisión por apertura\n" +
			"🎯 Enganches desde el 10%\n" +
			"🎯 Seguro gratis el primer año\n\n" +
			"¿Prefieres *agendar una cita* o una *cotización por WhatsApp*?"
		options := []string{"Agendar cita", "Cotización por WhatsApp"}
		return []whatsapp.Message{
			whatsapp.ButtonReply(number, options, body, footerSales, "sed_promo"),
		}

	case IntentQuote:
		body := "Perfecto, para cotizar necesito:\n" +
			"1️⃣ *Modelo* de interés\n" +
			"2️⃣ ¿*Contado* o a *crédito*?\n" +
			"3️⃣ Si es crédito, ¿cuánto darías de *enganche*?\n" +
			"4️⃣ ¿Tienes *auto a cuenta*? (marca, modelo, año)"
		return []whatsapp.Message{whatsapp.Text(number, body)}

	case IntentTestDrive:
		body := "¡Perfecto! Veamos disponibilidad para tu *prueba de manejo*."
		options := []string{"Sí, agendar cita", "Luego"}
		return []whatsapp.Message{
			whatsapp.ButtonReply(number, options, body, footerSales, "sed_prueba"),
		}

	case IntentSchedule:
		body := "Elige el día que mejor te acomode:"
		dates := UpcomingDates(now, 5)
		options := make([]string, 0, len(dates))
		for _, d := range dates {
			options = append(options, fmt.Sprintf("%s %s", DateMarker, FormatDateES(d)))
		}
		return []whatsapp.Message{
			whatsapp.ListReply(number, options, body, footerSales, "sed_cita_dia"),
		}

	case IntentPickDate:
		chosen := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(t.Text), DateMarker, ""))
		return []whatsapp.Message{
			whatsapp.ReplyText(number, t.MessageID, fmt.Sprintf("Anotado: *%s* ✅", chosen)),
			whatsapp.ButtonReply(number, TimeSlots, "¿Qué horario prefieres?", footerSales, "sed_cita_hora"),
		}

	case IntentPickSlot:
		slot := strings.ToUpper(t.Text)
		body := fmt.Sprintf("¡Listo! 📌 Cita *%s* confirmada.\n\n", slot) +
			"Para dejarla agendada, por favor compárteme:\n" +
			"• Tu *nombre completo*\n" +
			"• *Modelo* de interés\n" +
			"• ¿*Contado* o *crédito*? (si es crédito, ¿*enganche*?)\n" +
			"• ¿Tienes *auto a cuenta*? (marca, modelo, año)"
		return []whatsapp.Message{whatsapp.Text(number, body)}

	case IntentStatus:
		downPayment := "—"
		if lead.DownPayment != 0 {
			downPayment = fmt.Sprintf("$%s MXN", formatAmount(lead.DownPayment))
		}
		testDrive := "No"
		if lead.TestDrive {
			testDrive = "Sí"
		}
		body := "*Tu información hasta ahora:*\n" +
			fmt.Sprintf("• Nombre: %s\n", orDash(lead.Name)) +
			fmt.Sprintf("• Pago: %s\n", orDash(lead.Payment)) +
			fmt.Sprintf("• Enganche: %s\n", downPayment) +
			fmt.Sprintf("• Auto a cuenta: %s\n", orDash(lead.TradeIn)) +
			fmt.Sprintf("• Modelo objetivo: %s\n", orDash(lead.TargetModel)) +
			fmt.Sprintf("• Cita: %s\n", orDash(lead.AppointmentDate)) +
			fmt.Sprintf("• Prueba de manejo: %s\n", testDrive) +
			fmt.Sprintf("• Fecha de prueba: %s\n\n", orDash(lead.TestDriveDate)) +
			"¿Deseas *agendar/ajustar cita*, *ver ficha técnica* o *finalizar cotización*?"
		options := []string{"Agendar/ajustar cita", "Ver ficha técnica", "Finalizar cotización"}
		return []whatsapp.Message{
			whatsapp.ButtonReply(number, options, body, footerShort, "sed_status"),
		}

	case IntentReset:
		body := "He borrado tu información de este chat. Empezamos desde cero. ¿Qué te gustaría hacer?"
		options := []string{"Ver autos disponibles", "Cotizar un auto", "Agendar cita"}
		return []whatsapp.Message{
			whatsapp.ButtonReply(number, options, body, footerShort, "sed_reset"),
		}

	case IntentYes:
		body := "Perfecto ✅ ¿Qué categoría te interesa?\n\n🚙 SUV\n🚗 Compactos\n🚘 Camionetas"
		options := []string{"SUV", "Compactos", "Camionetas"}
		return []whatsapp.Message{
			whatsapp.ListReply(number, options, body, footerShort, "sed_cat"),
		}

	case IntentNo:
		body := "¡Entendido! Si más adelante necesitas información o una cotización, aquí estaré para ayudarte. 🙌"
		return []whatsapp.Message{whatsapp.Text(number, body)}
	}

	body := "Puedo ayudarte a *ver modelos*, *cotizar*, *agendar cita* o mostrarte la *ficha técnica*.\n" +
		"¿Qué deseas hacer?"
	options := []string{
		"Ver autos disponibles", "Cotizar un auto", "Agendar cita",
		"Ver ficha técnica", "Promociones", "Estado",
	}
	return []whatsapp.Message{
		whatsapp.ButtonReply(number, options, body, footerAssistant, "sed_fallback"),
	}
}
