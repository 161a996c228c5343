package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rrcordoba/volky/internal/catalog"
	"github.com/rrcordoba/volky/internal/leads"
)

// amountRE matches a figure like "120,000", "120.000" or "50000", optionally
// followed by a currency marker.
var amountRE = regexp.MustCompile(`(?i)(\d{1,3}(?:[.,]\d{3})*|\d+)(?:\s*(?:mxn|pesos|\$))?`)

// tradeInYearRE matches a loose "<brand> <year>" mention like "jetta 2019".
var tradeInYearRE = regexp.MustCompile(`(?:\b[a-zA-Z]{3,}\b)\s+(?:19|20)\d{2}`)

var nameAnchors = []string{"me llamo", "mi nombre es", "soy"}

var tradeInPhrases = []string{"auto a cuenta", "tengo un auto", "tomar a cuenta", "a cuenta"}

// ParseName extracts a customer name from the lowered message text. Anchor
// phrases capture up to two tokens following the anchor; without an anchor,
// a short digit-free multi-word message is taken as the name itself.
func ParseName(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, anchor := range nameAnchors {
		idx := strings.Index(t, anchor)
		if idx < 0 {
			continue
		}
		rest := strings.Fields(t[idx+len(anchor):])
		if len(rest) == 0 {
			return ""
		}
		if len(rest) == 1 {
			return rest[0]
		}
		return rest[0] + " " + rest[1]
	}
	if len(t) >= 3 && len(t) <= 60 && !containsDigit(t) && len(strings.Fields(t)) >= 2 {
		return t
	}
	return ""
}

// ParseAmount extracts a down-payment figure in whole MXN. "50 mil" style
// shorthand is expanded before matching; grouping separators are stripped.
// Returns 0 when the text carries no amount.
func ParseAmount(text string) int {
	t := strings.ReplaceAll(strings.ToLower(text), " mil", "000")
	m := amountRE.FindStringSubmatch(t)
	if m == nil {
		return 0
	}
	digits := strings.NewReplacer(".", "", ",", "").Replace(m[1])
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// ParsePayment detects the payment method. Credit wins when both appear.
func ParsePayment(text string) string {
	t := strings.ToLower(text)
	if strings.Contains(t, "crédito") || strings.Contains(t, "credito") || strings.Contains(t, "financiamiento") {
		return leads.PaymentCredit
	}
	if strings.Contains(t, "contado") || strings.Contains(t, "cash") {
		return leads.PaymentCash
	}
	return ""
}

// ParseTradeIn returns the trimmed message when it mentions a trade-in,
// either by phrase or by a loose "<brand> <year>" pattern.
func ParseTradeIn(text string) string {
	t := strings.ToLower(text)
	for _, phrase := range tradeInPhrases {
		if strings.Contains(t, phrase) {
			return strings.TrimSpace(text)
		}
	}
	if tradeInYearRE.MatchString(t) {
		return strings.TrimSpace(text)
	}
	return ""
}

// ParseModel finds a catalog model mentioned in the text.
func ParseModel(text string) string {
	return catalog.FindModel(text)
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
