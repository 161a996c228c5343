// Package catalog holds the dealership's fixed category -> model configuration.
// The data is read-only and its ordering is significant: free-text model
// detection returns the first match in catalog order.
package catalog

import "strings"

// Category names offered by the dealership.
const (
	CategorySUV        = "SUV"
	CategoryCompactos  = "Compactos"
	CategoryCamionetas = "Camionetas"
)

// Categories lists category names in display order.
var Categories = []string{CategorySUV, CategoryCompactos, CategoryCamionetas}

var models = map[string][]string{
	CategorySUV: {
		"TAIGUN 2025", "TAOS 2025", "TIGUAN 2025",
		"TERAMONT 2025", "CROSS SPORT 2025",
	},
	CategoryCompactos: {
		"POLO TRACK", "VIRTUS 2025", "JETTA 2025", "NUEVO GTI",
	},
	CategoryCamionetas: {
		"SAVEIRO 2025", "AMAROK 2024", "AMAROK 2025",
		"CADDY CARGO 2024", "CRAFTER PASAJEROS 2025", "CRAFTER CARGO 2025",
		"TRANSPORTE CHASIS", "TRANSPORTE CARGO",
	},
}

// Models returns the configured models for a category in configured order.
// Unknown categories yield nil.
func Models(category string) []string {
	return models[category]
}

// AllModels returns every model in catalog order (SUV, Compactos, Camionetas).
func AllModels() []string {
	var all []string
	for _, cat := range Categories {
		all = append(all, models[cat]...)
	}
	return all
}

// MatchCategory reports which category, if any, the message names.
func MatchCategory(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "suv"):
		return CategorySUV
	case strings.Contains(t, "compacto"):
		return CategoryCompactos
	case strings.Contains(t, "camioneta"):
		return CategoryCamionetas
	}
	return ""
}

// FindModel scans the text for any known model, matching either the model's
// first word or its full name, and returns the canonical model name. The
// first hit in catalog order wins.
func FindModel(text string) string {
	t := strings.ToLower(text)
	for _, canon := range AllModels() {
		lower := strings.ToLower(canon)
		first := strings.Fields(lower)[0]
		if strings.Contains(t, first) || strings.Contains(t, lower) {
			return canon
		}
	}
	return ""
}
