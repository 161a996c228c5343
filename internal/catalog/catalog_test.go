package catalog

import "testing"

func TestModelsSUVOrder(t *testing.T) {
	want := []string{"TAIGUN 2025", "TAOS 2025", "TIGUAN 2025", "TERAMONT 2025", "CROSS SPORT 2025"}
	got := Models(CategorySUV)
	if len(got) != len(want) {
		t.Fatalf("expected %d SUV models, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SUV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestModelsUnknownCategory(t *testing.T) {
	if got := Models("Sedanes"); got != nil {
		t.Errorf("expected nil for unknown category, got %v", got)
	}
}

func TestMatchCategory(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"quiero un SUV", CategorySUV},
		{"suv", CategorySUV},
		{"me interesan los compactos", CategoryCompactos},
		{"un compacto barato", CategoryCompactos},
		{"Camionetas", CategoryCamionetas},
		{"una camioneta de trabajo", CategoryCamionetas},
		{"hola", ""},
	}
	for _, tc := range cases {
		if got := MatchCategory(tc.text); got != tc.want {
			t.Errorf("MatchCategory(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestFindModel(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"me interesa el taigun", "TAIGUN 2025"},
		{"quiero una amarok 2024", "AMAROK 2024"},
		{"el jetta 2025 me gusta", "JETTA 2025"},
		{"POLO TRACK por favor", "POLO TRACK"},
		{"un auto cualquiera", ""},
	}
	for _, tc := range cases {
		if got := FindModel(tc.text); got != tc.want {
			t.Errorf("FindModel(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

// "amarok" with no year must resolve to the first AMAROK in catalog order.
func TestFindModelCatalogOrderTieBreak(t *testing.T) {
	if got := FindModel("tienen amarok?"); got != "AMAROK 2024" {
		t.Errorf("expected AMAROK 2024 (first in catalog order), got %q", got)
	}
}
