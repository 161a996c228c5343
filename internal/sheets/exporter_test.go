package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

func newTestExporter(t *testing.T, handler http.Handler) *Exporter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	exp, err := New(context.Background(), Config{SpreadsheetID: "sheet-1"}, nil,
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return exp
}

func TestAppendAppointment(t *testing.T) {
	var gotPath string
	var gotBody struct {
		Values [][]interface{} `json:"values"`
	}
	exp := newTestExporter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode append body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))

	err := exp.AppendAppointment(context.Background(),
		"ana lópez", "523312345678", "2025-09-05", "10:00 AM - 12:00 PM")
	if err != nil {
		t.Fatalf("AppendAppointment: %v", err)
	}
	if !strings.Contains(gotPath, "sheet-1") {
		t.Errorf("request path should target the spreadsheet, got %q", gotPath)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 4 {
		t.Fatalf("unexpected row payload: %v", gotBody.Values)
	}
	if gotBody.Values[0][0] != "ana lópez" || gotBody.Values[0][3] != "10:00 AM - 12:00 PM" {
		t.Errorf("unexpected row: %v", gotBody.Values[0])
	}
}

func TestAppointmentsSkipsHeader(t *testing.T) {
	exp := newTestExporter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"values":[
			["Nombre","Teléfono","Fecha","Hora"],
			["ana","52331","2025-09-05","10:00 AM - 12:00 PM"]
		]}`))
	}))

	appts, err := exp.Appointments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appts))
	}
	if appts[0].Name != "ana" || appts[0].Slot != "10:00 AM - 12:00 PM" {
		t.Errorf("unexpected appointment: %+v", appts[0])
	}
}

func TestNilExporterIsNoop(t *testing.T) {
	var exp *Exporter
	if err := exp.AppendAppointment(context.Background(), "a", "b", "c", "d"); err != nil {
		t.Errorf("nil exporter should be a no-op, got %v", err)
	}
	exp2, err := New(context.Background(), Config{}, nil)
	if err != nil || exp2 != nil {
		t.Errorf("unconfigured exporter should be nil without error, got %v %v", exp2, err)
	}
}
