package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pbaille/liftlog/internal/domain"
	"github.com/pbaille/liftlog/internal/store"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupServer(t *testing.T) (*Server, *store.ExerciseStore) {
	t.Helper()

	slots, err := store.OpenSlots(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open slots: %v", err)
	}
	t.Cleanup(func() { slots.Close() })

	s := store.NewExerciseStore(slots, store.WithLogger(quiet))
	s.Load()

	srv := New(s, ":0", quiet)
	srv.today = func() domain.Date {
		return domain.Date{Year: 2024, Month: time.March, Day: 20}
	}
	return srv, s
}

func do(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)
	w := do(t, srv, "GET", "/health", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestAddExercise(t *testing.T) {
	srv, s := setupServer(t)

	w := do(t, srv, "POST", "/exercises", map[string]interface{}{
		"type": "Squat", "weight": 100, "reps": 5, "sets": 5, "notes": "", "date": "2024-03-15",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var got domain.Exercise
	decode(t, w, &got)
	if got.ID == 0 || got.Type != "Squat" || got.Date.String() != "2024-03-15" {
		t.Errorf("unexpected exercise %+v", got)
	}
	if len(s.All()) != 1 {
		t.Errorf("expected store to hold 1 record")
	}
}

func TestAddExerciseValidation(t *testing.T) {
	srv, _ := setupServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing type", `{"weight":10,"date":"2024-03-15"}`},
		{"missing date", `{"type":"Squat"}`},
		{"bad date", `{"type":"Squat","date":"2024-02-30"}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/exercises", strings.NewReader(tt.body))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, w.Code)
		}
	}
}

func TestListExercisesByDate(t *testing.T) {
	srv, s := setupServer(t)
	day, _ := domain.ParseDate("2024-03-15")
	other, _ := domain.ParseDate("2024-03-16")
	s.Add(domain.ExerciseFields{Type: "Squat", Date: day})
	s.Add(domain.ExerciseFields{Type: "Bench", Date: other})
	s.Add(domain.ExerciseFields{Type: "Row", Date: day})

	w := do(t, srv, "GET", "/exercises?date=2024-03-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Exercises []domain.Exercise `json:"exercises"`
	}
	decode(t, w, &resp)
	if len(resp.Exercises) != 2 || resp.Exercises[0].Type != "Squat" || resp.Exercises[1].Type != "Row" {
		t.Errorf("unexpected exercises %+v", resp.Exercises)
	}

	w = do(t, srv, "GET", "/exercises?date=2024-04-01", nil)
	if !strings.Contains(w.Body.String(), `"exercises":[]`) {
		t.Errorf("expected empty list, got %s", w.Body.String())
	}

	w = do(t, srv, "GET", "/exercises?date=yesterday", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", w.Code)
	}
}

func TestUpdateExercise(t *testing.T) {
	srv, s := setupServer(t)
	day, _ := domain.ParseDate("2024-03-15")
	e, _ := s.Add(domain.ExerciseFields{Type: "Squat", Weight: 80, Date: day})

	path := "/exercises/" + strconv.FormatInt(e.ID, 10)
	w := do(t, srv, "PUT", path, map[string]interface{}{
		"type": "Squat", "weight": 90, "reps": 3, "sets": 3, "notes": "pr",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got domain.Exercise
	decode(t, w, &got)
	if got.ID != e.ID || got.Weight != 90 || got.Notes != "pr" || got.Date != day {
		t.Errorf("unexpected update result %+v", got)
	}

	w = do(t, srv, "PUT", "/exercises/12345", map[string]interface{}{"type": "Squat"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = do(t, srv, "PUT", "/exercises/abc", map[string]interface{}{"type": "Squat"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestGetAndDeleteExercise(t *testing.T) {
	srv, s := setupServer(t)
	day, _ := domain.ParseDate("2024-03-15")
	e, _ := s.Add(domain.ExerciseFields{Type: "Squat", Date: day})
	path := "/exercises/" + strconv.FormatInt(e.ID, 10)

	if w := do(t, srv, "GET", path, nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	if w := do(t, srv, "DELETE", path, nil); w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w := do(t, srv, "GET", path, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}

	// deleting again is still fine
	if w := do(t, srv, "DELETE", path, nil); w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for missing id, got %d", w.Code)
	}
}

func TestListTypes(t *testing.T) {
	srv, s := setupServer(t)
	day, _ := domain.ParseDate("2024-03-15")
	for _, typ := range []string{"Squat", "Bench Press", "Leg Press", "Squat"} {
		s.Add(domain.ExerciseFields{Type: typ, Date: day})
	}

	var all struct {
		Types []string `json:"types"`
	}
	decode(t, do(t, srv, "GET", "/types", nil), &all)
	if strings.Join(all.Types, ",") != "Bench Press,Leg Press,Squat" {
		t.Errorf("unexpected types %v", all.Types)
	}

	var suggested struct {
		Types []string `json:"types"`
	}
	decode(t, do(t, srv, "GET", "/types?q=press", nil), &suggested)
	if len(suggested.Types) != 2 {
		t.Errorf("expected 2 suggestions, got %v", suggested.Types)
	}
}

func TestCalendar(t *testing.T) {
	srv, s := setupServer(t)
	day, _ := domain.ParseDate("2024-01-15")
	s.Add(domain.ExerciseFields{Type: "Squat", Date: day})

	w := do(t, srv, "GET", "/calendar", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp CalendarResponse
	decode(t, w, &resp)
	if resp.Navigation.SelectedYear != 2024 || resp.Navigation.SelectedMonth != 2 {
		t.Errorf("unexpected default selection %+v", resp.Navigation)
	}
	if len(resp.Navigation.Months) != 3 {
		t.Errorf("expected Jan-Mar, got %v", resp.Navigation.Months)
	}

	w = do(t, srv, "GET", "/calendar?year=2024&month=0", nil)
	decode(t, w, &resp)
	var highlighted []int
	for _, c := range resp.View.Cells {
		if c.Highlighted {
			highlighted = append(highlighted, c.Day)
		}
	}
	if len(highlighted) != 1 || highlighted[0] != 15 {
		t.Errorf("expected day 15 highlighted, got %v", highlighted)
	}

	var future CalendarResponse
	decode(t, do(t, srv, "GET", "/calendar?year=2024&month=11", nil), &future)
	if future.Navigation.SelectedMonth != 2 || future.View.Month != 2 {
		t.Errorf("future month should clamp to March, got %+v", future.Navigation)
	}

	if w := do(t, srv, "GET", "/calendar?month=12", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for month 12, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/calendar?year=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad year, got %d", w.Code)
	}
}

func TestCalendarPage(t *testing.T) {
	srv, s := setupServer(t)
	day, _ := domain.ParseDate("2024-03-15")
	s.Add(domain.ExerciseFields{Type: "Squat", Weight: 100, Sets: 5, Reps: 5, Date: day})

	w := do(t, srv, "GET", "/calendar.html?year=2024&month=2&date=2024-03-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %s", ct)
	}

	body := w.Body.String()
	for _, want := range []string{"calendar-cell highlight", "Exercises on 2024-03-15", "100 kgs, 5 sets, 5 reps"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := setupServer(t)
	w := do(t, srv, "OPTIONS", "/exercises", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
