package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pbaille/liftlog/internal/calendar"
	"github.com/pbaille/liftlog/internal/domain"
	"github.com/pbaille/liftlog/internal/htmlview"
	"github.com/pbaille/liftlog/internal/store"
)

// Server handles HTTP requests for the exercise log
type Server struct {
	store  *store.ExerciseStore
	addr   string
	logger *slog.Logger
	today  func() domain.Date
}

// New creates a new API server
func New(s *store.ExerciseStore, addr string, logger *slog.Logger) *Server {
	return &Server{store: s, addr: addr, logger: logger, today: domain.Today}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	s.logger.Info("starting server", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler returns the routed handler with logging and CORS applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Exercises
	mux.HandleFunc("GET /exercises", s.listExercises)
	mux.HandleFunc("POST /exercises", s.addExercise)
	mux.HandleFunc("GET /exercises/{id}", s.getExercise)
	mux.HandleFunc("PUT /exercises/{id}", s.updateExercise)
	mux.HandleFunc("DELETE /exercises/{id}", s.deleteExercise)

	// Types
	mux.HandleFunc("GET /types", s.listTypes)

	// Calendar
	mux.HandleFunc("GET /calendar", s.getCalendar)
	mux.HandleFunc("GET /calendar.html", s.getCalendarPage)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return s.withLogging(withCORS(mux))
}

// withLogging tags every request with an id and logs its completion
func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		s.logger.Info("request completed",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listExercises(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"exercises": s.store.All(),
		})
		return
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	exercises := s.store.ByDate(date)
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":      date,
		"exercises": exercises,
	})
}

func (s *Server) addExercise(w http.ResponseWriter, r *http.Request) {
	var req domain.ExerciseFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exercise, err := s.store.Add(req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, exercise)
}

func (s *Server) getExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	exercise, err := s.store.Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, exercise)
}

func (s *Server) updateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.ExerciseFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exercise, err := s.store.Update(id, req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, exercise)
}

func (s *Server) deleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTypes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"types": s.store.AllTypes(),
		})
		return
	}

	suggestions := s.store.SuggestTypes(query)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"types": suggestions,
		"query": query,
	})
}

// CalendarResponse is the JSON shape of GET /calendar
type CalendarResponse struct {
	Navigation calendar.Navigation `json:"navigation"`
	View       calendar.MonthView  `json:"view"`
}

func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	nav, ok := s.navigation(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, CalendarResponse{
		Navigation: nav,
		View:       calendar.NewMonthView(s.store.All(), nav.SelectedYear, nav.SelectedMonth),
	})
}

func (s *Server) getCalendarPage(w http.ResponseWriter, r *http.Request) {
	nav, ok := s.navigation(w, r)
	if !ok {
		return
	}

	page := htmlview.Page{
		Nav:  nav,
		View: calendar.NewMonthView(s.store.All(), nav.SelectedYear, nav.SelectedMonth),
	}
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		day, err := domain.ParseDate(dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		page.Day = &day
		page.Items = s.store.ByDate(day)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := htmlview.Render(w, page); err != nil {
		s.logger.Error("render calendar page", "error", err)
	}
}

// navigation parses year/month query parameters against the calendar bounds
func (s *Server) navigation(w http.ResponseWriter, r *http.Request) (calendar.Navigation, bool) {
	year, month := 0, -1

	if y := r.URL.Query().Get("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return calendar.Navigation{}, false
		}
		year = n
	}
	if m := r.URL.Query().Get("month"); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil || !calendar.ValidMonth(n) {
			writeError(w, http.StatusBadRequest, "invalid month, expected 0-11")
			return calendar.Navigation{}, false
		}
		month = n
	}

	var earliest *domain.Date
	if d, ok := s.store.EarliestDate(); ok {
		earliest = &d
	}
	return calendar.NewNavigation(year, month, earliest, s.today()), true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "exercise not found")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	default:
		s.logger.Error("store operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
