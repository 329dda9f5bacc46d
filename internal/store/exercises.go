package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pbaille/liftlog/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ExercisesSlot is the slot holding the serialized exercise list
const ExercisesSlot = "exercises"

// Slots is the durable key/value storage the exercise store persists into
type Slots interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// ExerciseStore owns the exercise collection. Every mutation persists the
// whole collection before the lock is released.
type ExerciseStore struct {
	slots  Slots
	now    func() time.Time
	logger *slog.Logger

	mu        sync.Mutex
	exercises []domain.Exercise
	lastID    int64
}

// Option configures an ExerciseStore
type Option func(*ExerciseStore)

// WithClock overrides the clock used for id generation
func WithClock(now func() time.Time) Option {
	return func(s *ExerciseStore) { s.now = now }
}

// WithLogger sets the logger used for recovered storage problems
func WithLogger(l *slog.Logger) Option {
	return func(s *ExerciseStore) { s.logger = l }
}

// NewExerciseStore creates an empty store over slots. Call Load to restore
// persisted records.
func NewExerciseStore(slots Slots, opts ...Option) *ExerciseStore {
	s := &ExerciseStore{
		slots:  slots,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the collection from storage. Missing or malformed data
// yields an empty collection; the problem is logged, never returned.
// Records sharing an id keep it on their first occurrence only; later ones
// get fresh ids and the repaired collection is written back.
func (s *ExerciseStore) Load() []domain.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exercises = s.readSlot()
	s.lastID = 0
	for _, e := range s.exercises {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}

	seen := make(map[int64]bool, len(s.exercises))
	reassigned := 0
	for i := range s.exercises {
		id := s.exercises[i].ID
		if !seen[id] {
			seen[id] = true
			continue
		}
		s.exercises[i].ID = s.nextID()
		seen[s.exercises[i].ID] = true
		reassigned++
		s.logger.Warn("duplicate exercise id reassigned", "old_id", id, "new_id", s.exercises[i].ID)
	}
	if reassigned > 0 {
		if err := s.persist(); err != nil {
			s.logger.Warn("persist repaired exercise ids", "error", err)
		}
	}
	return clone(s.exercises)
}

func (s *ExerciseStore) readSlot() []domain.Exercise {
	data, ok, err := s.slots.Get(ExercisesSlot)
	if err != nil {
		s.logger.Warn("exercise storage unreadable, starting empty", "error", err)
		return []domain.Exercise{}
	}
	if !ok || len(data) == 0 {
		return []domain.Exercise{}
	}

	var exercises []domain.Exercise
	if err := json.Unmarshal(data, &exercises); err != nil {
		s.logger.Warn("exercise storage malformed, starting empty",
			"error", fmt.Errorf("%w: %v", domain.ErrMalformedStorage, err))
		return []domain.Exercise{}
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return exercises
}

// Add records a new exercise with a fresh id and persists the collection
func (s *ExerciseStore) Add(fields domain.ExerciseFields) (domain.Exercise, error) {
	if err := fields.Validate(); err != nil {
		return domain.Exercise{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevLastID := s.lastID
	e := domain.Exercise{
		ID:     s.nextID(),
		Type:   fields.Type,
		Weight: fields.Weight,
		Reps:   fields.Reps,
		Sets:   fields.Sets,
		Notes:  fields.Notes,
		Date:   fields.Date,
	}

	prev := s.exercises
	s.exercises = append(clone(prev), e)
	if err := s.persist(); err != nil {
		s.exercises = prev
		s.lastID = prevLastID
		return domain.Exercise{}, err
	}

	s.logger.Debug("exercise added", "id", e.ID, "type", e.Type, "date", e.Date.String())
	return e, nil
}

// Update replaces every field of the exercise except its id. A zero date in
// fields keeps the existing date.
func (s *ExerciseStore) Update(id int64, fields domain.ExerciseFields) (domain.Exercise, error) {
	if strings.TrimSpace(fields.Type) == "" {
		return domain.Exercise{}, &domain.ValidationError{Field: "type"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return domain.Exercise{}, fmt.Errorf("update exercise %d: %w", id, domain.ErrNotFound)
	}

	updated := s.exercises[idx]
	updated.Type = fields.Type
	updated.Weight = fields.Weight
	updated.Reps = fields.Reps
	updated.Sets = fields.Sets
	updated.Notes = fields.Notes
	if !fields.Date.IsZero() {
		updated.Date = fields.Date
	}

	prev := s.exercises
	s.exercises = clone(prev)
	s.exercises[idx] = updated
	if err := s.persist(); err != nil {
		s.exercises = prev
		return domain.Exercise{}, err
	}

	s.logger.Debug("exercise updated", "id", id)
	return updated, nil
}

// Delete removes the exercise with the given id. An unknown id is a no-op.
func (s *ExerciseStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil
	}

	prev := s.exercises
	next := make([]domain.Exercise, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.exercises = next
	if err := s.persist(); err != nil {
		s.exercises = prev
		return err
	}

	s.logger.Debug("exercise deleted", "id", id)
	return nil
}

// Get returns a copy of the exercise with the given id
func (s *ExerciseStore) Get(id int64) (domain.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return domain.Exercise{}, fmt.Errorf("get exercise %d: %w", id, domain.ErrNotFound)
	}
	return s.exercises[idx], nil
}

// All returns every exercise in insertion order
func (s *ExerciseStore) All() []domain.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.exercises)
}

// ByDate returns the exercises logged on date, in insertion order
func (s *ExerciseStore) ByDate(date domain.Date) []domain.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Exercise
	for _, e := range s.exercises {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// EarliestDate returns the minimum date across all exercises
func (s *ExerciseStore) EarliestDate() (domain.Date, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.exercises) == 0 {
		return domain.Date{}, false
	}
	earliest := s.exercises[0].Date
	for _, e := range s.exercises[1:] {
		if e.Date.Before(earliest) {
			earliest = e.Date
		}
	}
	return earliest, true
}

// AllTypes returns the distinct exercise types, case-sensitive, in
// collation order
func (s *ExerciseStore) AllTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	types := []string{}
	for _, e := range s.exercises {
		if !seen[e.Type] {
			seen[e.Type] = true
			types = append(types, e.Type)
		}
	}

	c := collate.New(language.Und)
	sort.SliceStable(types, func(i, j int) bool {
		if r := c.CompareString(types[i], types[j]); r != 0 {
			return r < 0
		}
		return types[i] < types[j]
	})
	return types
}

// SuggestTypes returns the known types containing query, ignoring case.
// An empty query suggests nothing.
func (s *ExerciseStore) SuggestTypes(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []string
	for _, t := range s.AllTypes() {
		if strings.Contains(strings.ToLower(t), q) {
			out = append(out, t)
		}
	}
	return out
}

// CompleteType returns the first known type starting with prefix, ignoring
// case. ok is false when there is no candidate or the input is already
// complete.
func (s *ExerciseStore) CompleteType(prefix string) (string, bool) {
	p := strings.ToLower(strings.TrimSpace(prefix))
	for _, t := range s.AllTypes() {
		lt := strings.ToLower(t)
		if strings.HasPrefix(lt, p) {
			if lt == p {
				return "", false
			}
			return t, true
		}
	}
	return "", false
}

// nextID returns a millisecond timestamp, bumped past every id already
// handed out so same-millisecond creations stay unique. Caller holds mu.
func (s *ExerciseStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *ExerciseStore) indexOf(id int64) int {
	for i, e := range s.exercises {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the whole collection. Caller holds mu.
func (s *ExerciseStore) persist() error {
	data, err := json.Marshal(s.exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}
	if err := s.slots.Put(ExercisesSlot, data); err != nil {
		return fmt.Errorf("persist exercises: %w", err)
	}
	return nil
}

func clone(in []domain.Exercise) []domain.Exercise {
	out := make([]domain.Exercise, len(in))
	copy(out, in)
	return out
}
