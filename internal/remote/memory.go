package remote

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. It grades submissions itself from the
// correct option ids registered with AddQuizPuzzle. It backs offline demos
// and tests.
type Memory struct {
	mu           sync.Mutex
	categories   map[string]uuid.UUID
	quizzes      []QuizPuzzle
	correct      map[uuid.UUID]bool
	attempts     []UserQuizAttempt
	tonePuzzles  map[string]TonePuzzle
	toneAttempts map[toneKey]ToneAttempt
	entitlements map[[2]string]Entitlement

	// Fail, when set, is returned by every call.
	Fail error

	// Calls counts calls per method name.
	Calls map[string]int
}

type toneKey struct {
	user   string
	puzzle uuid.UUID
	index  int
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		categories:   map[string]uuid.UUID{},
		correct:      map[uuid.UUID]bool{},
		tonePuzzles:  map[string]TonePuzzle{},
		toneAttempts: map[toneKey]ToneAttempt{},
		entitlements: map[[2]string]Entitlement{},
		Calls:        map[string]int{},
	}
}

func (m *Memory) enter(name string) error {
	m.Calls[name]++
	return m.Fail
}

// AddCategory registers a category and returns its id.
func (m *Memory) AddCategory(name string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.categories[name]; ok {
		return id
	}
	id := uuid.New()
	m.categories[name] = id
	return id
}

// AddQuizPuzzle stores a puzzle, assigning ids to it and its children when
// missing. correctOptions marks option ids the grader accepts.
func (m *Memory) AddQuizPuzzle(p QuizPuzzle, correctOptions ...uuid.UUID) QuizPuzzle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Questions {
		q := &p.Questions[i]
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.PuzzleID = p.ID
		for j := range q.Options {
			if q.Options[j].ID == uuid.Nil {
				q.Options[j].ID = uuid.New()
			}
			q.Options[j].QuestionID = q.ID
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	for _, id := range correctOptions {
		m.correct[id] = true
	}
	m.quizzes = append(m.quizzes, p)
	return p
}

// MarkCorrect registers option ids the grader accepts.
func (m *Memory) MarkCorrect(ids ...uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.correct[id] = true
	}
}

func (m *Memory) QuizPuzzleByDate(_ context.Context, date string) (*QuizPuzzle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("QuizPuzzleByDate"); err != nil {
		return nil, err
	}
	for _, q := range m.quizzes {
		if q.IsActive && q.PuzzleDate != nil && q.PuzzleDate.UTC().Format(dateLayout) == date {
			cp := q
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) QuizAttempt(_ context.Context, userID, puzzleID string) (*UserQuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("QuizAttempt"); err != nil {
		return nil, err
	}
	for _, a := range m.attempts {
		if a.UserID == userID && a.PuzzleID.String() == puzzleID {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CategoryID(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CategoryID"); err != nil {
		return "", err
	}
	id, ok := m.categories[name]
	if !ok {
		return "", ErrNotFound
	}
	return id.String(), nil
}

func (m *Memory) CompletedQuizIDs(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CompletedQuizIDs"); err != nil {
		return nil, err
	}
	var ids []string
	for _, a := range m.attempts {
		if a.UserID == userID {
			ids = append(ids, a.PuzzleID.String())
		}
	}
	return ids, nil
}

func (m *Memory) PracticeCandidates(_ context.Context, categoryID string, exclude []string, limit int) ([]QuizPuzzle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("PracticeCandidates"); err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var out []QuizPuzzle
	for _, q := range m.quizzes {
		if !q.IsActive || q.CategoryID == nil || q.CategoryID.String() != categoryID || skip[q.ID.String()] {
			continue
		}
		out = append(out, q)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dateOf(out[i]).After(dateOf(out[j]))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func dateOf(q QuizPuzzle) time.Time {
	if q.PuzzleDate == nil {
		return time.Time{}
	}
	return *q.PuzzleDate
}

func (m *Memory) SubmitQuizAttempt(_ context.Context, userID, puzzleID string, answers []Answer) (*GradeRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("SubmitQuizAttempt"); err != nil {
		return nil, err
	}

	var puzzle *QuizPuzzle
	for i := range m.quizzes {
		if m.quizzes[i].ID.String() == puzzleID {
			puzzle = &m.quizzes[i]
		}
	}
	if puzzle == nil {
		return nil, ErrNotFound
	}

	chosen := make(map[string][]string, len(answers))
	for _, a := range answers {
		chosen[a.QuestionID] = a.OptionIDs
	}

	correct := 0
	for _, q := range puzzle.Questions {
		if m.gradeQuestion(q, chosen[q.ID.String()]) {
			correct++
		}
	}
	total := len(puzzle.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(correct) / float64(total)))
	}

	pid := puzzle.ID
	attempt := UserQuizAttempt{
		ID:            uuid.New(),
		UserID:        userID,
		PuzzleID:      pid,
		Score:         score,
		CorrectCount:  correct,
		QuestionCount: total,
		IsCorrect:     correct == total,
		CreatedAt:     time.Now().UTC(),
	}
	// One attempt per (user, puzzle); resubmission replaces it.
	replaced := false
	for i, a := range m.attempts {
		if a.UserID == userID && a.PuzzleID == pid {
			attempt.ID = a.ID
			m.attempts[i] = attempt
			replaced = true
		}
	}
	if !replaced {
		m.attempts = append(m.attempts, attempt)
	}

	return &GradeRow{
		AttemptID:     attempt.ID.String(),
		Score:         attempt.Score,
		CorrectCount:  attempt.CorrectCount,
		QuestionCount: attempt.QuestionCount,
		IsCorrect:     attempt.IsCorrect,
	}, nil
}

func (m *Memory) gradeQuestion(q QuizQuestion, selected []string) bool {
	want := map[string]bool{}
	for _, o := range q.Options {
		if m.correct[o.ID] {
			want[o.ID.String()] = true
		}
	}
	got := map[string]bool{}
	for _, id := range selected {
		got[id] = true
	}
	if q.GradingMode == "any_correct_without_false" {
		if len(got) == 0 {
			return false
		}
		for id := range got {
			if !want[id] {
				return false
			}
		}
		return true
	}
	if len(got) != len(want) {
		return false
	}
	for id := range want {
		if !got[id] {
			return false
		}
	}
	return true
}

func (m *Memory) TonePuzzles(_ context.Context) ([]TonePuzzle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("TonePuzzles"); err != nil {
		return nil, err
	}
	var out []TonePuzzle
	for _, p := range m.tonePuzzles {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) UpsertTonePuzzles(_ context.Context, rows []TonePuzzle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpsertTonePuzzles"); err != nil {
		return err
	}
	for _, r := range rows {
		key := r.Date.UTC().Format(dateLayout)
		if prev, ok := m.tonePuzzles[key]; ok {
			r.ID = prev.ID
		} else if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		m.tonePuzzles[key] = r
	}
	return nil
}

func (m *Memory) TonePuzzleIDs(_ context.Context, dates []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("TonePuzzleIDs"); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(dates))
	for _, d := range dates {
		if p, ok := m.tonePuzzles[d]; ok {
			out[d] = p.ID.String()
		}
	}
	return out, nil
}

func (m *Memory) UpsertToneAttempts(_ context.Context, rows []ToneAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpsertToneAttempts"); err != nil {
		return err
	}
	for _, r := range rows {
		m.toneAttempts[toneKey{r.UserID, r.PuzzleID, r.AttemptIndex}] = r
	}
	return nil
}

// ToneAttempts returns the stored attempts for a user ordered by puzzle and
// index.
func (m *Memory) ToneAttempts(userID string) []ToneAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ToneAttempt
	for k, v := range m.toneAttempts {
		if k.user == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PuzzleID != out[j].PuzzleID {
			return out[i].PuzzleID.String() < out[j].PuzzleID.String()
		}
		return out[i].AttemptIndex < out[j].AttemptIndex
	})
	return out
}

func (m *Memory) UpsertEntitlement(_ context.Context, row Entitlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpsertEntitlement"); err != nil {
		return err
	}
	row.UpdatedAt = time.Now().UTC()
	m.entitlements[[2]string{row.UserID, row.ProductID}] = row
	return nil
}

// Entitlements returns the stored entitlements for a user.
func (m *Memory) Entitlements(userID string) []Entitlement {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entitlement
	for k, v := range m.entitlements {
		if k[0] == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// SetFail sets the error returned by every call.
func (m *Memory) SetFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fail = err
}

// CallCount returns how many times method was called.
func (m *Memory) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}
