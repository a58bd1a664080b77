// Package exam runs translation recall sessions: the user is shown the
// Turkish side of a word and must type the English side.
package exam

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"lexical/internal/sample"
	"lexical/internal/types"
	"lexical/internal/vocab"
)

// Size is the number of questions in a session.
const Size = 30

// ErrNotRunning is returned by operations that need a running session.
var ErrNotRunning = errors.New("no exam in progress")

type State int

const (
	Idle State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

type Outcome int

const (
	Incorrect Outcome = iota
	Correct
)

func (o Outcome) String() string {
	if o == Correct {
		return "correct"
	}
	return "incorrect"
}

// Result describes what an answer did to the session.
type Result struct {
	Outcome  Outcome
	Cursor   int  // questions answered correctly so far
	Finished bool // the answer completed the session
	Score    int  // correct answers, meaningful once Finished
}

// Runner is one exam session. The zero value is not usable; use New.
type Runner struct {
	mu        sync.Mutex
	rng       *rand.Rand
	state     State
	questions []types.Entry
	cursor    int
	correct   int
}

func New(rng *rand.Rand) *Runner {
	if rng == nil {
		rng = sample.NewSource()
	}
	return &Runner{rng: rng}
}

// Start samples Size distinct words from entries and begins a new session.
// Non-word entries are ignored. With too few words the runner is left as it was.
func (r *Runner) Start(entries []types.Entry) error {
	words := vocab.FilterByKind(entries, types.Word)
	if len(words) < Size {
		return fmt.Errorf("need %d words, have %d: %w", Size, len(words), types.ErrInsufficientData)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions = sample.Take(r.rng, words, Size)
	r.cursor = 0
	r.correct = 0
	r.state = Running
	return nil
}

// CurrentPrompt returns the Turkish side of the current question.
func (r *Runner) CurrentPrompt() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running {
		return "", ErrNotRunning
	}
	return r.questions[r.cursor].Target, nil
}

// SubmitAnswer checks text against the English side of the current question.
// A wrong answer leaves the cursor where it is, so the question repeats.
func (r *Runner) SubmitAnswer(text string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running {
		return Result{}, ErrNotRunning
	}

	if vocab.Normalize(text) != vocab.Normalize(r.questions[r.cursor].Source) {
		return Result{Outcome: Incorrect, Cursor: r.cursor, Score: r.correct}, nil
	}

	r.correct++
	r.cursor++
	res := Result{Outcome: Correct, Cursor: r.cursor, Score: r.correct}
	if r.cursor == len(r.questions) {
		r.state = Finished
		res.Finished = true
	}
	return res, nil
}

// Progress returns the cursor and the session length.
func (r *Runner) Progress() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor, Size
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Score is the number of correct answers so far.
func (r *Runner) Score() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.correct
}

// Passed reports whether a finished session has every answer correct.
func (r *Runner) Passed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == Finished && r.correct == Size
}

// Abandon discards the session and returns the runner to Idle.
func (r *Runner) Abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Idle
	r.questions = nil
	r.cursor = 0
	r.correct = 0
}
