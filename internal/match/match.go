// Package match runs the idiom matching game: two columns, one with idioms
// and one with their meanings, each shuffled independently. The player pairs
// them up one selection at a time.
package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/samber/lo"

	"lexical/internal/sample"
	"lexical/internal/types"
	"lexical/internal/vocab"
)

// PairCount is the number of idioms in a game.
const PairCount = types.GameMinIdioms

// DefaultTickInterval is used by Ticks when given a non-positive interval.
const DefaultTickInterval = time.Second

// ErrNotRunning is returned by operations that need a running game.
var ErrNotRunning = errors.New("no game in progress")

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

// Side names a column of the board.
type Side int

const (
	IdiomSide Side = iota
	MeaningSide
)

// ParseSide maps "idiom"/"meaning" to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "idiom":
		return IdiomSide, nil
	case "meaning":
		return MeaningSide, nil
	}
	return 0, fmt.Errorf("unknown side %q: %w", s, types.ErrValidation)
}

type Outcome int

const (
	// Pending means only one column has a selection.
	Pending Outcome = iota
	// Ignored means the selected slot was already matched.
	Ignored
	Match
	Mismatch
)

func (o Outcome) String() string {
	return [...]string{"pending", "ignored", "match", "mismatch"}[o]
}

// Slot is one tile on the board.
type Slot struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
	Matched  bool   `json:"matched"`
}

// Board is a snapshot of a game for rendering.
type Board struct {
	State    State         `json:"-"`
	Idioms   []Slot        `json:"idioms"`
	Meanings []Slot        `json:"meanings"`
	Matched  int           `json:"matched"`
	Total    int           `json:"total"`
	Elapsed  time.Duration `json:"-"`
}

// Result describes what a selection did.
type Result struct {
	Outcome   Outcome
	IdiomID   int64 // set for Match and Mismatch
	MeaningID int64 // set for Match and Mismatch
	Matched   int
	Finished  bool
	Elapsed   time.Duration // set when Finished
}

// Runner is one game session. Use New.
type Runner struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock func() time.Time

	state    State
	idioms   []types.Entry
	meanings []types.Entry
	matched  map[int64]bool
	selIdiom *int64
	selMean  *int64
	count    int
	started  time.Time
	ended    time.Time
	done     chan struct{}
}

func New(rng *rand.Rand, clock func() time.Time) *Runner {
	if rng == nil {
		rng = sample.NewSource()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Runner{rng: rng, clock: clock}
}

// Start samples PairCount idioms and lays out both columns. Non-idiom entries
// are ignored. With too few idioms the runner is left as it was.
func (r *Runner) Start(entries []types.Entry) error {
	idioms := vocab.FilterByKind(entries, types.Idiom)
	if len(idioms) < PairCount {
		return fmt.Errorf("need %d idioms, have %d: %w", PairCount, len(idioms), types.ErrInsufficientData)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTicksLocked()
	picked := sample.Take(r.rng, idioms, PairCount)
	r.idioms = picked
	r.meanings = sample.Shuffle(r.rng, picked)
	r.matched = make(map[int64]bool, PairCount)
	r.selIdiom, r.selMean = nil, nil
	r.count = 0
	r.started = r.clock()
	r.ended = time.Time{}
	r.done = make(chan struct{})
	r.state = Running
	return nil
}

// SelectIdiom selects the idiom tile bound to id.
func (r *Runner) SelectIdiom(id int64) (Result, error) {
	return r.selectSlot(IdiomSide, id)
}

// SelectMeaning selects the meaning tile bound to id.
func (r *Runner) SelectMeaning(id int64) (Result, error) {
	return r.selectSlot(MeaningSide, id)
}

// Select dispatches to SelectIdiom or SelectMeaning.
func (r *Runner) Select(side Side, id int64) (Result, error) {
	return r.selectSlot(side, id)
}

func (r *Runner) selectSlot(side Side, id int64) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running {
		return Result{}, ErrNotRunning
	}
	if !lo.ContainsBy(r.idioms, func(e types.Entry) bool { return e.ID == id }) {
		return Result{}, fmt.Errorf("slot %d: %w", id, types.ErrNotFound)
	}
	if r.matched[id] {
		return Result{Outcome: Ignored, Matched: r.count}, nil
	}

	sel := id
	if side == IdiomSide {
		r.selIdiom = &sel
	} else {
		r.selMean = &sel
	}
	if r.selIdiom == nil || r.selMean == nil {
		return Result{Outcome: Pending, Matched: r.count}, nil
	}
	return r.checkPairLocked(), nil
}

// checkPairLocked compares both selections and clears them either way.
func (r *Runner) checkPairLocked() Result {
	idiomID, meaningID := *r.selIdiom, *r.selMean
	r.selIdiom, r.selMean = nil, nil

	if idiomID != meaningID {
		return Result{Outcome: Mismatch, IdiomID: idiomID, MeaningID: meaningID, Matched: r.count}
	}

	r.matched[idiomID] = true
	r.count++
	res := Result{Outcome: Match, IdiomID: idiomID, MeaningID: meaningID, Matched: r.count}
	if r.count == PairCount {
		r.state = Finished
		r.ended = r.clock()
		r.stopTicksLocked()
		res.Finished = true
		res.Elapsed = r.elapsedLocked()
	}
	return res
}

// Elapsed is the time since Start, frozen once the game is finished.
func (r *Runner) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsedLocked()
}

func (r *Runner) elapsedLocked() time.Duration {
	switch r.state {
	case Running:
		return max(r.clock().Sub(r.started), 0)
	case Finished:
		return max(r.ended.Sub(r.started), 0)
	}
	return 0
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Board returns a snapshot of both columns.
func (r *Runner) Board() Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := Board{
		State:   r.state,
		Matched: r.count,
		Total:   PairCount,
		Elapsed: r.elapsedLocked(),
	}
	if r.state == Idle {
		return b
	}
	b.Idioms = lo.Map(r.idioms, func(e types.Entry, _ int) Slot {
		return Slot{ID: e.ID, Text: e.Source, Matched: r.matched[e.ID], Selected: isSelected(r.selIdiom, e.ID)}
	})
	b.Meanings = lo.Map(r.meanings, func(e types.Entry, _ int) Slot {
		return Slot{ID: e.ID, Text: e.Target, Matched: r.matched[e.ID], Selected: isSelected(r.selMean, e.ID)}
	})
	return b
}

func isSelected(sel *int64, id int64) bool {
	return sel != nil && *sel == id
}

// Ticks reports the elapsed time every interval until ctx is done or the game
// finishes, is abandoned or restarted; then the channel is closed. Slow
// readers miss ticks rather than block the game. A non-positive every means
// DefaultTickInterval.
func (r *Runner) Ticks(ctx context.Context, every time.Duration) <-chan time.Duration {
	if every <= 0 {
		every = DefaultTickInterval
	}
	out := make(chan time.Duration, 1)

	r.mu.Lock()
	done := r.done
	running := r.state == Running
	r.mu.Unlock()
	if !running || done == nil {
		close(out)
		return out
	}

	go func() {
		defer close(out)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				select {
				case out <- r.Elapsed():
				default:
				}
			}
		}
	}()
	return out
}

// Abandon stops ticking and discards the game. The vocabulary is untouched.
func (r *Runner) Abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTicksLocked()
	r.state = Idle
	r.idioms, r.meanings = nil, nil
	r.matched = nil
	r.selIdiom, r.selMean = nil, nil
	r.count = 0
}

func (r *Runner) stopTicksLocked() {
	if r.done != nil {
		close(r.done)
		r.done = nil
	}
}
