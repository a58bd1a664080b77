package match

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"lexical/internal/sample"
	"lexical/internal/types"
)

// fakeClock advances only when told to.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func makeIdioms(n int) []types.Entry {
	idioms := make([]types.Entry, n)
	for i := range idioms {
		idioms[i] = types.Entry{
			ID:     int64(1000 + i),
			Source: fmt.Sprintf("idiom %d", i),
			Target: fmt.Sprintf("anlam %d", i),
			Kind:   types.Idiom,
		}
	}
	return idioms
}

func slotIDs(slots []Slot) []int64 {
	out := make([]int64, len(slots))
	for i, s := range slots {
		out[i] = s.ID
	}
	return out
}

func startedRunner(t *testing.T, seed uint64) (*Runner, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	r := New(sample.Seeded(seed), clock.Now)
	if err := r.Start(makeIdioms(15)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return r, clock
}

func TestStartNeedsTenIdioms(t *testing.T) {
	r := New(sample.Seeded(1), nil)
	entries := append(makeIdioms(9), types.Entry{ID: 1, Source: "apple", Target: "elma", Kind: types.Word})
	if err := r.Start(entries); !errors.Is(err, types.ErrInsufficientData) {
		t.Fatalf("Start(9 idioms) err = %v, want ErrInsufficientData", err)
	}
	if r.State() != Idle {
		t.Errorf("state = %v, want idle", r.State())
	}
	if err := r.Start(makeIdioms(10)); err != nil {
		t.Fatalf("Start(10): %v", err)
	}
	if r.State() != Running {
		t.Errorf("state = %v, want running", r.State())
	}
}

func TestColumnsArePermutationsOfSameSample(t *testing.T) {
	r := New(sample.Seeded(2), nil)
	_ = r.Start(makeIdioms(10))
	b := r.Board()

	idioms, meanings := slotIDs(b.Idioms), slotIDs(b.Meanings)
	if len(idioms) != PairCount || len(meanings) != PairCount {
		t.Fatalf("columns have %d and %d slots", len(idioms), len(meanings))
	}
	sortedI, sortedM := slices.Clone(idioms), slices.Clone(meanings)
	slices.Sort(sortedI)
	slices.Sort(sortedM)
	if !slices.Equal(sortedI, sortedM) {
		t.Errorf("columns hold different ids: %v vs %v", sortedI, sortedM)
	}
	if len(slices.Compact(slices.Clone(sortedI))) != PairCount {
		t.Errorf("duplicate ids in sample: %v", sortedI)
	}
	for _, s := range b.Idioms {
		if s.Selected || s.Matched {
			t.Errorf("fresh slot %+v should be unselected", s)
		}
	}
	if b.Meanings[0].Text == b.Idioms[0].Text {
		t.Errorf("meaning column shows idiom text")
	}
}

func TestMatchingPair(t *testing.T) {
	r, _ := startedRunner(t, 3)
	id := r.Board().Idioms[0].ID

	res, err := r.SelectIdiom(id)
	if err != nil || res.Outcome != Pending {
		t.Fatalf("first selection = %+v, %v; want pending", res, err)
	}
	if !r.Board().Idioms[0].Selected {
		t.Error("idiom slot should show as selected")
	}
	res, err = r.SelectMeaning(id)
	if err != nil {
		t.Fatalf("SelectMeaning: %v", err)
	}
	if res.Outcome != Match || res.Matched != 1 {
		t.Errorf("result = %+v, want match with count 1", res)
	}

	b := r.Board()
	for _, s := range append(b.Idioms, b.Meanings...) {
		if s.ID == id && (!s.Matched || s.Selected) {
			t.Errorf("slot %+v should be matched and unselected", s)
		}
	}
	res, _ = r.SelectIdiom(id)
	if res.Outcome != Ignored || res.Matched != 1 {
		t.Errorf("reselecting matched slot = %+v, want ignored", res)
	}
	res, _ = r.SelectMeaning(id)
	if res.Outcome != Ignored {
		t.Errorf("reselecting matched meaning = %+v, want ignored", res)
	}
}

func TestMismatchClearsSelections(t *testing.T) {
	r, _ := startedRunner(t, 4)
	b := r.Board()
	a, other := b.Idioms[0].ID, b.Idioms[1].ID

	_, _ = r.SelectMeaning(other)
	res, err := r.SelectIdiom(a)
	if err != nil {
		t.Fatalf("SelectIdiom: %v", err)
	}
	if res.Outcome != Mismatch || res.IdiomID != a || res.MeaningID != other || res.Matched != 0 {
		t.Errorf("result = %+v", res)
	}
	b = r.Board()
	for _, s := range append(b.Idioms, b.Meanings...) {
		if s.Selected || s.Matched {
			t.Errorf("slot %+v should be back to unselected", s)
		}
	}
}

func TestReselectReplacesColumnSelection(t *testing.T) {
	r, _ := startedRunner(t, 5)
	b := r.Board()
	first, second := b.Idioms[0].ID, b.Idioms[1].ID

	_, _ = r.SelectIdiom(first)
	_, _ = r.SelectIdiom(second)
	b = r.Board()
	if b.Idioms[0].Selected || !b.Idioms[1].Selected {
		t.Errorf("selection not replaced: %+v", b.Idioms[:2])
	}
	res, _ := r.SelectMeaning(second)
	if res.Outcome != Match || res.IdiomID != second {
		t.Errorf("result = %+v, want match on %d", res, second)
	}
}

func TestTenMatchesFinish(t *testing.T) {
	r, clock := startedRunner(t, 6)
	ids := slotIDs(r.Board().Idioms)

	var res Result
	for i, id := range ids {
		clock.Advance(2 * time.Second)
		_, _ = r.SelectIdiom(id)
		res, _ = r.SelectMeaning(id)
		if res.Outcome != Match {
			t.Fatalf("pair %d: %+v", i, res)
		}
		if res.Finished != (i == PairCount-1) {
			t.Fatalf("pair %d: Finished = %v", i, res.Finished)
		}
	}
	if r.State() != Finished || r.Matched() != PairCount {
		t.Errorf("state %v matched %d", r.State(), r.Matched())
	}
	if res.Elapsed != 20*time.Second {
		t.Errorf("elapsed = %v, want 20s", res.Elapsed)
	}
	clock.Advance(time.Minute)
	if r.Elapsed() != 20*time.Second {
		t.Errorf("elapsed kept running after finish: %v", r.Elapsed())
	}
	if _, err := r.SelectIdiom(ids[0]); !errors.Is(err, ErrNotRunning) {
		t.Errorf("select after finish err = %v, want ErrNotRunning", err)
	}
}

func TestSelectErrors(t *testing.T) {
	r := New(sample.Seeded(7), nil)
	if _, err := r.SelectIdiom(1); !errors.Is(err, ErrNotRunning) {
		t.Errorf("idle select err = %v", err)
	}
	_ = r.Start(makeIdioms(10))
	if _, err := r.SelectMeaning(42); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown slot err = %v, want ErrNotFound", err)
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide("idiom"); err != nil || s != IdiomSide {
		t.Errorf("ParseSide(idiom) = %v, %v", s, err)
	}
	if s, err := ParseSide("meaning"); err != nil || s != MeaningSide {
		t.Errorf("ParseSide(meaning) = %v, %v", s, err)
	}
	if _, err := ParseSide("left"); !errors.Is(err, types.ErrValidation) {
		t.Errorf("ParseSide(left) err = %v", err)
	}
}

func TestElapsedWhileRunning(t *testing.T) {
	r, clock := startedRunner(t, 8)
	clock.Advance(1500 * time.Millisecond)
	if got := r.Elapsed(); got != 1500*time.Millisecond {
		t.Errorf("Elapsed = %v", got)
	}
}

func waitClosed(t *testing.T, ch <-chan time.Duration) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("tick channel was not closed")
		}
	}
}

func TestTicksStopOnAbandon(t *testing.T) {
	r, _ := startedRunner(t, 9)
	ticks := r.Ticks(context.Background(), 5*time.Millisecond)

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick received")
	}
	r.Abandon()
	waitClosed(t, ticks)
	if r.State() != Idle {
		t.Errorf("state after abandon = %v", r.State())
	}
	select {
	case <-r.Done():
	default:
		t.Error("Done should be closed after abandon")
	}
}

func TestTicksStopOnFinishAndContext(t *testing.T) {
	r, _ := startedRunner(t, 10)
	ticks := r.Ticks(context.Background(), time.Hour)
	for _, id := range slotIDs(r.Board().Idioms) {
		_, _ = r.SelectIdiom(id)
		_, _ = r.SelectMeaning(id)
	}
	waitClosed(t, ticks)

	r2, _ := startedRunner(t, 11)
	ctx, cancel := context.WithCancel(context.Background())
	ticks = r2.Ticks(ctx, time.Hour)
	cancel()
	waitClosed(t, ticks)

	if _, ok := <-New(nil, nil).Ticks(context.Background(), time.Millisecond); ok {
		t.Error("idle runner should return a closed channel")
	}
}

func TestRestartStopsOldTicks(t *testing.T) {
	r, _ := startedRunner(t, 12)
	old := r.Ticks(context.Background(), time.Hour)
	if err := r.Start(makeIdioms(12)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	waitClosed(t, old)
	if r.Matched() != 0 || r.State() != Running {
		t.Errorf("restart left matched=%d state=%v", r.Matched(), r.State())
	}
}

func TestTicksNonPositiveIntervalUsesDefault(t *testing.T) {
	for _, every := range []time.Duration{0, -time.Second} {
		r, _ := startedRunner(t, 13)
		ctx, cancel := context.WithCancel(context.Background())
		ticks := r.Ticks(ctx, every)
		select {
		case <-ticks:
		case <-time.After(3 * DefaultTickInterval):
			t.Fatalf("Ticks(%v) produced no tick", every)
		}
		cancel()
		waitClosed(t, ticks)
	}
}
