package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lexical/internal/kv"
	"lexical/internal/types"
)

// failingStorage returns a read error for every Get.
type failingStorage struct{ kv.Memory }

func (f *failingStorage) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	s := NewStore(mem)
	now := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
	return s, mem
}

func TestAddTrimsAndAppends(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	e, err := s.Add(ctx, types.Word, "  apple ", "\telma\n")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.Source != "apple" || e.Target != "elma" || e.Kind != types.Word {
		t.Errorf("Add returned %+v", e)
	}
	list := s.List(ctx)
	if len(list) != 1 || list[0] != e {
		t.Errorf("List = %+v, want [%+v]", list, e)
	}
}

func TestAddValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	cases := []struct {
		kind           types.Kind
		source, target string
	}{
		{types.Word, "", "elma"},
		{types.Word, "apple", "   "},
		{types.Idiom, " ", " "},
		{types.Kind("phrase"), "apple", "elma"},
	}
	for _, c := range cases {
		if _, err := s.Add(ctx, c.kind, c.source, c.target); !errors.Is(err, types.ErrValidation) {
			t.Errorf("Add(%q, %q, %q) err = %v, want ErrValidation", c.kind, c.source, c.target, err)
		}
	}
	if n := len(s.List(ctx)); n != 0 {
		t.Errorf("rejected adds left %d entries", n)
	}
}

func TestAddRejectsDuplicatesPerKind(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, types.Word, "Apple", "elma"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Add(ctx, types.Word, " aPPLE ", "elma 2"); !errors.Is(err, types.ErrDuplicate) {
		t.Errorf("duplicate word err = %v, want ErrDuplicate", err)
	}
	// Same source as an idiom is a different kind and is accepted.
	if _, err := s.Add(ctx, types.Idiom, "apple", "bir deyim"); err != nil {
		t.Errorf("same source with other kind: %v", err)
	}
	if n := len(s.List(ctx)); n != 2 {
		t.Errorf("List has %d entries, want 2", n)
	}
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	s, _ := newTestStore(t)
	frozen := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return frozen }
	ctx := context.Background()

	a, _ := s.Add(ctx, types.Word, "one", "bir")
	b, _ := s.Add(ctx, types.Word, "two", "iki")
	c, _ := s.Add(ctx, types.Word, "three", "üç")
	if a.ID != frozen.UnixMilli() {
		t.Errorf("first id = %d, want creation millis %d", a.ID, frozen.UnixMilli())
	}
	if b.ID == a.ID || c.ID == b.ID || c.ID == a.ID {
		t.Errorf("ids not unique: %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestUpdate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a, _ := s.Add(ctx, types.Word, "apple", "elma")
	b, _ := s.Add(ctx, types.Idiom, "break the ice", "buzları kırmak")

	got, err := s.Update(ctx, b.ID, "  Break the ice ", " ortamı yumuşatmak ")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ID != b.ID || got.Kind != types.Idiom || got.Source != "Break the ice" || got.Target != "ortamı yumuşatmak" {
		t.Errorf("Update returned %+v", got)
	}
	list := s.List(ctx)
	if list[0] != a {
		t.Errorf("untouched entry changed: %+v", list[0])
	}
	if list[1] != got {
		t.Errorf("stored entry = %+v, want %+v", list[1], got)
	}

	if _, err := s.Update(ctx, 42, "x", "y"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Update unknown id err = %v, want ErrNotFound", err)
	}
	if _, err := s.Update(ctx, a.ID, "", "y"); !errors.Is(err, types.ErrValidation) {
		t.Errorf("Update empty source err = %v, want ErrValidation", err)
	}
}

// Update does not re-apply the duplicate rule that Add enforces.
func TestUpdateAllowsDuplicateSource(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_, _ = s.Add(ctx, types.Word, "apple", "elma")
	pear, _ := s.Add(ctx, types.Word, "pear", "armut")

	if _, err := s.Update(ctx, pear.ID, "APPLE", "elma"); err != nil {
		t.Fatalf("Update to an existing source: %v", err)
	}
	list := s.List(ctx)
	if list[0].Source != "apple" || list[1].Source != "APPLE" {
		t.Errorf("List = %+v", list)
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a, _ := s.Add(ctx, types.Word, "apple", "elma")
	b, _ := s.Add(ctx, types.Word, "pear", "armut")

	if err := s.Remove(ctx, 12345); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Remove unknown err = %v, want ErrNotFound", err)
	}
	if n := len(s.List(ctx)); n != 2 {
		t.Fatalf("failed Remove changed the collection: %d entries", n)
	}
	if err := s.Remove(ctx, a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list := s.List(ctx)
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("List after Remove = %+v", list)
	}
	if _, err := s.Get(ctx, a.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Get removed id err = %v, want ErrNotFound", err)
	}
}

func TestCountByKind(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_, _ = s.Add(ctx, types.Word, "apple", "elma")
	_, _ = s.Add(ctx, types.Word, "pear", "armut")
	_, _ = s.Add(ctx, types.Idiom, "break the ice", "buzları kırmak")

	got := s.CountByKind(ctx)
	if got != (types.Counts{Words: 2, Idioms: 1}) {
		t.Errorf("CountByKind = %+v", got)
	}
	if len(s.Words(ctx)) != 2 || len(s.Idioms(ctx)) != 1 {
		t.Errorf("Words/Idioms split wrong")
	}
}

func TestPersistedShape(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	e, _ := s.Add(ctx, types.Idiom, "break the ice", "buzları kırmak")

	raw, err := mem.Get(ctx, StorageKey)
	if err != nil {
		t.Fatalf("nothing persisted under %s: %v", StorageKey, err)
	}
	var stored []map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("persisted value is not a JSON array: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d items", len(stored))
	}
	item := stored[0]
	if item["english"] != "break the ice" || item["turkish"] != "buzları kırmak" || item["type"] != "idiom" {
		t.Errorf("stored item = %v", item)
	}
	if id, _ := item["id"].(float64); int64(id) != e.ID {
		t.Errorf("stored id = %v, want %d", item["id"], e.ID)
	}
}

func TestListFailsSoft(t *testing.T) {
	ctx := context.Background()

	mem := kv.NewMemory()
	_ = mem.Set(ctx, StorageKey, []byte("{not json"))
	if got := NewStore(mem).List(ctx); len(got) != 0 {
		t.Errorf("corrupt data: List = %+v, want empty", got)
	}

	if got := NewStore(&failingStorage{}).List(ctx); len(got) != 0 {
		t.Errorf("read error: List = %+v, want empty", got)
	}
}

func TestAddOverCorruptDataStartsFresh(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_ = mem.Set(ctx, StorageKey, []byte("garbage"))
	s := NewStore(mem)

	if _, err := s.Add(ctx, types.Word, "apple", "elma"); err != nil {
		t.Fatalf("Add over corrupt data: %v", err)
	}
	if n := len(s.List(ctx)); n != 1 {
		t.Errorf("List has %d entries, want 1", n)
	}
}

func TestMutationsAbortOnReadError(t *testing.T) {
	s := NewStore(&failingStorage{})
	ctx := context.Background()
	if _, err := s.Add(ctx, types.Word, "apple", "elma"); err == nil {
		t.Error("Add should fail when storage is unreadable")
	}
	if err := s.Remove(ctx, 1); err == nil || errors.Is(err, types.ErrNotFound) {
		t.Errorf("Remove err = %v, want storage error", err)
	}
}

func TestLegacyEntriesWithoutType(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_ = mem.Set(ctx, StorageKey, []byte(`[{"english":"apple","turkish":"elma","id":1}]`))
	s := NewStore(mem)

	list := s.List(ctx)
	if len(list) != 1 || list[0].Kind != types.Word {
		t.Fatalf("List = %+v, want one word", list)
	}
	if _, err := s.Add(ctx, types.Word, "APPLE", "elma"); !errors.Is(err, types.ErrDuplicate) {
		t.Errorf("legacy word should block duplicate, err = %v", err)
	}
}

func TestStoreOnFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fileKV, err := kv.NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	e, err := NewStore(fileKV).Add(ctx, types.Word, "apple", "elma")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	reopened, _ := kv.NewFile(dir)
	list := NewStore(reopened).List(ctx)
	if len(list) != 1 || list[0] != e {
		t.Errorf("reopened List = %+v, want [%+v]", list, e)
	}
}
