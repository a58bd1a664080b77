// Package vocab owns the vocabulary collection and the read-only catalog
// views over it.
package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"lexical/internal/kv"
	"lexical/internal/logging"
	"lexical/internal/types"
)

// StorageKey is the key the whole collection is persisted under.
const StorageKey = "englishWords"

// Store is the ordered collection of entries. Each mutation reads the stored
// collection, changes it and writes it back in full while holding mu.
type Store struct {
	storage kv.Storage
	mu      sync.Mutex
	now     func() time.Time
}

func NewStore(storage kv.Storage) *Store {
	return &Store{storage: storage, now: time.Now}
}

// List returns the collection in stored order. Missing or unreadable data is
// reported as an empty collection.
func (s *Store) List(ctx context.Context) []types.Entry {
	entries, err := s.load(ctx)
	if err != nil {
		logging.WarnCtx(ctx, "Failed to read vocabulary, treating as empty: %v", err)
		return []types.Entry{}
	}
	return entries
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id int64) (types.Entry, error) {
	entry, ok := lo.Find(s.List(ctx), func(e types.Entry) bool { return e.ID == id })
	if !ok {
		return types.Entry{}, fmt.Errorf("entry %d: %w", id, types.ErrNotFound)
	}
	return entry, nil
}

// Add appends a new entry after trimming and validating its fields.
func (s *Store) Add(ctx context.Context, kind types.Kind, source, target string) (types.Entry, error) {
	if !kind.Valid() {
		return types.Entry{}, fmt.Errorf("kind %q: %w", kind, types.ErrValidation)
	}
	source, target, err := trimFields(source, target)
	if err != nil {
		return types.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite(ctx)
	if err != nil {
		return types.Entry{}, err
	}
	if hasSource(entries, kind, source) {
		return types.Entry{}, fmt.Errorf("%s %q: %w", kind, source, types.ErrDuplicate)
	}

	entry := types.Entry{
		ID:     s.nextID(entries),
		Source: source,
		Target: target,
		Kind:   kind,
	}
	entries = append(entries, entry)
	if err := s.save(ctx, entries); err != nil {
		return types.Entry{}, err
	}
	logging.InfoCtx(ctx, "Added %s %q (id %d)", kind, source, entry.ID)
	return entry, nil
}

// Update replaces source and target of an existing entry. Unlike Add it does
// not check the new source against other entries.
func (s *Store) Update(ctx context.Context, id int64, source, target string) (types.Entry, error) {
	source, target, err := trimFields(source, target)
	if err != nil {
		return types.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite(ctx)
	if err != nil {
		return types.Entry{}, err
	}
	_, idx, ok := lo.FindIndexOf(entries, func(e types.Entry) bool { return e.ID == id })
	if !ok {
		return types.Entry{}, fmt.Errorf("entry %d: %w", id, types.ErrNotFound)
	}
	entries[idx].Source = source
	entries[idx].Target = target
	if err := s.save(ctx, entries); err != nil {
		return types.Entry{}, err
	}
	logging.InfoCtx(ctx, "Updated %s %d to %q", entries[idx].Kind, id, source)
	return entries[idx], nil
}

// Remove deletes the entry with the given id.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	kept := lo.Reject(entries, func(e types.Entry, _ int) bool { return e.ID == id })
	if len(kept) == len(entries) {
		return fmt.Errorf("entry %d: %w", id, types.ErrNotFound)
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}
	logging.InfoCtx(ctx, "Removed entry %d", id)
	return nil
}

// CountByKind counts the stored entries per kind.
func (s *Store) CountByKind(ctx context.Context) types.Counts {
	entries := s.List(ctx)
	return types.Counts{
		Words:  lo.CountBy(entries, func(e types.Entry) bool { return e.Kind == types.Word }),
		Idioms: lo.CountBy(entries, func(e types.Entry) bool { return e.Kind == types.Idiom }),
	}
}

// Words returns the stored entries of kind Word.
func (s *Store) Words(ctx context.Context) []types.Entry {
	return FilterByKind(s.List(ctx), types.Word)
}

// Idioms returns the stored entries of kind Idiom.
func (s *Store) Idioms(ctx context.Context) []types.Entry {
	return FilterByKind(s.List(ctx), types.Idiom)
}

func (s *Store) load(ctx context.Context) ([]types.Entry, error) {
	data, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []types.Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// loadForWrite is load for the mutation paths: corrupt data still counts as
// empty, but an unreachable storage aborts the mutation.
func (s *Store) loadForWrite(ctx context.Context) ([]types.Entry, error) {
	data, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []types.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	entries, err := decode(data)
	if err != nil {
		logging.WarnCtx(ctx, "Stored vocabulary is unparseable, starting from empty: %v", err)
		return []types.Entry{}, nil
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []types.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("persist vocabulary: %w", err)
	}
	return nil
}

// nextID uses the creation time in milliseconds, bumped past the largest
// existing id when two entries are created within the same millisecond.
func (s *Store) nextID(entries []types.Entry) int64 {
	id := s.now().UnixMilli()
	if len(entries) > 0 {
		maxID := lo.MaxBy(entries, func(a, b types.Entry) bool { return a.ID > b.ID }).ID
		if id <= maxID {
			id = maxID + 1
		}
	}
	return id
}

func decode(data []byte) ([]types.Entry, error) {
	var entries []types.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	for i := range entries {
		if entries[i].Kind == "" {
			entries[i].Kind = types.Word
		}
	}
	return entries, nil
}

func trimFields(source, target string) (string, string, error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if source == "" || target == "" {
		return "", "", fmt.Errorf("both fields are required: %w", types.ErrValidation)
	}
	return source, target, nil
}

func hasSource(entries []types.Entry, kind types.Kind, source string) bool {
	want := Normalize(source)
	return lo.ContainsBy(entries, func(e types.Entry) bool {
		return e.Kind == kind && Normalize(e.Source) == want
	})
}
