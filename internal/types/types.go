package types

import "fmt"

// Kind discriminates between single words and idioms.
type Kind string

const (
	Word  Kind = "word"
	Idiom Kind = "idiom"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == Word || k == Idiom
}

// ParseKind maps user input to a Kind. The empty string yields "" so callers
// can treat it as "no filter".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", Word, Idiom:
		return Kind(s), nil
	case "words":
		return Word, nil
	case "idioms":
		return Idiom, nil
	}
	return "", fmt.Errorf("unknown kind %q: %w", s, ErrValidation)
}

// Entry is one vocabulary item. The JSON shape matches the collection
// persisted under the "englishWords" key.
type Entry struct {
	Source string `json:"english"`
	Target string `json:"turkish"`
	Kind   Kind   `json:"type"`
	ID     int64  `json:"id"`
}

// Counts is the per-kind size of the collection.
type Counts struct {
	Words  int `json:"words"`
	Idioms int `json:"idioms"`
}

// GameMinIdioms is the number of idioms a matching game needs.
const GameMinIdioms = 10

// GameAvailable reports whether enough idioms exist to start a matching game.
func (c Counts) GameAvailable() bool {
	return c.Idioms >= GameMinIdioms
}

func (c Counts) String() string {
	return fmt.Sprintf("(%d words, %d idioms)", c.Words, c.Idioms)
}
