package exam

import (
	"slices"

	"lexical/internal/types"
)

// Questions returns the sampled entries in question order.
func (r *Runner) Questions() []types.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.questions)
}
