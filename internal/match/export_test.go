package match

// Matched is the number of pairs found so far.
func (r *Runner) Matched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Done is closed when the current game finishes or is abandoned.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return r.done
}
