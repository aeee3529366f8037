// Package speculative tracks local mutations applied ahead of remote
// confirmation so they can be committed or rolled back independently.
package speculative

// Mutation derives a new value from the current one. Mutations must not
// modify their input in place.
type Mutation[T any] func(T) T

// Token identifies one pending mutation.
type Token uint64

type pending[T any] struct {
	token Token
	apply Mutation[T]
}

// Ledger holds a confirmed base value and an ordered list of pending
// mutations. The visible value is the base with every pending mutation
// applied in order. A Ledger is not safe for concurrent use; it is owned
// by the single goroutine that drives the UI.
type Ledger[T any] struct {
	base    T
	pending []pending[T]
	next    Token
	value   T
}

// NewLedger creates a ledger whose confirmed value is base.
func NewLedger[T any](base T) *Ledger[T] {
	return &Ledger[T]{base: base, value: base}
}

// Value returns the visible value.
func (l *Ledger[T]) Value() T {
	return l.value
}

// Pending returns the number of mutations awaiting confirmation.
func (l *Ledger[T]) Pending() int {
	return len(l.pending)
}

// Apply records m as pending and applies it to the visible value.
func (l *Ledger[T]) Apply(m Mutation[T]) Token {
	l.next++
	tok := l.next
	l.pending = append(l.pending, pending[T]{token: tok, apply: m})
	l.value = m(l.value)
	return tok
}

// Commit folds the mutation identified by tok into the base. If confirmed
// is non-nil it is applied to the base instead of the original mutation,
// letting the remote result overwrite the speculative one. Unknown tokens
// are ignored.
func (l *Ledger[T]) Commit(tok Token, confirmed Mutation[T]) {
	i := l.indexOf(tok)
	if i < 0 {
		return
	}
	m := l.pending[i].apply
	if confirmed != nil {
		m = confirmed
	}
	l.base = m(l.base)
	l.pending = append(l.pending[:i:i], l.pending[i+1:]...)
	l.recompute()
}

// Rollback discards the mutation identified by tok. When it is the only
// pending mutation the visible value becomes exactly the value it had
// before Apply. Unknown tokens are ignored.
func (l *Ledger[T]) Rollback(tok Token) {
	i := l.indexOf(tok)
	if i < 0 {
		return
	}
	l.pending = append(l.pending[:i:i], l.pending[i+1:]...)
	l.recompute()
}

// Reset replaces the confirmed value, keeping pending mutations applied
// on top of it.
func (l *Ledger[T]) Reset(base T) {
	l.base = base
	l.recompute()
}

func (l *Ledger[T]) indexOf(tok Token) int {
	for i := range l.pending {
		if l.pending[i].token == tok {
			return i
		}
	}
	return -1
}

func (l *Ledger[T]) recompute() {
	v := l.base
	for _, p := range l.pending {
		v = p.apply(v)
	}
	l.value = v
}
