package dataset

import "fmt"

// Opt is an optional value. Per-row predicate results use Opt[bool]: a
// missing value means the input row was null (or the operation does not apply
// to the column type), which is distinct from an explicit false.
type Opt[T any] struct {
	Value T
	Valid bool
}

// Some wraps v as a present value.
func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Valid: true} }

// None returns an absent value.
func None[T any]() Opt[T] { return Opt[T]{} }

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) { return o.Value, o.Valid }

// String renders the value, or "null" when absent.
func (o Opt[T]) String() string {
	if !o.Valid {
		return "null"
	}
	return fmt.Sprint(o.Value)
}

// IsTrue reports whether o holds an explicit true.
func IsTrue(o Opt[bool]) bool { return o.Valid && o.Value }

func allNone[T any](n int) []Opt[T] { return make([]Opt[T], n) }
