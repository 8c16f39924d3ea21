package optional

import "fmt"

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

// Value returns the held value, or the zero value of T when absent.
func (self Optional[T]) Value() T {
	return self.value
}

// Get returns the held value and whether it is present.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

// ValueOr returns the held value or def when absent.
func (self Optional[T]) ValueOr(def T) T {
	if !self.present {
		return def
	}
	return self.value
}

func (self Optional[T]) String() string {
	if !self.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", self.value)
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Map applies f to the held value, if any.
func Map[T any, U any](o Optional[T], f func(T) U) Optional[U] {
	if !o.present {
		return None[U]()
	}
	return Some(f(o.value))
}
