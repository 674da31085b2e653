// Package stdx holds the odd generic helper that has no better home.
package stdx

// Must1 unwraps a (value, error) pair, panicking when the error is set. For
// initialization that cannot reasonably fail at runtime, like building a
// terminal renderer from compiled-in styles.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
