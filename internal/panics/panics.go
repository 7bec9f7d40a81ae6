// Package panics converts internal invariant violations into ordinary
// recoverable errors at stage boundaries, so a fault deep inside decoding or
// graph building never terminates the process.
package panics

import "fmt"

// Catch runs fn and converts any panic into an error on the normal channel.
func Catch[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			if e, ok := r.(error); ok {
				err = fmt.Errorf("internal fault: %w", e)
			} else {
				err = fmt.Errorf("internal fault: %v", r)
			}
		}
	}()
	return fn()
}
