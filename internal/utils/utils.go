// Package utils holds small helpers with no better home.
package utils

// Ptr returns a pointer to v, for literals and optional fields.
func Ptr[T any](v T) *T {
	return &v
}
