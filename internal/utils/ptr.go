package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// TrimmedOrNil trims s and returns nil when nothing is left, for optional text columns.
func TrimmedOrNil(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
