package utils

// ToStringSlice converts a slice of any (e.g. decoded JSON or JWT claim
// arrays) to a slice of strings, skipping non-string members.
func ToStringSlice(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Value dereferences a pointer, returning the zero value for nil.
func Value[T any](ptr *T) T {
	var zero T
	if ptr == nil {
		return zero
	}
	return *ptr
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
