package utils

// ToStringSlice keeps the string members of a decoded JSON array and drops
// everything else.
func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0)
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

func Ptr[T any](v T) *T {
	return &v
}
