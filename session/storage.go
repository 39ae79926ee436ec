package session

// Storage persists small string values across console runs. The session
// store uses it solely for the bearer token.
type Storage interface {
	// Get retrieves a value by key, reporting whether it was present.
	Get(key string) (string, bool)

	// Set stores a value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes the value under key. Removing an absent key is not an error.
	Remove(key string) error
}
