// Package scope holds the project context attached to outbound API requests.
package scope

import "sync"

// None is the empty project ID, meaning requests run in the admin/global
// context and must carry no project-scope header.
const None = ""

// Store is the single slot for the currently selected project ID.
// Last write wins. The zero value is ready to use with no scope set.
type Store struct {
	mu        sync.Mutex
	projectID string
}

func New() *Store {
	return &Store{}
}

// Set selects the project governing subsequent API calls. Pass None to
// return to the admin/global context.
func (s *Store) Set(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = projectID
}

// Get returns the current project ID, or None when no scope is set.
func (s *Store) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}
