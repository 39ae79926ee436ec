// Package storagefakes provides an in-memory session.Storage for tests.
package storagefakes

import "sync"

// FakeStorage is a map-backed Storage implementation.
type FakeStorage struct {
	mu     sync.Mutex
	values map[string]string

	SetCalls    int
	RemoveCalls int
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{values: map[string]string{}}
}

func (f *FakeStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *FakeStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetCalls++
	f.values[key] = value
	return nil
}

func (f *FakeStorage) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RemoveCalls++
	delete(f.values, key)
	return nil
}
