package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/driveup/account-service/internal/domain/repository"
)

type object struct {
	data        []byte
	contentType string
}

// Store is an in-memory blob store used for local development
// (STORAGE_DRIVER=memory) and by the test suites. It mirrors the GCS
// store's semantics: Put overwrites, Get returns ErrObjectNotFound for
// missing keys, ListPrefix matches on raw key prefixes.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	bucket  string
}

func New(bucket string) *Store {
	return &Store{objects: make(map[string]object), bucket: bucket}
}

func (s *Store) Put(_ context.Context, key, contentType string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.objects[key] = object{data: cp, contentType: contentType}
	s.mu.Unlock()
	return nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return cp, nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	return ok, nil
}

func (s *Store) ListPrefix(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) PublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

// ContentType reports the content type an object was stored with.
// Test-facing; the BlobStore interface does not expose it.
func (s *Store) ContentType(key string) (string, bool) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	return obj.contentType, ok
}

var _ repository.BlobStore = (*Store)(nil)
