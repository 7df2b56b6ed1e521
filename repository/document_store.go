package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyDocument is returned when appending blank text to a library
var ErrEmptyDocument = errors.New("document text is empty")

// DocumentStore holds the raw custom library documents of each scope. A scope
// is a user id, or a session id for anonymous sessions.
type DocumentStore interface {
	// Append adds one document and returns the library size after the append
	Append(ctx context.Context, scope, text string) (int, error)
	// ReadAll returns a copy of the scope's documents in insertion order, never nil
	ReadAll(ctx context.Context, scope string) ([]string, error)
	// Clear removes every document of the scope
	Clear(ctx context.Context, scope string) error
}

// MemoryDocumentStore keeps documents in process memory. Contents are lost on restart.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]string
}

// NewMemoryDocumentStore creates an empty in-memory store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string][]string)}
}

func (s *MemoryDocumentStore) Append(ctx context.Context, scope, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyDocument
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[scope] = append(s.docs[scope], text)
	return len(s.docs[scope]), nil
}

func (s *MemoryDocumentStore) ReadAll(ctx context.Context, scope string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.docs[scope]
	out := make([]string, len(docs))
	copy(out, docs)
	return out, nil
}

func (s *MemoryDocumentStore) Clear(ctx context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, scope)
	return nil
}

const defaultKeyPrefix = "legalinsight:library:"

// RedisDocumentStore keeps each scope's documents in a Redis list so that
// several server instances share one library.
type RedisDocumentStore struct {
	client *redis.Client
	prefix string
}

// RedisDocumentStoreOption is a functional option for RedisDocumentStore
type RedisDocumentStoreOption func(*RedisDocumentStore)

// WithKeyPrefix sets the prefix of every list key
func WithKeyPrefix(prefix string) RedisDocumentStoreOption {
	return func(s *RedisDocumentStore) {
		s.prefix = prefix
	}
}

// NewRedisDocumentStore creates a store backed by client
func NewRedisDocumentStore(client *redis.Client, opts ...RedisDocumentStoreOption) *RedisDocumentStore {
	s := &RedisDocumentStore{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisDocumentStore) key(scope string) string {
	return s.prefix + scope
}

func (s *RedisDocumentStore) Append(ctx context.Context, scope, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyDocument
	}

	n, err := s.client.RPush(ctx, s.key(scope), text).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *RedisDocumentStore) ReadAll(ctx context.Context, scope string) ([]string, error) {
	docs, err := s.client.LRange(ctx, s.key(scope), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []string{}
	}
	return docs, nil
}

func (s *RedisDocumentStore) Clear(ctx context.Context, scope string) error {
	return s.client.Del(ctx, s.key(scope)).Err()
}
