package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
)

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return v, nil
}

func (s *memStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return errors.New("disk full")
	}
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok, nil
}

// stubReader serves canned messages per channel name
type stubReader struct {
	connected  bool
	authorized bool
	connectErr error
	messages   map[string][]entity.ChannelMessage
	usernames  map[string]string
	failing    map[string]error
	iterErr    map[string]error // returned once the channel's messages are exhausted

	resolveCalls int
	iterCalls    int
	budgets      []int
}

func newStubReader() *stubReader {
	return &stubReader{
		connected:  true,
		authorized: true,
		messages:   make(map[string][]entity.ChannelMessage),
		usernames:  make(map[string]string),
		failing:    make(map[string]error),
		iterErr:    make(map[string]error),
	}
}

func (r *stubReader) IsConnected() bool { return r.connected }

func (r *stubReader) IsAuthorized(context.Context) (bool, error) { return r.authorized, nil }

func (r *stubReader) Connect(context.Context) error {
	if r.connectErr != nil {
		return r.connectErr
	}
	r.connected = true
	return nil
}

func (r *stubReader) ResolveChannel(_ context.Context, name string) (entity.Channel, error) {
	r.resolveCalls++
	if err, ok := r.failing[name]; ok {
		return entity.Channel{}, err
	}
	return entity.Channel{Name: name, Title: "Title " + name, Username: r.usernames[name]}, nil
}

func (r *stubReader) IterMessages(_ context.Context, ch entity.Channel, limit int, fn func(entity.ChannelMessage) bool) error {
	r.iterCalls++
	r.budgets = append(r.budgets, limit)
	for i, msg := range r.messages[ch.Name] {
		if i >= limit || !fn(msg) {
			return nil
		}
	}
	return r.iterErr[ch.Name]
}

func msgAt(id int, text string) entity.ChannelMessage {
	return entity.ChannelMessage{ID: id, Text: text, Date: time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)}
}
