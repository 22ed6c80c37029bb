package session

import (
	"sync"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/api"
	"go.uber.org/zap"
)

// Store maps session IDs to Sessions.
type Store struct {
	log       *zap.Logger
	predictor api.Predictor

	// We're using a sync.Map which is optimised for few writes but lots of reads
	store sync.Map
}

func NewStore(log *zap.Logger, predictor api.Predictor) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{log: log, predictor: predictor}
}

// Create makes and stores a new Session.
func (s *Store) Create() *Session {
	sess := New(s.log, s.predictor)
	s.store.Store(sess.ID, sess)
	return sess
}

func (s *Store) Get(id string) (*Session, bool) {
	if value, ok := s.store.Load(id); ok {
		return value.(*Session), true
	}
	return nil, false
}

func (s *Store) Delete(id string) {
	s.store.Delete(id)
}

// Len counts the stored sessions.
func (s *Store) Len() int {
	n := 0
	s.store.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
