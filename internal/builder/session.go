package builder

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Sessions hands out one editing session per store id. The first request for
// a store loads its document through the gateway; later requests share the
// same controller, so two admin tabs edit the same working copy.
type Sessions struct {
	mu       sync.Mutex
	gateway  Gateway
	logger   *zap.Logger
	readOnly bool
	byStore  map[string]*Controller
}

// NewSessions builds the session registry.
func NewSessions(gateway Gateway, logger *zap.Logger, readOnly bool) *Sessions {
	return &Sessions{
		gateway:  gateway,
		logger:   logger,
		readOnly: readOnly,
		byStore:  make(map[string]*Controller),
	}
}

// Get returns the editing session for the store, loading the document on
// first use. The gateway never fails outright on load (it falls back to the
// packaged default), so Get only errors when even that chain is broken.
func (s *Sessions) Get(ctx context.Context, storeID string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.byStore[storeID]; ok {
		return c, nil
	}

	doc, err := s.gateway.Load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("builder session opened",
		zap.String("store_id", storeID),
		zap.Int("sections", len(doc.Sections)),
		zap.Bool("read_only", s.readOnly))

	c := New(s.gateway, storeID, doc, WithReadOnly(s.readOnly))
	s.byStore[storeID] = c
	return c, nil
}
