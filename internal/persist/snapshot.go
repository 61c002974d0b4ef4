// Package persist writes and reads the whole card collection as one JSON
// array under a fixed key of a key-value store. Failures never reach the
// caller: they are logged and counted, and Load falls back to an empty board.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/casekanban/internal/kv"
	"github.com/mesh-intelligence/casekanban/internal/metrics"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// Snapshot persists the board under one key of a kv.Store.
type Snapshot struct {
	store   kv.Store
	key     string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Snapshot) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the counters that record save and load outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Snapshot) {
		s.metrics = m
	}
}

// New returns a Snapshot writing under key. An empty key means
// types.DefaultKey.
func New(store kv.Store, key string, opts ...Option) *Snapshot {
	if key == "" {
		key = types.DefaultKey
	}
	s := &Snapshot{
		store:  store,
		key:    key,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Key returns the key the snapshot is stored under.
func (s *Snapshot) Key() string {
	return s.key
}

// Save writes the entire collection. Errors are reported to the logger and
// metrics only.
func (s *Snapshot) Save(ctx context.Context, cards []types.Card) {
	data, err := Encode(cards)
	if err != nil {
		s.metrics.ObserveSave(metrics.OutcomeError)
		s.logger.Error("Error encoding cards for storage",
			zap.String("key", s.key), zap.Int("cards", len(cards)), zap.Error(err))
		return
	}
	if err := s.store.Put(ctx, s.key, data); err != nil {
		s.metrics.ObserveSave(metrics.OutcomeError)
		s.logger.Error("Error saving cards to storage",
			zap.String("key", s.key), zap.Int("cards", len(cards)), zap.Error(err))
		return
	}
	s.metrics.ObserveSave(metrics.OutcomeOK)
	s.logger.Debug("Saved cards", zap.String("key", s.key), zap.Int("cards", len(cards)))
}

// Load reads the collection. A missing key or any read or decode failure
// yields an empty, non-nil collection.
func (s *Snapshot) Load(ctx context.Context) []types.Card {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			s.metrics.ObserveLoad(metrics.OutcomeMissing)
			s.logger.Debug("No saved cards", zap.String("key", s.key))
			return []types.Card{}
		}
		s.metrics.ObserveLoad(metrics.OutcomeError)
		s.logger.Error("Error loading cards from storage", zap.String("key", s.key), zap.Error(err))
		return []types.Card{}
	}

	cards, err := Decode(data)
	if err != nil {
		s.metrics.ObserveLoad(metrics.OutcomeError)
		s.logger.Error("Error loading cards from storage", zap.String("key", s.key), zap.Error(err))
		return []types.Card{}
	}
	s.metrics.ObserveLoad(metrics.OutcomeOK)
	s.logger.Debug("Loaded cards", zap.String("key", s.key), zap.Int("cards", len(cards)))
	return cards
}

// Encode serializes cards as a compact JSON array. A nil slice encodes as [].
func Encode(cards []types.Card) ([]byte, error) {
	if cards == nil {
		cards = []types.Card{}
	}
	data, err := json.Marshal(cards)
	if err != nil {
		return nil, fmt.Errorf("encoding cards: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of cards. An empty value or JSON null decodes
// to an empty collection.
func Decode(data []byte) ([]types.Card, error) {
	if len(data) == 0 {
		return []types.Card{}, nil
	}
	var cards []types.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("decoding cards: %w", err)
	}
	if cards == nil {
		cards = []types.Card{}
	}
	return cards, nil
}
