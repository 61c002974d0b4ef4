// Package board owns the case-card collection. The reducers in this package
// are pure functions over a card slice; Board wraps them with the single
// state container that issues ids, serializes mutations, and hands every new
// snapshot to the persistence layer before returning.
package board

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/casekanban/internal/metrics"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// Operation names used in logs and metrics.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpMove   = "move"
	OpDelete = "delete"
)

// Snapshotter persists and restores the whole collection. Save must not
// fail from the caller's point of view; Load returns an empty collection
// when nothing usable is stored.
type Snapshotter interface {
	Save(ctx context.Context, cards []types.Card)
	Load(ctx context.Context) []types.Card
}

// MoveCommand moves a card to another column. It replaces the drag-and-drop
// gesture: the card being dragged and the column it is dropped on.
type MoveCommand struct {
	CardID int64        `json:"id"`
	To     types.Status `json:"status"`
}

// Board is the process-wide card collection. All methods are safe for
// concurrent use; mutations are applied one at a time, each completing its
// persistence write before the next begins.
type Board struct {
	mu      sync.Mutex
	cards   []types.Card
	lastID  int64
	snap    Snapshotter
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Board.
type Option func(*Board)

// WithClock sets the time source used to issue ids.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics sets the operation counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Board) {
		b.metrics = m
	}
}

// New loads the saved collection from snap and returns the board holding it.
func New(ctx context.Context, snap Snapshotter, opts ...Option) *Board {
	b := &Board{
		snap:   snap,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	b.cards = snap.Load(ctx)
	if b.cards == nil {
		b.cards = []types.Card{}
	}
	for _, c := range b.cards {
		if c.ID > b.lastID {
			b.lastID = c.ID
		}
	}
	return b
}

// Create validates f on the creation path and appends a new card with a
// fresh id and status Unclaimed. Returns types.FieldErrors when f is invalid;
// the collection is then unchanged.
func (b *Board) Create(ctx context.Context, f types.Fields) (types.Card, error) {
	if errs := types.ValidateNew(f); errs != nil {
		b.metrics.ObserveOperation(OpCreate, metrics.OutcomeInvalid)
		b.logger.Debug("Rejected new card", zap.Strings("fields", errs.Fields()))
		return types.Card{}, errs
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c := types.Card{
		ID:     b.nextID(),
		Status: types.StatusUnclaimed,
	}.WithFields(f)

	b.commit(ctx, Append(b.cards, c))
	b.metrics.ObserveOperation(OpCreate, metrics.OutcomeOK)
	b.logger.Debug("Created card", zap.Int64("id", c.ID))
	return c, nil
}

// UpdateFields validates updated on the edit path and replaces the five user
// fields of the card with updated.ID, keeping its position and status.
// Returns types.FieldErrors when the fields are invalid. found is false when
// no card has that id; that is not an error.
func (b *Board) UpdateFields(ctx context.Context, updated types.Card) (card types.Card, found bool, err error) {
	f := updated.Fields()
	if errs := types.ValidateEdit(f); errs != nil {
		b.metrics.ObserveOperation(OpUpdate, metrics.OutcomeInvalid)
		b.logger.Debug("Rejected card edit", zap.Int64("id", updated.ID), zap.Strings("fields", errs.Fields()))
		return types.Card{}, false, errs
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	next, ok := ReplaceFields(b.cards, updated.ID, f)
	if !ok {
		b.metrics.ObserveOperation(OpUpdate, metrics.OutcomeNotFound)
		return types.Card{}, false, nil
	}
	b.commit(ctx, next)
	b.metrics.ObserveOperation(OpUpdate, metrics.OutcomeOK)
	b.logger.Debug("Updated card", zap.Int64("id", updated.ID))

	card, _ = Find(next, updated.ID)
	return card, true, nil
}

// UpdateStatus moves the card with id to status. Card fields are not
// re-validated. Returns types.ErrInvalidStatus for a status outside the four
// columns. found is false when no card has that id; that is not an error.
func (b *Board) UpdateStatus(ctx context.Context, id int64, status types.Status) (card types.Card, found bool, err error) {
	if !status.Valid() {
		b.metrics.ObserveOperation(OpMove, metrics.OutcomeInvalid)
		return types.Card{}, false, types.ErrInvalidStatus
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	next, ok := SetStatus(b.cards, id, status)
	if !ok {
		b.metrics.ObserveOperation(OpMove, metrics.OutcomeNotFound)
		return types.Card{}, false, nil
	}
	b.commit(ctx, next)
	b.metrics.ObserveOperation(OpMove, metrics.OutcomeOK)
	b.logger.Debug("Moved card", zap.Int64("id", id), zap.String("status", string(status)))

	card, _ = Find(next, id)
	return card, true, nil
}

// Move applies a MoveCommand. It is UpdateStatus under its gesture name.
func (b *Board) Move(ctx context.Context, cmd MoveCommand) (types.Card, bool, error) {
	return b.UpdateStatus(ctx, cmd.CardID, cmd.To)
}

// Delete removes the card with id. Reports whether it existed; deleting a
// missing id leaves the collection unchanged.
func (b *Board) Delete(ctx context.Context, id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, ok := Remove(b.cards, id)
	if !ok {
		b.metrics.ObserveOperation(OpDelete, metrics.OutcomeNotFound)
		return false
	}
	b.commit(ctx, next)
	b.metrics.ObserveOperation(OpDelete, metrics.OutcomeOK)
	b.logger.Debug("Deleted card", zap.Int64("id", id))
	return true
}

// Cards returns a copy of the collection in order.
func (b *Board) Cards() []types.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	return clone(b.cards)
}

// Get returns the card with id.
func (b *Board) Get(id int64) (types.Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Find(b.cards, id)
}

// Column returns the cards in one column, in collection order.
func (b *Board) Column(status types.Status) []types.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Column(b.cards, status)
}

// Columns returns all four columns in board order.
func (b *Board) Columns() []ColumnView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Columns(b.cards)
}

// Len returns the number of cards.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cards)
}

// commit swaps in the new snapshot and persists it. The caller must hold
// b.mu.
func (b *Board) commit(ctx context.Context, next []types.Card) {
	b.cards = next
	// The write outlives a canceled caller once the change is applied.
	b.snap.Save(context.WithoutCancel(ctx), next)
}

// nextID issues an id from the clock in unix milliseconds, bumped past the
// last issued id when the clock has not advanced. The caller must hold b.mu.
func (b *Board) nextID() int64 {
	id := b.now().UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}
