package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/casekanban/internal/board"
	"github.com/mesh-intelligence/casekanban/internal/kv"
	"github.com/mesh-intelligence/casekanban/internal/metrics"
	"github.com/mesh-intelligence/casekanban/internal/persist"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// session is an open board and the store behind it. The caller must call
// close when done.
type session struct {
	board *board.Board
	store kv.Store
}

func (s *session) close(logger *zap.Logger) {
	if err := s.store.Close(); err != nil {
		logger.Warn("Error closing store", zap.Error(err))
	}
}

// openBoard opens the configured store and loads the board from it. m may
// be nil.
func (a *app) openBoard(ctx context.Context, m *metrics.Metrics) (*session, error) {
	store, err := kv.Open(ctx, a.cfg)
	if err != nil {
		return nil, sysError(fmt.Errorf("open %s store: %w", a.cfg.Backend, err))
	}
	snap := persist.New(store, a.cfg.SnapshotKey(),
		persist.WithLogger(a.logger),
		persist.WithMetrics(m))
	b := board.New(ctx, snap,
		board.WithLogger(a.logger),
		board.WithMetrics(m))
	a.logger.Debug("Opened board",
		zap.String("backend", a.cfg.Backend),
		zap.String("data_dir", a.cfg.DataDir),
		zap.Int("cards", b.Len()))
	return &session{board: b, store: store}, nil
}

// parseID parses a card id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, userError(fmt.Errorf("%w: %q", types.ErrInvalidID, arg))
	}
	return id, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("encode output: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// invalidCard reports field errors one per line in form order.
type invalidCard struct {
	fields types.FieldErrors
}

func (e invalidCard) Error() string {
	var b strings.Builder
	b.WriteString("invalid card:")
	for _, f := range e.fields.Fields() {
		fmt.Fprintf(&b, "\n  %s: %s", f, e.fields[f])
	}
	return b.String()
}

func (e invalidCard) Unwrap() error { return e.fields }

// boardError converts an error from a board mutation to a command error.
func boardError(err error) error {
	var fe types.FieldErrors
	if errors.As(err, &fe) {
		return userError(invalidCard{fields: fe})
	}
	if errors.Is(err, types.ErrInvalidStatus) {
		return userError(err)
	}
	return sysError(err)
}
