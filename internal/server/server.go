// Package server exposes the board over HTTP with chi.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/casekanban/internal/board"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// maxBodyBytes bounds request bodies; a card is a few hundred bytes.
const maxBodyBytes = 64 << 10

// Board is the set of board operations the HTTP API serves.
type Board interface {
	Create(ctx context.Context, f types.Fields) (types.Card, error)
	UpdateFields(ctx context.Context, updated types.Card) (types.Card, bool, error)
	Move(ctx context.Context, cmd board.MoveCommand) (types.Card, bool, error)
	Delete(ctx context.Context, id int64) bool
	Cards() []types.Card
	Get(id int64) (types.Card, bool)
	Column(status types.Status) []types.Card
	Columns() []board.ColumnView
}

// Handler serves the card routes.
type Handler struct {
	board  Board
	logger *zap.Logger
}

// New creates a Handler over b.
func New(b Board, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{board: b, logger: logger}
}

// Register registers the card routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/board", h.handleBoard)
	r.Route("/cards", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Post("/{id}/move", h.handleMove)
		r.Delete("/{id}", h.handleDelete)
	})
}

// NewRouter builds the full router: middleware, health and metrics
// endpoints, and the card routes. A nil gatherer serves the default
// prometheus registry.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(h.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	h.Register(r)
	return r
}

// NewHTTPServer builds an HTTP server with the project's timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run serves srv until ctx is canceled, then shuts it down gracefully.
func Run(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving board", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// RequestLogger logs one line per request at debug level.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("Handled request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func (h *Handler) handleBoard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.board.Columns())
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		writeJSON(w, http.StatusOK, h.board.Cards())
		return
	}
	status, err := types.ParseStatus(raw)
	if err != nil {
		httpErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.board.Column(status))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	card, found := h.board.Get(id)
	if !found {
		httpErrorJSON(w, http.StatusNotFound, "card not found")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var f types.Fields
	if !decode(w, r, &f) {
		return
	}
	card, err := h.board.Create(r.Context(), f)
	if err != nil {
		h.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	var f types.Fields
	if !decode(w, r, &f) {
		return
	}
	card, found, err := h.board.UpdateFields(r.Context(), types.Card{ID: id}.WithFields(f))
	if err != nil {
		h.writeBoardError(w, r, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type moveRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	status, err := types.ParseStatus(req.Status)
	if err != nil {
		httpErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	card, found, err := h.board.Move(r.Context(), board.MoveCommand{CardID: id, To: status})
	if err != nil {
		h.writeBoardError(w, r, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	h.board.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// writeBoardError maps a board error to a response.
func (h *Handler) writeBoardError(w http.ResponseWriter, r *http.Request, err error) {
	var fe types.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fe})
	case errors.Is(err, types.ErrInvalidStatus):
		httpErrorJSON(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Board operation failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err))
		httpErrorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

func cardID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpErrorJSON(w, http.StatusBadRequest, types.ErrInvalidID.Error())
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		httpErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpErrorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(msg)})
}
