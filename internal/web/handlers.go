package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       zerolog.Logger
	heartbeat time.Duration
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) renderBoard(gs app.GameState, errMsg string) ([]byte, error) {
	return renderTemplate(h.tpl.board, "", boardData{View: app.NewView(gs), Error: errMsg})
}

func (h *handlers) writeHTML(w http.ResponseWriter, r *http.Request, b []byte, err error) {
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	b, err := renderTemplate(h.tpl.index, "", nil)
	h.writeHTML(w, r, b, err)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	b, err := renderTemplate(h.tpl.game, "", boardData{View: app.NewView(*gs)})
	h.writeHTML(w, r, b, err)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, r, app.NewView(*gs))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cell, err := formInt(r, "cell")
	if err != nil {
		h.respond(w, r, id, nil, err)
		return
	}
	gs, err := h.svc.Play(id, cell)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	move, err := formInt(r, "move")
	if err != nil {
		h.respond(w, r, id, nil, err)
		return
	}
	gs, err := h.svc.JumpTo(id, move)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) order(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, err := h.svc.ToggleOrder(id)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, err := h.svc.Reset(id)
	h.respond(w, r, id, gs, err)
}

// respond renders the board fragment after a command. Rejected commands are
// shown as a message on the unchanged board.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	var errMsg string
	if err != nil {
		errMsg = app.Reason(err)
		if gs == nil {
			if g, ok := h.svc.Get(id); ok {
				gs = g
			}
		}
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	b, rerr := h.renderBoard(*gs, errMsg)
	h.writeHTML(w, r, b, rerr)
}

var errBadInput = errors.New("bad input")

func formInt(r *http.Request, key string) (int, error) {
	if err := r.ParseForm(); err != nil {
		return 0, fmt.Errorf("%w: %v", errBadInput, err)
	}
	n, err := strconv.Atoi(r.Form.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errBadInput, key, err)
	}
	return n, nil
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case gs, ok := <-ch:
			if !ok {
				return
			}
			b, err := h.renderBoard(gs, "")
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("render failed")
				return
			}
			writeSSE(w, "board", b)
			flusher.Flush()
		}
	}
}

// writeSSE emits one event; multi-line payloads become multiple data lines.
func writeSSE(w io.Writer, event string, data []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	start := 0
	for i, c := range data {
		if c == '\n' {
			_, _ = fmt.Fprintf(w, "data: %s\n", data[start:i])
			start = i + 1
		}
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data[start:])
}
