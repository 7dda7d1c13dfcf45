package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/yacobolo/livecss"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stylesheet over HTTP with live reload",
	Long: `Watch the content globs and serve the compiled stylesheet from memory.

GET /livecss.css returns the current stylesheet with a strong ETag;
conditional requests get 304. GET /events upgrades to a websocket that
receives "reload" whenever the stylesheet changes, so a page can swap the
<link> without a full refresh. Pass --output to also mirror builds to disk.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", ":8787", "Listen address")
	f.StringP("input", "i", "", "Entry stylesheet (empty = built-in default)")
	f.StringP("output", "o", "", "Also mirror the stylesheet to this file")
	f.StringSlice("content", nil, "Glob patterns for files to scan")
	f.Duration("debounce", 150*time.Millisecond, "Quiet window before a rebuild")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := buildPipelineConfig("")
	if err != nil {
		return err
	}
	logger := cfg.Logger

	hub := newReloadHub()
	sink := &notifySink{
		MemorySink: livecss.NewMemorySink(),
		notify:     func() { hub.broadcast("reload") },
	}
	pipe := newPipeline(cfg, sink)
	if err := pipe.rebuild(cmd.Context(), nil); err != nil {
		return err
	}

	addr := getString("addr", ":8787")
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(sink, hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return watchContent(ctx, pipe)
	})
	g.Go(func() error {
		logger.Info("dev server listening", "addr", addr, "stylesheet", "/livecss.css", "events", "/events")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.closeAll()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}

// cssSource is what the HTTP handlers need from the sink.
type cssSource interface {
	CSS() string
	ETag() string
}

func newRouter(src cssSource, hub *reloadHub) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/livecss.css", func(w http.ResponseWriter, req *http.Request) {
		etag := src.ETag()
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if req.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = io.WriteString(w, src.CSS())
	})

	r.Get("/events", hub.handle)
	return r
}

// notifySink passes replacements through to the wrapped sink and pings
// notify whenever the revision actually advanced. Identical recompiles
// stay silent, matching the sink's own change detection.
type notifySink struct {
	*livecss.MemorySink
	notify func()
}

func (s *notifySink) Replace(css string) error {
	before := s.MemorySink.Revision()
	if err := s.MemorySink.Replace(css); err != nil {
		return err
	}
	if s.MemorySink.Revision() != before && s.notify != nil {
		s.notify()
	}
	return nil
}

// reloadHub tracks connected websocket clients and broadcasts reload
// notifications to all of them.
type reloadHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{
		upgrader: websocket.Upgrader{
			// Local development tooling; the page may be served from any
			// port on the same machine.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *reloadHub) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	// Clients never send anything meaningful, but reading is how close
	// frames and dead peers are noticed.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *reloadHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// broadcast sends message to every connected client, dropping clients
// whose writes fail. Writes hold the hub lock, which also keeps the
// websocket one-writer rule.
func (h *reloadHub) broadcast(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

func (h *reloadHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		delete(h.conns, conn)
	}
}

// connCount reports the number of connected reload clients.
func (h *reloadHub) connCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
