// Package server hosts contact form instances over HTTP. Each GET / creates a
// fresh instance whose events arrive over a websocket; plain form posts are
// replayed into a new instance and submitted. Instances live in memory only
// and nothing submitted is stored or forwarded.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/pkg/content"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
	"github.com/goliatone/go-contactform/pkg/validation"
)

const (
	assetsPrefix     = "/assets/"
	livePath         = "/ws"
	defaultGrace     = 5 * time.Second
	defaultPendingTT = 10 * time.Minute
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger; defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithContent sets the initial form copy.
func WithContent(c content.Content) Option {
	return func(s *Server) {
		s.SetContent(c)
	}
}

// WithContentFile reloads form copy from path whenever Watch observes a change.
func WithContentFile(path string) Option {
	return func(s *Server) {
		s.contentPath = path
	}
}

// WithRenderer replaces the HTML renderer.
func WithRenderer(r *vanilla.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithPendingTTL bounds how long an instance rendered by GET / waits for its
// websocket before being dropped.
func WithPendingTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.pending.ttl = ttl
		}
	}
}

// WithShutdownGrace sets how long Run waits for in-flight requests.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.grace = d
		}
	}
}

type Server struct {
	logger      *zap.Logger
	renderer    *vanilla.Renderer
	content     atomic.Pointer[content.Content]
	contentPath string
	pending     *pendingForms
	grace       time.Duration
}

// New builds a server with the bundled vanilla document renderer.
func New(options ...Option) (*Server, error) {
	s := &Server{
		logger:  logging.Nop(),
		pending: newPendingForms(defaultPendingTT),
		grace:   defaultGrace,
	}
	defaults := content.Default()
	s.content.Store(&defaults)

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.renderer == nil {
		renderer, err := vanilla.New(
			vanilla.WithDocument(),
			vanilla.WithDefaultStyles(),
			vanilla.WithAssetsPrefix(assetsPrefix),
		)
		if err != nil {
			return nil, fmt.Errorf("server: renderer: %w", err)
		}
		s.renderer = renderer
	}
	return s, nil
}

// Content returns the copy currently used for new renders.
func (s *Server) Content() content.Content {
	return *s.content.Load()
}

// SetContent swaps the copy used for subsequent renders and new instances.
func (s *Server) SetContent(c content.Content) {
	s.content.Store(&c)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(assetsPrefix, http.StripPrefix(assetsPrefix, http.FileServer(http.FS(vanilla.AssetsFS()))))
	mux.HandleFunc(livePath, s.handleLive)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.handleForm)
	return mux
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully. When
// a content file is configured it is watched for the lifetime of the server.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		if s.contentPath == "" {
			return
		}
		if err := s.Watch(watchCtx, s.contentPath); err != nil {
			s.logger.Warn("content watcher stopped", zap.Error(err))
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	var listenErr error
	select {
	case err := <-errChan:
		listenErr = err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("shutdown", zap.Error(err))
	}
	stopWatch()
	<-watchDone

	if listenErr != nil {
		return fmt.Errorf("server: listen: %w", listenErr)
	}
	return nil
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.serveNewForm(w, r)
	case http.MethodPost:
		s.servePost(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) serveNewForm(w http.ResponseWriter, r *http.Request) {
	text := s.Content()
	f := s.newForm(text)
	s.pending.put(f, time.Now())
	s.logger.Debug("form created", logging.FormID(f.ID()))

	s.respond(w, r, http.StatusOK, f.View(), s.renderOptions(&text, f.ID(), true))
}

func (s *Server) servePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	text := s.Content()
	var options []form.Option
	if id := r.PostForm.Get(render.InstanceFieldName); id != "" {
		s.pending.take(id)
		options = append(options, form.WithID(id))
	}
	f := s.newForm(text, options...)

	values := make(map[model.Field]string, len(model.Fields))
	for _, field := range model.Fields {
		if raw, ok := r.PostForm[field.String()]; ok && len(raw) > 0 {
			values[field] = raw[0]
		}
	}
	_, ok := f.Replay(values, true)
	view := f.View()
	s.logger.Debug("form submitted",
		logging.FormID(f.ID()),
		zap.Bool("accepted", ok),
		zap.Int("errors", len(view.Errors)),
	)

	status := http.StatusOK
	if !ok {
		status = http.StatusUnprocessableEntity
	}
	s.respond(w, r, status, view, s.renderOptions(&text, f.ID(), false))
}

func (s *Server) newForm(text content.Content, options ...form.Option) *form.Form {
	options = append(options, form.WithValidator(validation.New(text.ValidatorOptions()...)))
	return form.New(options...)
}

func (s *Server) renderOptions(text *content.Content, id string, live bool) render.RenderOptions {
	options := render.RenderOptions{
		Content: text,
		Action:  "/",
		Hidden:  render.MergeHiddenFields(nil, render.InstanceField(id)),
	}
	if live {
		options.LiveURL = livePath + "?id=" + id
	}
	return options
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, view model.View, options render.RenderOptions) {
	output, err := s.renderer.Render(r.Context(), view, options)
	if err != nil {
		s.logger.Error("render", logging.FormID(view.ID), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(output); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}
