package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/pkg/content"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/model"
)

const (
	eventChange = "change"
	eventSubmit = "submit"
	eventReset  = "reset"
)

// liveEvent is sent by the browser script.
type liveEvent struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// liveReply carries the current errors after every event. HTML is set only
// after a successful submit or a reset and replaces the whole form section.
type liveReply struct {
	Phase  model.Phase       `json:"phase"`
	Errors map[string]string `json:"errors"`
	HTML   string            `json:"html,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	f, ok := s.pending.take(id)
	if !ok {
		http.Error(w, "unknown form", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		s.logger.Warn("websocket accept", logging.FormID(id), zap.Error(err))
		return
	}
	defer conn.CloseNow()

	text := s.Content()
	logger := s.logger.With(logging.FormID(id))
	logger.Debug("live session opened")

	err = s.serveLive(r.Context(), conn, f, &text, logger)
	switch {
	case err == nil:
		conn.Close(websocket.StatusNormalClosure, "")
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway,
		errors.Is(err, context.Canceled):
		logger.Debug("live session closed")
	default:
		logger.Warn("live session failed", zap.Error(err))
		conn.Close(websocket.StatusInternalError, "internal error")
	}
}

func (s *Server) serveLive(ctx context.Context, conn *websocket.Conn, f *form.Form, text *content.Content, logger *zap.Logger) error {
	for {
		var event liveEvent
		if err := wsjson.Read(ctx, conn, &event); err != nil {
			return err
		}

		reply, err := s.apply(ctx, f, text, event)
		if err != nil {
			return err
		}
		logger.Debug("live event",
			zap.String("type", event.Type),
			zap.String("field", event.Field),
			zap.Int("errors", len(reply.Errors)),
		)
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			return err
		}
	}
}

// apply feeds one event into the form. Bad events yield a reply with Error
// set rather than ending the session.
func (s *Server) apply(ctx context.Context, f *form.Form, text *content.Content, event liveEvent) (liveReply, error) {
	switch event.Type {
	case eventChange:
		if err := f.ChangeByName(event.Field, event.Value); err != nil {
			reply := replyFor(f.View())
			reply.Error = err.Error()
			return reply, nil
		}
		return replyFor(f.View()), nil
	case eventSubmit:
		_, ok := f.Submit()
		view := f.View()
		reply := replyFor(view)
		if !ok {
			return reply, nil
		}
		html, err := s.renderer.Fragment(ctx, view, s.renderOptions(text, f.ID(), true))
		if err != nil {
			return liveReply{}, err
		}
		reply.HTML = string(html)
		return reply, nil
	case eventReset:
		f.Reset()
		view := f.View()
		reply := replyFor(view)
		html, err := s.renderer.Fragment(ctx, view, s.renderOptions(text, f.ID(), true))
		if err != nil {
			return liveReply{}, err
		}
		reply.HTML = string(html)
		return reply, nil
	default:
		reply := replyFor(f.View())
		reply.Error = "unknown event type " + event.Type
		return reply, nil
	}
}

func replyFor(view model.View) liveReply {
	errs := make(map[string]string, len(view.Errors))
	for field, message := range view.Errors {
		errs[field.String()] = message
	}
	return liveReply{Phase: view.Phase, Errors: errs}
}
