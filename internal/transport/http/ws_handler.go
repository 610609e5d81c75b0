package http

import (
	"context"
	"encoding/json"
	"net/http"

	"dsa-tracker/internal/app"
	"dsa-tracker/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	service  *app.TrackerService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.TrackerService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type revisePayload struct {
	Scope      string `json:"scope"`
	QuestionID string `json:"questionId"`
}

type joinedPayload struct {
	UserID string `json:"userId"`
	Streak int    `json:"streak"`
}

type revisedPayload struct {
	QuestionID  string `json:"questionId"`
	LastRevised *int64 `json:"lastRevised"`
	Count       int    `json:"count"`
	Streak      int    `json:"streak"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and streams the caller's activity updates.
// Clients can mark questions revised over the same connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFrom(r.Context())
	if principal.UserID == "" {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	streak, err := h.service.Streak(r.Context(), principal)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	updates, cancel := h.service.Feed().Subscribe(principal.UserID)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches conn for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "activity", Payload: update}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			case <-writerDone:
				return
			}
		}
	}()

	out := outbox{send: send, writerDone: writerDone}
	out.push(outboundMessage[any]{Type: "joined", Payload: joinedPayload{UserID: principal.UserID, Streak: streak}})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var msg outboundMessage[any]
		switch inbound.Type {
		case "revise":
			msg = h.revise(r.Context(), principal, inbound.Payload)
		default:
			msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
		if !out.push(msg) {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) revise(ctx context.Context, principal domain.Principal, raw json.RawMessage) outboundMessage[any] {
	var payload revisePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.QuestionID == "" {
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid revise payload"}}
	}
	scope := domain.ScopeUser
	if payload.Scope == "public" {
		scope = domain.ScopePublic
	}
	q, update, err := h.service.MarkRevised(ctx, principal, scope, payload.QuestionID)
	if err != nil {
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}
	return outboundMessage[any]{Type: "revised", Payload: revisedPayload{
		QuestionID:  q.ID,
		LastRevised: q.LastRevised,
		Count:       update.Count,
		Streak:      update.Streak,
	}}
}

// outbox feeds the connection's writer goroutine. push reports false once the
// writer has stopped, so callers never block on a dead connection.
type outbox struct {
	send       chan<- outboundMessage[any]
	writerDone <-chan struct{}
}

func (o outbox) push(msg outboundMessage[any]) bool {
	select {
	case o.send <- msg:
		return true
	case <-o.writerDone:
		return false
	}
}
