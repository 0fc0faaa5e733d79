// Package gateway is the transport between the external voice runtime
// and the agent. The runtime owns audio, speech recognition, and reply
// generation; it connects here to start sessions, invoke tools with the
// facts it extracts, and signal session end.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/synctrack/sylvia/internal/agent"
	"github.com/synctrack/sylvia/internal/transcript"
	"github.com/synctrack/sylvia/pkg/logging"
	"golang.org/x/net/websocket"
)

// TranscriptStore records conversation lines for history and review.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, msg transcript.Message) error
	List(ctx context.Context, sessionID string, limit int64) ([]transcript.Message, error)
	Clear(ctx context.Context, sessionID string) error
}

// InboundEvent is what the runtime sends over the WebSocket.
type InboundEvent struct {
	Type string          `json:"type"` // "session_start", "tool_call", "utterance", "note", "session_end", "ping"
	Tool string          `json:"tool,omitempty"`
	Args json.RawMessage `json:"args,omitempty"`
	Role string          `json:"role,omitempty"`
	Text string          `json:"text,omitempty"`
}

// OutboundEvent is what we send back to the runtime.
type OutboundEvent struct {
	Type      string `json:"type"` // "session", "tool_result", "session_closed", "error", "pong"
	SessionID string `json:"session_id,omitempty"`
	Tool      string `json:"tool,omitempty"`
	Text      string `json:"text,omitempty"`
	EndState  string `json:"end_state,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// HistoryMessage is a simplified message for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Handler manages runtime connections and dispatches tool calls.
type Handler struct {
	manager    *agent.Manager
	registry   *agent.Registry
	transcript TranscriptStore
	logger     *logging.Logger
}

// NewHandler creates a gateway handler.
func NewHandler(manager *agent.Manager, registry *agent.Registry, ts TranscriptStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		manager:    manager,
		registry:   registry,
		transcript: ts,
		logger:     logger,
	}
}

// HandleWebSocket upgrades to WebSocket and serves one runtime session.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	room := r.URL.Query().Get("room")
	sessionID := r.URL.Query().Get("session")

	s := h.manager.Start(room, sessionID)

	// A dropped connection must still run the end-of-session
	// submission, so teardown happens here, not on an event.
	defer h.endSession(s.ID)

	_ = websocket.JSON.Send(conn, OutboundEvent{
		Type:      "session",
		SessionID: s.ID,
		Text:      agent.Greeting,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	h.logger.Info("gateway: connection opened", "session_id", s.ID, "room", room)

	for {
		var ev InboundEvent
		if err := websocket.JSON.Receive(conn, &ev); err != nil {
			h.logger.Debug("gateway: connection closed", "session_id", s.ID, "error", err)
			return
		}

		switch ev.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundEvent{Type: "pong"})

		case "session_start":
			// Session already exists from the connect; re-announce it
			// so runtimes that open the socket first still sync up.
			_ = websocket.JSON.Send(conn, OutboundEvent{
				Type:      "session",
				SessionID: s.ID,
				Text:      agent.Greeting,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})

		case "utterance":
			h.appendTranscript(r.Context(), s.ID, ev.Role, ev.Text, "utterance")

		case "note":
			s.Tracker.AddNote(ev.Text)

		case "tool_call":
			reply := h.dispatch(r.Context(), s, ev.Tool, ev.Args)
			_ = websocket.JSON.Send(conn, reply)

		case "session_end":
			state := h.endSession(s.ID)
			_ = websocket.JSON.Send(conn, OutboundEvent{
				Type:      "session_closed",
				SessionID: s.ID,
				EndState:  state,
			})
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, s *agent.Session, tool string, args json.RawMessage) OutboundEvent {
	text, err := h.registry.Dispatch(ctx, s, tool, args)
	if err != nil {
		return OutboundEvent{
			Type:      "error",
			SessionID: s.ID,
			Tool:      tool,
			Text:      err.Error(),
		}
	}

	h.appendTranscript(ctx, s.ID, "assistant", text, "tool_result")
	return OutboundEvent{
		Type:      "tool_result",
		SessionID: s.ID,
		Tool:      tool,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// endSession finalizes the session with a fresh context: the request
// context is already dead when a socket drops, and the lead submission
// must still get its bounded attempt.
func (h *Handler) endSession(sessionID string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	state := h.manager.End(ctx, sessionID)
	if state != "" && h.transcript != nil {
		if err := h.transcript.Clear(ctx, sessionID); err != nil {
			h.logger.Warn("gateway: failed to clear transcript", "session_id", sessionID, "error", err)
		}
	}
	return state
}

func (h *Handler) appendTranscript(ctx context.Context, sessionID, role, text, kind string) {
	if h.transcript == nil || strings.TrimSpace(text) == "" {
		return
	}
	if role == "" {
		role = "user"
	}
	if err := h.transcript.Append(ctx, sessionID, transcript.Message{
		Role: role,
		Text: text,
		Kind: kind,
	}); err != nil {
		h.logger.Warn("gateway: failed to append transcript", "session_id", sessionID, "error", err)
	}
}

// HandleTool is the HTTP fallback for invoking a tool outside the
// WebSocket stream.
func (h *Handler) HandleTool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Room      string          `json:"room"`
		SessionID string          `json:"session_id"`
		Tool      string          `json:"tool"`
		Args      json.RawMessage `json:"args"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Tool == "" {
		http.Error(w, "tool is required", http.StatusBadRequest)
		return
	}

	s := h.manager.Start(req.Room, req.SessionID)
	ev := h.dispatch(r.Context(), s, req.Tool, req.Args)

	w.Header().Set("Content-Type", "application/json")
	if ev.Type == "error" {
		w.WriteHeader(http.StatusBadRequest)
	}
	_ = json.NewEncoder(w).Encode(ev)
}

// HandleSessionEnd ends a session over HTTP.
func (h *Handler) HandleSessionEnd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	state := h.endSession(req.SessionID)
	if state == "" {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"session_id": req.SessionID,
		"end_state":  state,
	})
}

// HandleHistory returns the transcript for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if h.transcript == nil {
		_ = json.NewEncoder(w).Encode(map[string]any{"messages": []HistoryMessage{}})
		return
	}

	msgs, err := h.transcript.List(r.Context(), sessionID, 100)
	if err != nil {
		h.logger.Error("gateway: failed to load history", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	history := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, HistoryMessage{
			Role:      m.Role,
			Text:      m.Text,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": history})
}

// HandleConfig exposes the persona and tool definitions the runtime
// needs to configure its language model.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"instructions": agent.Instructions,
		"greeting":     agent.Greeting,
		"tools":        h.registry.Definitions(),
	})
}
