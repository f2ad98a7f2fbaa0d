package serverapi

import (
	"encoding/json"
	"net/http"

	"github.com/konsult-ai/rag-router/internal/generate"
	"go.uber.org/zap"
)

// clientID resolves the rate-limiter/cache-namespace identity of the
// caller: an explicit header if the deployment's gateway sets one,
// otherwise the connection's remote address.
func clientID(r *http.Request) string {
	if id := r.Header.Get("X-Client-ID"); id != "" {
		return id
	}
	return r.RemoteAddr
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := clientID(r)
	if s.rateLimiter != nil && !s.rateLimiter.Allow(id) {
		s.respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	s.logger.Debug("chat request", zap.String("client_id", id), zap.Int("message_len", len(req.Message)))
	state, err := s.router.Process(r.Context(), req.Message, req.toHistory(), req.UserContext, id)
	if err != nil {
		s.logger.Error("chat pipeline failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, toChatResponse(state))
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := clientID(r)
	if s.rateLimiter != nil && !s.rateLimiter.Allow(id) {
		s.respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	emit := func(ev generate.Event) {
		s.writeSSE(w, toStreamEvent(ev))
		flusher.Flush()
	}

	s.logger.Debug("chat stream request", zap.String("client_id", id), zap.Int("message_len", len(req.Message)))
	if _, err := s.router.Stream(r.Context(), req.Message, req.toHistory(), req.UserContext, id, emit); err != nil {
		s.logger.Error("chat stream pipeline failed", zap.Error(err))
		s.writeSSE(w, streamEvent{Type: "error", Content: err.Error()})
		flusher.Flush()
	}
}

func toStreamEvent(ev generate.Event) streamEvent {
	out := streamEvent{Type: string(ev.Type), Content: ev.Content, Metadata: ev.Metadata}
	switch ev.Type {
	case generate.EventSource:
		if ev.Source != nil {
			if out.Metadata == nil {
				out.Metadata = map[string]interface{}{}
			}
			out.Metadata["title"] = ev.Source.Title
			out.Metadata["source_uri"] = ev.Source.SourceURI
			out.Metadata["content_snippet"] = ev.Source.ContentSnippet
		}
	case generate.EventAction:
		if ev.Action != nil {
			if out.Metadata == nil {
				out.Metadata = map[string]interface{}{}
			}
			out.Metadata["action_type"] = ev.Action.Type
			out.Metadata["label"] = ev.Action.Label
			out.Metadata["description"] = ev.Action.Description
		}
	}
	return out
}

// writeSSE writes ev as one "data: <json>\n\n" frame. Errors are logged,
// never propagated — the client has already received a 200 and partial
// output by the time an encode could fail.
func (s *Server) writeSSE(w http.ResponseWriter, ev streamEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Warn("sse encode failed", zap.Error(err))
		return
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return
	}
	if _, err := w.Write(payload); err != nil {
		return
	}
	_, _ = w.Write([]byte("\n\n"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
