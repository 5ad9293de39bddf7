package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"utilhub/internal/domain"
	"utilhub/internal/middleware"
)

const streamHeartbeat = 25 * time.Second

type sendMessageRequest struct {
	Message string `json:"message"`
}

type chatHistoryResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type sendMessageResponse struct {
	UserMessage domain.ChatMessage `json:"user_message"`
	BotMessage  domain.ChatMessage `json:"bot_message"`
}

func (a *App) ChatMessages(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	messages, err := a.Chat.Messages(r.Context(), locale)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load chat messages failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load messages")
		return
	}
	a.json(w, http.StatusOK, chatHistoryResponse{Messages: messages})
}

func (a *App) ChatSend(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	userID := middleware.UserIDFromContext(r.Context())
	locale := middleware.LocaleFromContext(r.Context())
	userMsg, botMsg, err := a.Chat.Send(r.Context(), userID, locale, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			a.error(w, http.StatusBadRequest, "message_required", "message text is required")
			return
		}
		a.Logger.Error().Err(err).Msg("send chat message failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to send message")
		return
	}
	a.json(w, http.StatusCreated, sendMessageResponse{UserMessage: userMsg, BotMessage: botMsg})
}

// ChatStream pushes new transcript rows over server-sent events until the
// client disconnects.
func (a *App) ChatStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}
	// The server-wide write timeout would cut the stream off; lift it for
	// this response only.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		a.Logger.Warn().Err(err).Msg("stream keeps the server write deadline")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub, cancel := a.Hub.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg := <-sub:
			payload, err := json.Marshal(msg)
			if err != nil {
				a.Logger.Error().Err(err).Msg("encode stream message failed")
				continue
			}
			if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
