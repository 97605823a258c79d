package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kasseeashil-ctrl/intel-platform/internal/api/metrics"
	"github.com/kasseeashil-ctrl/intel-platform/internal/api/middleware"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

// AssistantHandler streams AI completions to the client over server-sent
// events.
type AssistantHandler struct {
	service ports.AssistantService
}

func NewAssistantHandler(service ports.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

type chatMessageRequest struct {
	Role    string `json:"role"    validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type chatRequest struct {
	Domain  string               `json:"domain"`
	Message string               `json:"message" validate:"required"`
	Context string               `json:"context"`
	History []chatMessageRequest `json:"history" validate:"dive"`
}

// sseEvent is the JSON payload of each data: line in the stream.
type sseEvent struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Chat handles POST /v1/assistant/chat. The response is an SSE stream of
// completion chunks; the terminal event carries done=true.
//
// @Summary      Stream an assistant reply
// @Tags         assistant
// @Accept       json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        body  body  chatRequest  true  "Chat turn"
// @Success      200
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/assistant/chat [post]
func (h *AssistantHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	history := make([]ports.ChatMessage, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, ports.ChatMessage{Role: m.Role, Content: m.Content})
	}

	chunks, err := h.service.Chat(c.Request().Context(), middleware.Principal(c), ports.ChatInput{
		Domain:  req.Domain,
		Message: req.Message,
		Context: req.Context,
		History: history,
	})
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	start := time.Now()
	defer func() {
		metrics.AssistantStreamDuration.WithLabelValues(req.Domain).Observe(time.Since(start).Seconds())
	}()

	for chunk := range chunks {
		if chunk.Err != nil {
			writeSSE(res, sseEvent{Error: "assistant stream failed", Done: true})
			return nil
		}
		if chunk.Final {
			writeSSE(res, sseEvent{Done: true})
			return nil
		}
		writeSSE(res, sseEvent{Content: chunk.Content})
	}

	// Channel closed without a final marker (backend hung up mid-stream).
	writeSSE(res, sseEvent{Done: true})
	return nil
}

func writeSSE(res *echo.Response, event sseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(res, "data: %s\n\n", payload)
	res.Flush()
}
