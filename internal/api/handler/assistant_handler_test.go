package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kasseeashil-ctrl/intel-platform/internal/api/middleware"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

type stubAssistantService struct {
	chatFn func(ctx context.Context, actor *domain.User, input ports.ChatInput) (<-chan ports.ChatChunk, error)
}

func (s *stubAssistantService) Chat(ctx context.Context, actor *domain.User, input ports.ChatInput) (<-chan ports.ChatChunk, error) {
	return s.chatFn(ctx, actor, input)
}

func chunkChannel(chunks ...ports.ChatChunk) <-chan ports.ChatChunk {
	ch := make(chan ports.ChatChunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestAssistantHandler_Chat_StreamsSSE(t *testing.T) {
	e := newTestEcho()
	stub := &stubAssistantService{
		chatFn: func(ctx context.Context, actor *domain.User, input ports.ChatInput) (<-chan ports.ChatChunk, error) {
			if input.Domain != "cybersecurity" || input.Message != "What is phishing?" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if len(input.History) != 1 || input.History[0].Role != "user" {
				t.Fatalf("unexpected history: %+v", input.History)
			}
			return chunkChannel(
				ports.ChatChunk{Content: "Phishing is "},
				ports.ChatChunk{Content: "an attack."},
				ports.ChatChunk{Final: true},
			), nil
		},
	}
	h := NewAssistantHandler(stub)

	body := strings.NewReader(`{"domain":"cybersecurity","message":"What is phishing?","history":[{"role":"user","content":"hi"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/chat", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetPrincipal(c, &domain.User{Username: "ana", Role: domain.RoleCybersecurity})

	if err := h.Chat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}

	out := rec.Body.String()
	if !strings.Contains(out, `data: {"content":"Phishing is "}`) {
		t.Fatalf("missing first chunk in stream:\n%s", out)
	}
	if !strings.Contains(out, `data: {"content":"an attack."}`) {
		t.Fatalf("missing second chunk in stream:\n%s", out)
	}
	if !strings.Contains(out, `data: {"done":true}`) {
		t.Fatalf("missing terminal event in stream:\n%s", out)
	}
}

func TestAssistantHandler_Chat_StreamErrorEndsStream(t *testing.T) {
	e := newTestEcho()
	stub := &stubAssistantService{
		chatFn: func(ctx context.Context, actor *domain.User, input ports.ChatInput) (<-chan ports.ChatChunk, error) {
			return chunkChannel(
				ports.ChatChunk{Content: "partial"},
				ports.ChatChunk{Err: errors.New("backend gone")},
			), nil
		},
	}
	h := NewAssistantHandler(stub)

	body := strings.NewReader(`{"message":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/chat", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Chat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	out := rec.Body.String()
	if !strings.Contains(out, `"error":"assistant stream failed"`) {
		t.Fatalf("missing error event in stream:\n%s", out)
	}
	if strings.Contains(out, "backend gone") {
		t.Fatalf("internal error detail leaked to client:\n%s", out)
	}
}

func TestAssistantHandler_Chat_PropagatesForbidden(t *testing.T) {
	e := newTestEcho()
	stub := &stubAssistantService{
		chatFn: func(ctx context.Context, actor *domain.User, input ports.ChatInput) (<-chan ports.ChatChunk, error) {
			return nil, domain.ErrDomainForbidden
		},
	}
	h := NewAssistantHandler(stub)

	body := strings.NewReader(`{"domain":"datascience","message":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/chat", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetPrincipal(c, &domain.User{Username: "ana", Role: domain.RoleCybersecurity})

	err := h.Chat(c)
	if !errors.Is(err, domain.ErrDomainForbidden) {
		t.Fatalf("expected ErrDomainForbidden, got %v", err)
	}
}

func TestAssistantHandler_Chat_MissingMessage(t *testing.T) {
	e := newTestEcho()
	h := NewAssistantHandler(&stubAssistantService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/chat", strings.NewReader(`{"domain":"cybersecurity"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Chat(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
