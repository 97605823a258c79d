package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

// domainPrompts are the per-domain system prompts. Unknown domains fall back
// to the general prompt.
var domainPrompts = map[string]string{
	domain.DomainCybersecurity: `You are a cybersecurity expert assistant for a Multi-Domain Intelligence Platform.

Your responsibilities:
- Analyse security incidents and provide technical assessments
- Explain attack vectors, vulnerabilities, and threat actors
- Recommend mitigation strategies following industry standards (NIST, ISO 27001, MITRE ATT&CK)
- Provide actionable security recommendations
- Use professional terminology appropriate for security analysts

Tone: Professional, technical, and precise
Format: Clear, structured responses with bullet points for recommendations`,

	domain.DomainDataScience: `You are a data science expert assistant for a Multi-Domain Intelligence Platform.

Your responsibilities:
- Analyse dataset characteristics and provide insights
- Recommend appropriate data processing and analysis techniques
- Explain statistical methods and machine learning approaches
- Suggest data visualisation strategies
- Help troubleshoot data quality issues

Tone: Professional and educational
Format: Clear explanations with practical examples`,

	domain.DomainITOperations: `You are an IT operations expert assistant for a Multi-Domain Intelligence Platform.

Your responsibilities:
- Troubleshoot IT issues and provide technical solutions
- Recommend best practices for system administration
- Explain infrastructure concepts and technologies
- Provide step-by-step resolution guides
- Prioritise urgent issues and suggest preventive measures

Tone: Professional and solution-oriented
Format: Clear, actionable steps with explanations`,
}

const generalPrompt = `You are a helpful assistant for a Multi-Domain Intelligence Platform covering Cybersecurity, Data Science, and IT Operations.

Provide professional, accurate, and actionable advice across these domains.`

type assistantService struct {
	client ports.AIClient
	audit  AuditRecorder
	logger zerolog.Logger
}

// NewAssistantService returns an AssistantService backed by the given AI client.
func NewAssistantService(client ports.AIClient, audit AuditRecorder, logger zerolog.Logger) ports.AssistantService {
	return &assistantService{client: client, audit: audit, logger: logger}
}

// Chat streams a completion for the given conversation. The actor must hold
// the ai_assistant capability; asking within a business domain additionally
// requires that domain's capability. Unknown domains use the general prompt.
func (s *assistantService) Chat(ctx context.Context, actor *domain.User, in ports.ChatInput) (<-chan ports.ChatChunk, error) {
	if actor == nil || !actor.CanAccessDomain(domain.DomainAIAssistant) {
		return nil, domain.ErrDomainForbidden
	}

	target := strings.ToLower(in.Domain)
	prompt, scoped := domainPrompts[target]
	if !scoped {
		prompt = generalPrompt
	} else if !actor.CanAccessDomain(target) {
		return nil, domain.ErrDomainForbidden
	}

	message := in.Message
	if in.Context != "" {
		message = message + "\n\nContext:\n" + in.Context
	}

	messages := make([]ports.ChatMessage, 0, len(in.History)+1)
	messages = append(messages, in.History...)
	messages = append(messages, ports.ChatMessage{Role: "user", Content: message})

	stream, err := s.client.StreamCompletion(ctx, prompt, messages)
	if err != nil {
		s.logger.Error().Err(err).Str("domain", target).Msg("assistant stream failed to start")
		return nil, err
	}

	s.logger.Debug().Str("username", actor.Username).Str("domain", target).Msg("assistant stream started")
	if s.audit != nil {
		s.audit.Record(domain.AuditEvent{
			Username:  actor.Username,
			Action:    domain.AuditAssistantPrompt,
			Domain:    target,
			Timestamp: time.Now().UTC(),
		})
	}

	return stream, nil
}
