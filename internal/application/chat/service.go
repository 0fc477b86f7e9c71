// Package chat implements the streaming conversational variant of the
// forensics engine. Tokens stream to the caller as they arrive; pipeline
// warnings travel out-of-band, so they are collected before streaming begins.
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/serplab/rankforensics/internal/application"
	domain "github.com/serplab/rankforensics/internal/domain/analysis"
	"github.com/serplab/rankforensics/internal/domain/audit"
	"github.com/serplab/rankforensics/internal/infra/ai/prompt"
)

// historyLimit bounds how many stored turns are replayed into the prompt.
const historyLimit = 20

// Turn is one prior exchange supplied by the client.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the streaming chat payload.
type Request struct {
	Message             string `json:"message"`
	ClientID            string `json:"clientId,omitempty"`
	InteractionType     string `json:"interactionType,omitempty"`
	ConversationHistory []Turn `json:"conversationHistory,omitempty"`
}

type Service struct {
	Model domain.StreamClient
	Audit audit.Repository
	Clock application.Clock
}

// Prepared is a chat turn ready to stream: prompts composed, history
// resolved, warnings already collected.
type Prepared struct {
	Warnings []string

	systemPrompt string
	userPrompt   string
	clientID     string
	message      string
}

// Prepare validates the request and reconstructs conversation history. A
// failed history read degrades to a warning, not an error.
func (s *Service) Prepare(ctx context.Context, req Request) (*Prepared, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &domain.ValidationError{Field: "message", Reason: "is required"}
	}

	p := &Prepared{
		Warnings: []string{},
		clientID: req.ClientID,
		message:  req.Message,
	}

	history := req.ConversationHistory
	if len(history) == 0 && req.ClientID != "" && s.Audit != nil {
		stored, err := s.Audit.History(ctx, req.ClientID, historyLimit)
		if err != nil {
			p.Warnings = append(p.Warnings, fmt.Sprintf("conversation history unavailable: %v", err))
		} else {
			for _, m := range stored {
				history = append(history, Turn{Role: m.Role, Content: m.Content})
			}
		}
	}

	p.systemPrompt = prompt.ComposeChatSystem(req.InteractionType)
	p.userPrompt = composeUser(history, req.Message)
	return p, nil
}

// Stream generates the reply, invoking onToken per chunk, then persists both
// turns fire-and-forget. The caller's response never waits on persistence.
func (s *Service) Stream(ctx context.Context, p *Prepared, onToken func(string) error) error {
	var reply strings.Builder
	err := s.Model.Stream(ctx, p.systemPrompt, p.userPrompt, func(token string) error {
		reply.WriteString(token)
		return onToken(token)
	})
	if err != nil {
		return &domain.ModelError{Err: err}
	}

	if s.Audit != nil && p.clientID != "" {
		go s.persist(p.clientID, p.message, reply.String())
	}
	return nil
}

func (s *Service) persist(conversationID, userMsg, assistantMsg string) {
	ctx := context.Background()
	now := s.Clock.Now()
	rows := []*audit.Message{
		{ID: uuid.New().String(), ConversationID: conversationID, Role: "user", Content: userMsg, CreatedAt: now},
		{ID: uuid.New().String(), ConversationID: conversationID, Role: "assistant", Content: assistantMsg, CreatedAt: now},
	}
	for _, m := range rows {
		if err := s.Audit.SaveMessage(ctx, m); err != nil {
			log.Printf("chat: save %s message conversation=%s: %v", m.Role, conversationID, err)
		}
	}
}

func composeUser(history []Turn, message string) string {
	if len(history) == 0 {
		return message
	}
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "[%s] %s\n", t.Role, t.Content)
	}
	b.WriteString("\nClient: ")
	b.WriteString(message)
	return b.String()
}
