package llm

import (
	"context"
	"strings"
	"sync"
)

// Role tags a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in a chat history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatSession is a conversation that remembers its earlier turns.
// Failed turns are not recorded.
type ChatSession interface {
	SendMessage(ctx context.Context, text string) (string, error)
	History() []Turn
}

// turnLog is the locally kept transcript of a chat.
type turnLog struct {
	mu    sync.Mutex
	turns []Turn
}

func (l *turnLog) record(user, reply string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, Turn{Role: RoleUser, Text: user}, Turn{Role: RoleAssistant, Text: reply})
}

func (l *turnLog) snapshot() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Turn(nil), l.turns...)
}

// completeFunc sends a full message array and returns the reply text.
type completeFunc func(ctx context.Context, messages []Message) (string, error)

// messageChat keeps the history itself and resends it on every turn, as the
// OpenAI-style backends are stateless.
type messageChat struct {
	mu       sync.Mutex
	system   string
	log      turnLog
	complete completeFunc
}

func newMessageChat(system string, complete completeFunc) *messageChat {
	return &messageChat{system: system, complete: complete}
}

func (c *messageChat) SendMessage(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prior := c.log.snapshot()
	messages := make([]Message, 0, len(prior)+2)
	if strings.TrimSpace(c.system) != "" {
		messages = append(messages, Message{Role: string(RoleSystem), Content: c.system})
	}
	for _, t := range prior {
		messages = append(messages, Message{Role: string(t.Role), Content: t.Text})
	}
	messages = append(messages, Message{Role: string(RoleUser), Content: text})

	reply, err := c.complete(ctx, messages)
	if err != nil {
		return "", err
	}
	c.log.record(text, reply)
	return reply, nil
}

func (c *messageChat) History() []Turn {
	return c.log.snapshot()
}
