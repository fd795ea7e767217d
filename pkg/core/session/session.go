// Package session holds per-visitor state: the analyzed statement and the chat
// conversation. Nothing here outlives the process.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"statement_insight/pkg/core/agent"
	"statement_insight/pkg/core/analysis"
	"statement_insight/pkg/core/llm"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrNoStatement   = errors.New("no statement uploaded in this session")
)

// ChatOpener starts a conversation for a feature. *agent.Manager implements it.
type ChatOpener interface {
	NewChat(ctx context.Context, agentType string, rawSystemPrompt string) (llm.ChatSession, error)
}

// Session is the state of one browser session. All methods are safe for
// concurrent use; a chat turn holds the session lock until the reply arrives.
type Session struct {
	ID        string
	CreatedAt time.Time

	lastSeen atomic.Int64 // unix nanos, read without taking mu

	mu     sync.Mutex
	closed bool
	stmt   *analysis.StatementAnalysis
	chat   llm.ChatSession
}

func newSession(id string, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now}
	s.touch(now)
	return s
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen is the time of the last store lookup that returned s.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Statement returns the current analysis, or ErrNoStatement.
func (s *Session) Statement() (*analysis.StatementAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.stmt == nil {
		return nil, ErrNoStatement
	}
	return s.stmt, nil
}

// ReplaceStatement swaps in a newly analyzed statement. The previous one is
// dropped wholesale; the chat is kept.
func (s *Session) ReplaceStatement(a *analysis.StatementAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.stmt = a
	return nil
}

// SendChat sends one chat message, opening the conversation on first use.
// A failed turn leaves the history unchanged; a failed open is retried on
// the next message.
func (s *Session) SendChat(ctx context.Context, opener ChatOpener, systemPrompt, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrSessionClosed
	}
	if s.chat == nil {
		chat, err := opener.NewChat(ctx, agent.FeatureChat, systemPrompt)
		if err != nil {
			return "", err
		}
		s.chat = chat
	}
	return s.chat.SendMessage(ctx, text)
}

// ChatHistory returns the recorded turns, oldest first.
func (s *Session) ChatHistory() []llm.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chat == nil {
		return []llm.Turn{}
	}
	return s.chat.History()
}

// ResetChat drops the conversation; the next message starts a new one.
func (s *Session) ResetChat() {
	s.mu.Lock()
	s.chat = nil
	s.mu.Unlock()
}

// Close releases the statement and the chat. Further use fails with
// ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stmt = nil
	s.chat = nil
}
