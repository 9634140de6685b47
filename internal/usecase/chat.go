package usecase

import (
	"time"

	"docchat/internal/domain"
	"docchat/internal/port"
)

const titleRuneLimit = 50

// ChatUseCase threads questions and answers through named sessions.
// Each exchange is answered by the query engine and recorded in the
// session transcript.
type ChatUseCase struct {
	engine   *QueryEngine
	sessions port.SessionStore
}

func NewChatUseCase(engine *QueryEngine, sessions port.SessionStore) *ChatUseCase {
	return &ChatUseCase{engine: engine, sessions: sessions}
}

// Ask answers a question within a session. An empty session ID starts
// a new session titled after the question. The returned session
// reflects the transcript after both messages are recorded.
func (c *ChatUseCase) Ask(sessionID, question string) (domain.Session, domain.Answer, error) {
	if sessionID == "" {
		sess, err := c.sessions.Create(titleOf(question))
		if err != nil {
			return domain.Session{}, domain.Answer{}, err
		}
		sessionID = sess.ID
	} else if _, err := c.sessions.Get(sessionID); err != nil {
		return domain.Session{}, domain.Answer{}, err
	}

	answer, err := c.engine.Query(question)
	if err != nil {
		return domain.Session{}, domain.Answer{}, err
	}

	now := time.Now()
	if err := c.sessions.Append(sessionID, domain.Message{
		Role:      "user",
		Content:   question,
		Timestamp: now,
	}); err != nil {
		return domain.Session{}, domain.Answer{}, err
	}
	if err := c.sessions.Append(sessionID, domain.Message{
		Role:      "assistant",
		Content:   answer.Text,
		Sources:   answer.Sources,
		Timestamp: now.Add(time.Millisecond),
	}); err != nil {
		return domain.Session{}, domain.Answer{}, err
	}

	sess, err := c.sessions.Get(sessionID)
	if err != nil {
		return domain.Session{}, domain.Answer{}, err
	}
	return sess, answer, nil
}

// History returns the transcript of a session.
func (c *ChatUseCase) History(sessionID string) (domain.Session, error) {
	return c.sessions.Get(sessionID)
}

// Sessions lists all sessions, most recently active first.
func (c *ChatUseCase) Sessions() ([]domain.Session, error) {
	return c.sessions.List()
}

// Forget removes a session and its transcript.
func (c *ChatUseCase) Forget(sessionID string) error {
	return c.sessions.Delete(sessionID)
}

func titleOf(question string) string {
	runes := []rune(question)
	if len(runes) <= titleRuneLimit {
		return question
	}
	return string(runes[:titleRuneLimit])
}
