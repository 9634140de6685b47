package port

import "docchat/internal/domain"

// SessionStore keeps chat sessions. The core only appends messages and
// reads them back; persistence strategy is the adapter's concern.
type SessionStore interface {
	Create(title string) (domain.Session, error)

	Get(id string) (domain.Session, error)

	List() ([]domain.Session, error)

	Append(id string, msg domain.Message) error

	Delete(id string) error
}
