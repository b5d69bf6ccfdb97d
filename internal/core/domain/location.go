package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxLocationCodeLength = 32

// Location is a place stock is kept, e.g. MAIN, STAGING, RETURNS.
type Location struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

func (l *Location) Validate() error {
	l.Code = strings.TrimSpace(l.Code)
	l.Name = strings.TrimSpace(l.Name)
	if l.Code == "" {
		return ErrInvalidLocationCode
	}
	if l.Name == "" {
		return ErrInvalidLocationName
	}
	if len(l.Code) > MaxLocationCodeLength || len(l.Name) > MaxNameLength {
		return ErrFieldTooLong
	}
	return nil
}
