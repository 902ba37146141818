package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/naveenspark/stays/pkg/domain"
)

// recordKey is the storage key of the persisted session.
const recordKey = "authData"

// record is the persisted form of a session.
type record struct {
	UserID              string `json:"userId"`
	Token               string `json:"token"`
	TokenExpirationDate string `json:"tokenExpirationDate"`
	Email               string `json:"email"`
}

func encodeRecord(s *domain.Session) (string, error) {
	data, err := json.Marshal(record{
		UserID:              s.UserID,
		Token:               s.Token,
		TokenExpirationDate: s.ExpiresAt.UTC().Format(time.RFC3339Nano),
		Email:               s.Email,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeRecord(raw string) (*domain.Session, error) {
	var r record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, r.TokenExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("decode session record: expiration: %w", err)
	}
	if r.UserID == "" || r.Token == "" {
		return nil, fmt.Errorf("decode session record: missing user id or token")
	}
	return &domain.Session{
		UserID:    r.UserID,
		Email:     r.Email,
		Token:     r.Token,
		ExpiresAt: expiresAt,
	}, nil
}
