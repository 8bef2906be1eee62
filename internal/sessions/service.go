package sessions

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Service issues and validates refresh sessions.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: func() time.Time { return time.Now().UTC() }}
}

// CreateSession stores a new refresh session for sub and returns the refresh token.
func (s *Service) CreateSession(ctx context.Context, sub string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	refresh := base64.RawURLEncoding.EncodeToString(b)
	now := s.now()
	sess := &Session{
		TokenHash: HashToken(refresh),
		Sub:       sub,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return refresh, nil
}

// ValidateRefresh returns the session if the refresh token is known and not expired,
// or nil otherwise. Expired sessions are removed.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	if refresh == "" {
		return nil, nil
	}
	hash := HashToken(refresh)
	sess, err := s.repo.Get(ctx, hash)
	if err != nil || sess == nil {
		return nil, err
	}
	if s.now().After(sess.ExpiresAt) {
		_ = s.repo.Delete(ctx, hash)
		return nil, nil
	}
	return sess, nil
}

func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.Delete(ctx, HashToken(refresh))
}

// RevokeSubject ends every session of one admin, e.g. after removal from the allowlist.
func (s *Service) RevokeSubject(ctx context.Context, sub string) (int64, error) {
	return s.repo.DeleteBySub(ctx, sub)
}
