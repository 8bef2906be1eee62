package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/ranwtech/site/internal/i18n"
)

var ErrInvalid = errors.New("invalid article")

// ValidationError names the rejected field and the message key for the editor toast.
type ValidationError struct {
	Field  string
	MsgKey string
}

func (e *ValidationError) Error() string          { return fmt.Sprintf("invalid article: %s", e.Field) }
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

type Service struct {
	repo   Repository
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, policy: bluemonday.UGCPolicy(), now: func() time.Time { return time.Now().UTC() }}
}

// NormalizeSlug lower-cases s, turns whitespace runs into '-' and drops anything that
// is not a letter, digit, '-' or '_'. Hebrew letters are kept.
func NormalizeSlug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			dash = false
		case r == '-' || unicode.IsSpace(r):
			if !dash && b.Len() > 0 {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Save creates the article when id is empty and replaces it otherwise.
func (s *Service) Save(ctx context.Context, in Input, id string) (*Article, error) {
	a := &Article{
		Slug:       NormalizeSlug(in.Slug),
		Status:     in.Status,
		TitleHe:    strings.TrimSpace(in.TitleHe),
		SubtitleHe: strings.TrimSpace(in.SubtitleHe),
		BodyHe:     s.policy.Sanitize(in.BodyHe),
		TitleEn:    strings.TrimSpace(in.TitleEn),
		SubtitleEn: strings.TrimSpace(in.SubtitleEn),
		BodyEn:     s.policy.Sanitize(in.BodyEn),
	}
	if a.Slug == "" {
		return nil, &ValidationError{Field: "slug", MsgKey: i18n.MsgArticleSlugReq}
	}
	if a.TitleHe == "" && a.TitleEn == "" {
		return nil, &ValidationError{Field: "title", MsgKey: i18n.MsgArticleTitleReq}
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if !a.Status.Valid() {
		return nil, &ValidationError{Field: "status", MsgKey: i18n.MsgArticleStatusBad}
	}

	if owner, err := s.repo.GetBySlug(ctx, a.Slug); err == nil && owner.ID != id {
		return nil, ErrSlugTaken
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now()
	a.UpdatedAt = now
	if id == "" {
		a.ID = uuid.NewString()
		a.CreatedAt = now
		if err := s.repo.Create(ctx, a); err != nil {
			return nil, err
		}
		return a, nil
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.ID = id
	a.CreatedAt = existing.CreatedAt
	if err := s.repo.Replace(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Article, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListAll returns drafts and published articles, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*Article, error) {
	return s.repo.List(ctx)
}

// ListPublished returns the articles visitors may see, newest first.
func (s *Service) ListPublished(ctx context.Context) ([]*Article, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Article, 0, len(all))
	for _, a := range all {
		if a.Public() {
			out = append(out, a)
		}
	}
	return out, nil
}

// GetPublishedBySlug resolves a public article route. Links built before slugs
// were mandatory used the document id, so that is tried second.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*Article, error) {
	a, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		a, err = s.repo.Get(ctx, slug)
	}
	if err != nil {
		return nil, err
	}
	if !a.Public() {
		return nil, ErrNotFound
	}
	return a, nil
}
