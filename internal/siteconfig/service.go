package siteconfig

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ranwtech/site/internal/i18n"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(s Store) *Service {
	return &Service{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Social returns the saved links; a missing document yields empty values.
func (s *Service) Social(ctx context.Context) (SocialLinks, error) {
	var out SocialLinks
	if err := s.store.Load(ctx, SocialDocID, &out); err != nil && !errors.Is(err, ErrNotFound) {
		return SocialLinks{}, err
	}
	return out, nil
}

func (s *Service) SaveSocial(ctx context.Context, in SocialLinks) (SocialLinks, error) {
	in.LinkedinURL = strings.TrimSpace(in.LinkedinURL)
	in.FacebookURL = strings.TrimSpace(in.FacebookURL)
	in.TwitterURL = strings.TrimSpace(in.TwitterURL)
	in.InstagramURL = strings.TrimSpace(in.InstagramURL)
	in.UpdatedAt = s.now()
	if err := s.store.Merge(ctx, SocialDocID, in); err != nil {
		return SocialLinks{}, err
	}
	return in, nil
}

func (s *Service) SEO(ctx context.Context) (SEO, error) {
	var out SEO
	if err := s.store.Load(ctx, SEODocID, &out); err != nil && !errors.Is(err, ErrNotFound) {
		return SEO{}, err
	}
	return out, nil
}

func (s *Service) SaveSEO(ctx context.Context, in SEO) (SEO, error) {
	for _, f := range []*string{
		&in.TitleHe, &in.DescriptionHe, &in.KeywordsHe, &in.TagsHe,
		&in.TitleEn, &in.DescriptionEn, &in.KeywordsEn, &in.TagsEn,
	} {
		*f = strings.TrimSpace(*f)
	}
	in.UpdatedAt = s.now()
	if err := s.store.Merge(ctx, SEODocID, in); err != nil {
		return SEO{}, err
	}
	return in, nil
}

// SEOFor picks the fields for lang. No cross-language fallback: an empty English
// title lets the page keep its built-in default.
func SEOFor(seo SEO, lang i18n.Lang) LocalizedSEO {
	if lang == i18n.English {
		return LocalizedSEO{Lang: string(lang), Title: seo.TitleEn, Description: seo.DescriptionEn, Keywords: seo.KeywordsEn, Tags: seo.TagsEn}
	}
	return LocalizedSEO{Lang: string(i18n.Hebrew), Title: seo.TitleHe, Description: seo.DescriptionHe, Keywords: seo.KeywordsHe, Tags: seo.TagsHe}
}
