package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/pkg/logger"
	"github.com/ranwtech/site/pkg/metrics"
)

// ErrInvalid wraps every validation failure; use errors.As with *ValidationError for details.
var ErrInvalid = errors.New("invalid lead")

// ValidationError names the offending field and the message key to show the visitor.
type ValidationError struct {
	Field  string
	MsgKey string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid lead: %s", e.Field) }
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Publisher receives lead.created notifications.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

// SuggestionLimit caps the admin search-box suggestions.
const SuggestionLimit = 6

// Service holds lead business rules on top of a Repository.
type Service struct {
	repo     Repository
	pub      Publisher
	validate *validator.Validate
	now      func() time.Time
}

func NewService(r Repository, pub Publisher) *Service {
	return &Service{repo: r, pub: pub, validate: validator.New(), now: func() time.Time { return time.Now().UTC() }}
}

// Submit validates and stores a contact-form submission.
func (s *Service) Submit(ctx context.Context, in Input) (*Lead, error) {
	in = normalizeInput(in)
	if err := s.check(in); err != nil {
		metrics.LeadsRejected.Inc()
		return nil, err
	}
	now := s.now()
	l := &Lead{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		Company:          in.Company,
		City:             in.City,
		ServiceType:      in.ServiceType,
		ServiceTypeKey:   in.ServiceTypeKey,
		ServiceTypeOther: in.ServiceTypeOther,
		Message:          in.Message,
		Status:           StatusNew,
		Source:           in.Source,
		Language:         in.Language,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("store lead: %w", err)
	}
	metrics.LeadsSubmitted.WithLabelValues(l.Source).Inc()
	if s.pub != nil {
		if err := s.pub.Publish(ctx, l.ID, l); err != nil {
			logger.Warnf("lead %s stored but notification failed: %v", l.ID, err)
		}
	}
	return l, nil
}

func normalizeInput(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.City = strings.TrimSpace(in.City)
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	in.ServiceTypeKey = strings.TrimSpace(in.ServiceTypeKey)
	in.ServiceTypeOther = strings.TrimSpace(in.ServiceTypeOther)
	in.Message = strings.TrimSpace(in.Message)
	if in.Source == "" {
		in.Source = "website"
	}
	in.Language = string(i18n.Normalize(in.Language))
	return in
}

func (s *Service) check(in Input) error {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0].Field())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if in.Email == "" && in.Phone == "" {
		return &ValidationError{Field: "Contact", MsgKey: i18n.MsgLeadContactReq}
	}
	return nil
}

func fieldError(field string) *ValidationError {
	switch field {
	case "Name":
		return &ValidationError{Field: field, MsgKey: i18n.MsgLeadNameRequired}
	case "Message":
		return &ValidationError{Field: field, MsgKey: i18n.MsgLeadMessageReq}
	case "Email":
		return &ValidationError{Field: field, MsgKey: i18n.MsgLeadEmailInvalid}
	}
	return &ValidationError{Field: field, MsgKey: i18n.MsgLeadInvalid}
}

func (s *Service) Get(ctx context.Context, id string) (*Lead, error) {
	return s.repo.Get(ctx, id)
}

// List returns leads newest first, narrowed by f.
func (s *Service) List(ctx context.Context, f Filter) ([]*Lead, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" && f.Status == "" {
		return all, nil
	}
	out := make([]*Lead, 0, len(all))
	for _, l := range all {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if q != "" && !containsFold(l.Name, q) && !containsFold(l.Company, q) && !containsFold(l.Email, q) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// Suggestions returns up to SuggestionLimit distinct name/company/email values that
// contain query, in newest-lead-first order.
func (s *Service) Suggestions(ctx context.Context, query string) ([]string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []string{}, nil
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, l := range all {
		for _, v := range []string{l.Name, l.Company, l.Email} {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			if containsFold(v, q) {
				out = append(out, v)
				if len(out) == SuggestionLimit {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

// SetStatus marks a lead new or handled.
func (s *Service) SetStatus(ctx context.Context, id string, st Status) error {
	if !st.Valid() {
		return &ValidationError{Field: "Status", MsgKey: i18n.MsgLeadInvalid}
	}
	return s.repo.Update(ctx, id, Patch{Status: &st})
}

// SetNotes replaces the admin notes of a lead.
func (s *Service) SetNotes(ctx context.Context, id, notes string) error {
	return s.repo.Update(ctx, id, Patch{AdminNotes: &notes})
}

// Apply applies a validated patch.
func (s *Service) Apply(ctx context.Context, id string, p Patch) error {
	if p.Status != nil && !p.Status.Valid() {
		return &ValidationError{Field: "Status", MsgKey: i18n.MsgLeadInvalid}
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func containsFold(v, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(v), lowerQuery)
}
