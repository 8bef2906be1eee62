package prospects

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ranwtech/site/internal/imports"
	"github.com/ranwtech/site/internal/ingest"
	"github.com/ranwtech/site/pkg/logger"
	"github.com/ranwtech/site/pkg/metrics"
)

// BatchSize is the number of rows written per insert during an import.
const BatchSize = 400

var (
	ErrInvalidStatus    = errors.New("invalid call status")
	ErrInvalidInsurance = errors.New("unknown insurance key")
	ErrEmptyComment     = errors.New("comment text required")
	ErrCommentNotFound  = errors.New("comment not found")
)

type Service struct {
	repo Repository
	jobs imports.Store
	now  func() time.Time
}

func NewService(r Repository, jobs imports.Store) *Service {
	return &Service{repo: r, jobs: jobs, now: func() time.Time { return time.Now().UTC() }}
}

// List returns prospects in import order, filtered by q.Search. When q.Priority is set,
// rows in that status move to the front and relative order is otherwise kept.
func (s *Service) List(ctx context.Context, q Query) ([]*Prospect, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		out = make([]*Prospect, 0, len(all))
		for _, p := range all {
			if matches(p, search) {
				out = append(out, p)
			}
		}
	}
	if q.Priority != nil {
		pr := *q.Priority
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Status() == pr && out[j].Status() != pr
		})
	}
	return out, nil
}

// NextPriority advances the priority filter: none, then each status in display
// order, then back to none.
func NextPriority(current *CallStatus) *CallStatus {
	if current == nil {
		first := Statuses[0]
		return &first
	}
	for i, s := range Statuses {
		if s == *current && i+1 < len(Statuses) {
			next := Statuses[i+1]
			return &next
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Prospect, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id string, st CallStatus) error {
	if !st.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.SetStatus(ctx, id, st)
}

func (s *Service) AddComment(ctx context.Context, id, email, text string) (*Prospect, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Comments = append(p.Comments, Comment{Comment: text, Email: email, Date: s.now()})
	if err := s.repo.SetComments(ctx, id, p.Comments); err != nil {
		return nil, err
	}
	return p, nil
}

// EditComment rewrites the comment at index and re-stamps its author and date.
func (s *Service) EditComment(ctx context.Context, id string, index int, email, text string) (*Prospect, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Comments) {
		return nil, ErrCommentNotFound
	}
	p.Comments[index] = Comment{Comment: text, Email: email, Date: s.now()}
	if err := s.repo.SetComments(ctx, id, p.Comments); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteComment(ctx context.Context, id string, index int) (*Prospect, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Comments) {
		return nil, ErrCommentNotFound
	}
	p.Comments = append(p.Comments[:index], p.Comments[index+1:]...)
	if err := s.repo.SetComments(ctx, id, p.Comments); err != nil {
		return nil, err
	}
	return p, nil
}

// SetInsuranceNeed merges change into the need stored under key.
func (s *Service) SetInsuranceNeed(ctx context.Context, id string, key InsuranceKey, change NeedChange) (*Prospect, error) {
	if !key.Valid() {
		return nil, ErrInvalidInsurance
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.InsuranceNeeds == nil {
		p.InsuranceNeeds = map[InsuranceKey]InsuranceNeed{}
	}
	need := p.InsuranceNeeds[key]
	if change.Interested != nil {
		need.Interested = *change.Interested
	}
	if change.RenewalDate != nil {
		need.RenewalDate = strings.TrimSpace(*change.RenewalDate)
	}
	p.InsuranceNeeds[key] = need
	if err := s.repo.SetInsuranceNeeds(ctx, id, p.InsuranceNeeds); err != nil {
		return nil, err
	}
	return p, nil
}

// ReplaceAll swaps the whole collection for rows, writing BatchSize rows at a time,
// and records the run as an import job.
func (s *Service) ReplaceAll(ctx context.Context, rows []map[string]any, source ingest.Format, fileName string) (*imports.Job, error) {
	if len(rows) == 0 {
		return nil, ingest.ErrNoRows
	}
	now := s.now()
	job := &imports.Job{
		JobID:     uuid.NewString(),
		Source:    string(source),
		FileName:  fileName,
		Status:    imports.StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	fail := func(err error) (*imports.Job, error) {
		job.Status = imports.StatusFailed
		job.Error = err.Error()
		job.UpdatedAt = s.now()
		if serr := s.jobs.Save(ctx, job); serr != nil {
			logger.Warnf("import %s: could not record failure: %v", job.JobID, serr)
		}
		return job, err
	}

	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return fail(fmt.Errorf("clear prospects: %w", err))
	}
	job.Deleted = deleted

	for start := 0; start < len(rows); start += BatchSize {
		end := start + BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := make([]*Prospect, 0, end-start)
		for i := start; i < end; i++ {
			batch = append(batch, FromRow(rows[i], uuid.NewString(), i))
		}
		if err := s.repo.InsertMany(ctx, batch); err != nil {
			return fail(fmt.Errorf("insert rows %d-%d: %w", start, end-1, err))
		}
		job.Rows = end
	}

	metrics.ProspectRowsImported.WithLabelValues(string(source)).Add(float64(len(rows)))
	job.Status = imports.StatusDone
	job.UpdatedAt = s.now()
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}
	logger.Infof("import %s: replaced %d prospects with %d rows from %s", job.JobID, deleted, len(rows), source)
	return job, nil
}

// Job returns a recorded import run.
func (s *Service) Job(ctx context.Context, jobID string) (*imports.Job, error) {
	return s.jobs.Load(ctx, jobID)
}
