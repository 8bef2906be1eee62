package prospects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ranwtech/site/internal/imports"
	"github.com/ranwtech/site/internal/ingest"
	"github.com/ranwtech/site/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRows() []map[string]any {
	return []map[string]any{
		{"Company Full Name": "Acme Robotics Ltd", "CEO": "Dana Levi", "No of Employees": float64(120)},
		{"company": "Globex", "ceo": "Avi Cohen"},
		{"company_full_name": "Initech", "CEO": "Bill Lumbergh", "call_status": "full"},
		{"Company Full Name": "Umbrella Bio", "CEO": "Alice", "_id": "ignored"},
	}
}

func newSeeded(t *testing.T) (*Service, *MemoryRepo, []*Prospect) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := NewService(repo, imports.NewMemoryStore())
	_, err := svc.ReplaceAll(context.Background(), seedRows(), ingest.FormatJSON, "public_150.json")
	require.NoError(t, err)
	list, err := svc.List(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, list, 4)
	return svc, repo, list
}

func TestFieldAndCompany(t *testing.T) {
	p := FromRow(map[string]any{"Company_Full_Name": "Acme", "No of Employees": float64(250), "Website": nil}, "id", 0)
	assert.Equal(t, "Acme", Field(p, "company full name"))
	assert.Equal(t, "250", Field(p, "no_of_employees"))
	assert.Equal(t, "", Field(p, "Website"))
	assert.Equal(t, "", Field(p, "Telephone"))
	assert.Equal(t, "Acme", Company(p))

	fallback := FromRow(map[string]any{"Company": "Globex"}, "id2", 1)
	assert.Equal(t, "Globex", Company(fallback))
}

func TestFromRowLiftsManagedFields(t *testing.T) {
	p := FromRow(map[string]any{
		"_id":             "old",
		"Company":         "Acme",
		"call_status":     "partial",
		"comments":        []any{map[string]any{"comment": "hi", "email": "a@b.co", "date": "2025-01-02T03:04:05Z"}},
		"insurance_needs": map[string]any{"cyber": map[string]any{"interested": true}, "pets": map[string]any{"interested": true}},
	}, "new-id", 3)
	assert.Equal(t, "new-id", p.ID)
	assert.Equal(t, 3, p.Seq)
	assert.Equal(t, StatusPartial, p.CallStatus)
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "hi", p.Comments[0].Comment)
	assert.True(t, p.InsuranceNeeds[InsuranceCyber].Interested)
	assert.NotContains(t, p.InsuranceNeeds, InsuranceKey("pets"))
	assert.Equal(t, map[string]any{"Company": "Acme"}, p.Fields)
}

func TestFromRowKeepsUnreadableManagedColumns(t *testing.T) {
	p := FromRow(map[string]any{
		"Company":         "Acme",
		"comments":        "call back monday",
		"insurance_needs": "cyber, fleet",
	}, "p", 0)
	assert.Empty(t, p.Comments)
	assert.Nil(t, p.InsuranceNeeds)
	assert.Equal(t, map[string]any{
		"Company":         "Acme",
		"comments":        "call back monday",
		"insurance_needs": "cyber, fleet",
	}, p.Fields)
}

func TestListSearchAndPriority(t *testing.T) {
	svc, _, list := newSeeded(t)
	ctx := context.Background()
	assert.Equal(t, "Acme Robotics Ltd", Company(list[0]))
	assert.Equal(t, "Umbrella Bio", Company(list[3]))

	got, err := svc.List(ctx, Query{Search: "  ROBOT "})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.List(ctx, Query{Search: "cohen"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Globex", Company(got[0]))

	require.NoError(t, svc.SetStatus(ctx, list[3].ID, StatusFull))
	full := StatusFull
	got, err = svc.List(ctx, Query{Priority: &full})
	require.NoError(t, err)
	names := []string{}
	for _, p := range got {
		names = append(names, Company(p))
	}
	assert.Equal(t, []string{"Initech", "Umbrella Bio", "Acme Robotics Ltd", "Globex"}, names)

	// missing status counts as new
	newSt := StatusNew
	got, err = svc.List(ctx, Query{Priority: &newSt})
	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics Ltd", Company(got[0]))
	assert.Equal(t, "Globex", Company(got[1]))
}

func TestNextPriorityCycle(t *testing.T) {
	var cur *CallStatus
	seen := []string{}
	for i := 0; i < len(Statuses)+1; i++ {
		cur = NextPriority(cur)
		if cur == nil {
			seen = append(seen, "none")
			continue
		}
		seen = append(seen, string(*cur))
	}
	assert.Equal(t, []string{"new", "in_progress", "meeting_scheduled", "partial", "full", "next_year", "none"}, seen)

	unknown := CallStatus("bogus")
	assert.Nil(t, NextPriority(&unknown))
}

func TestSetStatusValidation(t *testing.T) {
	svc, _, list := newSeeded(t)
	ctx := context.Background()
	require.ErrorIs(t, svc.SetStatus(ctx, list[0].ID, "closed"), ErrInvalidStatus)
	require.ErrorIs(t, svc.SetStatus(ctx, "missing", StatusFull), ErrNotFound)
	require.NoError(t, svc.SetStatus(ctx, list[0].ID, StatusMeetingScheduled))
	p, err := svc.Get(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMeetingScheduled, p.Status())
}

func TestComments(t *testing.T) {
	svc, _, list := newSeeded(t)
	ctx := context.Background()
	id := list[1].ID

	_, err := svc.AddComment(ctx, id, "admin@ranw.tech", "   ")
	require.ErrorIs(t, err, ErrEmptyComment)

	_, err = svc.AddComment(ctx, id, "admin@ranw.tech", " first call ")
	require.NoError(t, err)
	p, err := svc.AddComment(ctx, id, "admin@ranw.tech", "second")
	require.NoError(t, err)
	require.Len(t, p.Comments, 2)
	assert.Equal(t, "first call", p.Comments[0].Comment)

	p, err = svc.EditComment(ctx, id, 0, "other@ranw.tech", "first call, left message")
	require.NoError(t, err)
	assert.Equal(t, "first call, left message", p.Comments[0].Comment)
	assert.Equal(t, "other@ranw.tech", p.Comments[0].Email)

	_, err = svc.EditComment(ctx, id, 5, "x@y.z", "nope")
	require.ErrorIs(t, err, ErrCommentNotFound)

	p, err = svc.DeleteComment(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "second", p.Comments[0].Comment)

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)

	_, err = svc.DeleteComment(ctx, id, -1)
	require.ErrorIs(t, err, ErrCommentNotFound)
}

func TestSetInsuranceNeedMerges(t *testing.T) {
	svc, _, list := newSeeded(t)
	ctx := context.Background()
	id := list[0].ID
	yes := true
	date := " 2026-03-01 "

	_, err := svc.SetInsuranceNeed(ctx, id, "pets", NeedChange{Interested: &yes})
	require.ErrorIs(t, err, ErrInvalidInsurance)

	_, err = svc.SetInsuranceNeed(ctx, id, InsuranceCyber, NeedChange{Interested: &yes})
	require.NoError(t, err)
	p, err := svc.SetInsuranceNeed(ctx, id, InsuranceCyber, NeedChange{RenewalDate: &date})
	require.NoError(t, err)
	assert.Equal(t, InsuranceNeed{Interested: true, RenewalDate: "2026-03-01"}, p.InsuranceNeeds[InsuranceCyber])

	stored, _ := svc.Get(ctx, id)
	assert.Equal(t, p.InsuranceNeeds, stored.InsuranceNeeds)
}

func TestMarshalJSONFlattens(t *testing.T) {
	p := FromRow(map[string]any{"Company": "Acme"}, "p1", 0)
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Acme", got["Company"])
	assert.Equal(t, "p1", got["_id"])
	assert.Equal(t, "new", got["call_status"])
	assert.Equal(t, []any{}, got["comments"])
}

type countingRepo struct {
	*MemoryRepo
	inserts   []int
	failAfter int
}

func (c *countingRepo) InsertMany(ctx context.Context, ps []*Prospect) error {
	if c.failAfter > 0 && len(c.inserts) == c.failAfter {
		return errors.New("write conflict")
	}
	c.inserts = append(c.inserts, len(ps))
	return c.MemoryRepo.InsertMany(ctx, ps)
}

func manyRows(n int) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{"Company": fmt.Sprintf("Co %04d", i)}
	}
	return rows
}

func TestReplaceAllBatchesAndRecordsJob(t *testing.T) {
	repo := &countingRepo{MemoryRepo: NewMemoryRepo()}
	jobs := imports.NewMemoryStore()
	svc := NewService(repo, jobs)
	ctx := context.Background()

	_, err := svc.ReplaceAll(ctx, manyRows(3), ingest.FormatCSV, "a.csv")
	require.NoError(t, err)
	repo.inserts = nil

	before := testutil.ToFloat64(metrics.ProspectRowsImported.WithLabelValues("csv"))
	job, err := svc.ReplaceAll(ctx, manyRows(901), ingest.FormatCSV, "b.csv")
	require.NoError(t, err)
	assert.Equal(t, []int{400, 400, 101}, repo.inserts)
	assert.Equal(t, imports.StatusDone, job.Status)
	assert.Equal(t, 901, job.Rows)
	assert.EqualValues(t, 3, job.Deleted)
	assert.Equal(t, before+901, testutil.ToFloat64(metrics.ProspectRowsImported.WithLabelValues("csv")))

	stored, err := svc.Job(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, imports.StatusDone, stored.Status)
	assert.Equal(t, "b.csv", stored.FileName)

	list, err := svc.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, list, 901)
	assert.Equal(t, "Co 0000", Company(list[0]))
	assert.Equal(t, "Co 0900", Company(list[900]))
}

func TestReplaceAllFailureIsRecorded(t *testing.T) {
	repo := &countingRepo{MemoryRepo: NewMemoryRepo(), failAfter: 1}
	svc := NewService(repo, imports.NewMemoryStore())
	ctx := context.Background()

	job, err := svc.ReplaceAll(ctx, manyRows(500), ingest.FormatJSON, "")
	require.Error(t, err)
	require.NotNil(t, job)
	assert.Equal(t, imports.StatusFailed, job.Status)
	assert.Equal(t, 400, job.Rows)
	assert.True(t, strings.Contains(job.Error, "write conflict"))

	stored, err := svc.Job(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, imports.StatusFailed, stored.Status)

	_, err = svc.ReplaceAll(ctx, nil, ingest.FormatJSON, "")
	require.ErrorIs(t, err, ingest.ErrNoRows)
}
