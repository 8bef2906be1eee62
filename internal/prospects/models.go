// Package prospects manages the imported list of target companies ("public 150") that
// the admin works through by phone: call status, comments and insurance interest.
package prospects

import (
	"encoding/json"
	"time"
)

type CallStatus string

const (
	StatusNew              CallStatus = "new"
	StatusInProgress       CallStatus = "in_progress"
	StatusMeetingScheduled CallStatus = "meeting_scheduled"
	StatusPartial          CallStatus = "partial"
	StatusFull             CallStatus = "full"
	StatusNextYear         CallStatus = "next_year"
)

// Statuses is the display order, also used by the priority cycle.
var Statuses = []CallStatus{
	StatusNew, StatusInProgress, StatusMeetingScheduled, StatusPartial, StatusFull, StatusNextYear,
}

func (s CallStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type InsuranceKey string

const (
	InsuranceDirectors             InsuranceKey = "directors"
	InsuranceCyber                 InsuranceKey = "cyber"
	InsuranceProfessionalLiability InsuranceKey = "professional_liability"
	InsuranceProduct               InsuranceKey = "product"
	InsuranceProperty              InsuranceKey = "property"
	InsuranceTravel                InsuranceKey = "travel"
	InsuranceClinicalTrials        InsuranceKey = "clinical_trials"
)

var InsuranceKeys = []InsuranceKey{
	InsuranceDirectors, InsuranceCyber, InsuranceProfessionalLiability,
	InsuranceProduct, InsuranceProperty, InsuranceTravel, InsuranceClinicalTrials,
}

func (k InsuranceKey) Valid() bool {
	for _, v := range InsuranceKeys {
		if k == v {
			return true
		}
	}
	return false
}

type InsuranceNeed struct {
	Interested  bool   `json:"interested" bson:"interested"`
	RenewalDate string `json:"renewalDate,omitempty" bson:"renewalDate,omitempty"`
}

// NeedChange is a partial update; nil fields are left as they are.
type NeedChange struct {
	Interested  *bool   `json:"interested,omitempty"`
	RenewalDate *string `json:"renewalDate,omitempty"`
}

type Comment struct {
	Comment string    `json:"comment" bson:"comment"`
	Email   string    `json:"email" bson:"email"`
	Date    time.Time `json:"date" bson:"date"`
}

// Reserved document keys; everything else is an imported column.
const (
	keyID        = "_id"
	keySeq       = "seq"
	keyStatus    = "call_status"
	keyComments  = "comments"
	keyInsurance = "insurance_needs"
)

// Prospect is one imported row plus the fields the admin manages.
type Prospect struct {
	ID             string                         `bson:"_id"`
	Seq            int                            `bson:"seq"`
	CallStatus     CallStatus                     `bson:"call_status,omitempty"`
	Comments       []Comment                      `bson:"comments,omitempty"`
	InsuranceNeeds map[InsuranceKey]InsuranceNeed `bson:"insurance_needs,omitempty"`
	Fields         map[string]any                 `bson:",inline"`
}

// Status treats a missing call status as new.
func (p *Prospect) Status() CallStatus {
	if p.CallStatus == "" {
		return StatusNew
	}
	return p.CallStatus
}

// MarshalJSON flattens the imported columns next to the managed fields, the shape
// the admin table consumes.
func (p Prospect) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Fields)+4)
	for k, v := range p.Fields {
		out[k] = v
	}
	out[keyID] = p.ID
	out[keyStatus] = p.Status()
	comments := p.Comments
	if comments == nil {
		comments = []Comment{}
	}
	out[keyComments] = comments
	needs := p.InsuranceNeeds
	if needs == nil {
		needs = map[InsuranceKey]InsuranceNeed{}
	}
	out[keyInsurance] = needs
	return json.Marshal(out)
}

func (p *Prospect) clone() *Prospect {
	cp := *p
	cp.Comments = append([]Comment(nil), p.Comments...)
	if p.InsuranceNeeds != nil {
		cp.InsuranceNeeds = make(map[InsuranceKey]InsuranceNeed, len(p.InsuranceNeeds))
		for k, v := range p.InsuranceNeeds {
			cp.InsuranceNeeds[k] = v
		}
	}
	if p.Fields != nil {
		cp.Fields = make(map[string]any, len(p.Fields))
		for k, v := range p.Fields {
			cp.Fields[k] = v
		}
	}
	return &cp
}

// Query narrows and orders the admin listing.
type Query struct {
	// Search matches the company name or CEO, case-insensitively.
	Search   string
	Priority *CallStatus
}
