package leads

import "time"

// Status is the back-office handling state of a lead.
type Status string

const (
	StatusNew     Status = "new"
	StatusHandled Status = "handled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s == StatusNew || s == StatusHandled }

// Service type keys offered by the contact form.
const (
	ServiceDirectorsOfficers     = "directors_officers"
	ServiceTravel                = "travel"
	ServiceCyber                 = "cyber"
	ServiceProfessionalLiability = "professional_liability"
	ServiceClinicalTrial         = "clinical_trial"
	ServiceOther                 = "other"
)

// Lead is a contact-form submission.
type Lead struct {
	ID               string    `json:"id" bson:"_id"`
	Name             string    `json:"name" bson:"name"`
	Email            string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone            string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Company          string    `json:"company,omitempty" bson:"company,omitempty"`
	City             string    `json:"city,omitempty" bson:"city,omitempty"`
	ServiceType      string    `json:"serviceType,omitempty" bson:"serviceType,omitempty"`
	ServiceTypeKey   string    `json:"serviceTypeKey,omitempty" bson:"serviceTypeKey,omitempty"`
	ServiceTypeOther string    `json:"serviceTypeOther,omitempty" bson:"serviceTypeOther,omitempty"`
	Message          string    `json:"message" bson:"message"`
	Status           Status    `json:"status" bson:"status"`
	AdminNotes       string    `json:"adminNotes" bson:"adminNotes"`
	Source           string    `json:"source,omitempty" bson:"source,omitempty"`
	Language         string    `json:"language,omitempty" bson:"language,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Input is what the public contact form sends.
type Input struct {
	Name             string `json:"name" validate:"required,max=200"`
	Email            string `json:"email" validate:"omitempty,email,max=254"`
	Phone            string `json:"phone" validate:"omitempty,max=40"`
	Company          string `json:"company" validate:"max=200"`
	City             string `json:"city" validate:"max=100"`
	ServiceType      string `json:"serviceType" validate:"max=200"`
	ServiceTypeKey   string `json:"serviceTypeKey" validate:"omitempty,oneof=directors_officers travel cyber professional_liability clinical_trial other"`
	ServiceTypeOther string `json:"serviceTypeOther" validate:"max=200"`
	Message          string `json:"message" validate:"required,max=5000"`
	Source           string `json:"source"`
	Language         string `json:"language"`
}

// Patch carries the fields an admin may change on a lead.
type Patch struct {
	Status     *Status `json:"status,omitempty"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// Filter narrows a lead listing.
type Filter struct {
	// Query matches name, company or email, case-insensitively.
	Query  string
	Status Status
}
