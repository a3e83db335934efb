package application

import (
	"time"

	domain "incorporation-portal/internal/domain/application"
)

// SubmitInput is the incorporation form as accepted today. Numeric fields
// accept numbers or numeric strings.
type SubmitInput struct {
	CompanyName             string            `json:"companyName" validate:"required,max=255"`
	AlternateNames          []string          `json:"alternateNames" validate:"omitempty,max=5,dive,max=255"`
	BusinessType            string            `json:"businessType" validate:"required"`
	Industry                string            `json:"industry" validate:"required"`
	Founders                domain.Number     `json:"founders"`
	RegisteredAddress       string            `json:"registeredAddress" validate:"required"`
	BusinessAddress         string            `json:"businessAddress"`
	AuthorizedCapital       domain.Number     `json:"authorizedCapital"`
	PaidUpCapital           domain.Number     `json:"paidUpCapital"`
	BusinessDescription     string            `json:"businessDescription"`
	NumberOfDirectors       domain.Number     `json:"numberOfDirectors"`
	Directors               []domain.Director `json:"directors" validate:"omitempty,dive"`
	DirectorDetails         string            `json:"directorDetails"`
	BusinessPlan            string            `json:"businessPlan"`
	EstimatedTurnover       string            `json:"estimatedTurnover"`
	BankingPartner          string            `json:"bankingPartner"`
	GSTRequired             string            `json:"gstRequired" validate:"omitempty,oneof=yes no"`
	AdditionalServices      string            `json:"additionalServices"`
	StudentName             string            `json:"studentName"`
	SchoolName              string            `json:"schoolName"`
	ContactPerson           string            `json:"contactPerson" validate:"required"`
	PhoneNumber             string            `json:"phoneNumber" validate:"required,phone"`
	Email                   string            `json:"email" validate:"required,email"`
	PreferredCompletionDate string            `json:"preferredCompletionDate" validate:"omitempty,datetime=2006-01-02"`
}

type SubmitResult struct {
	DocumentID          string        `json:"document_id"`
	ApplicationID       string        `json:"application_id"`
	Status              domain.Status `json:"status"`
	SubmittedAt         time.Time     `json:"submitted_at"`
	EstimatedCompletion string        `json:"estimated_completion"`
}

type ListInput struct {
	Search string `query:"search"`
	Status string `query:"status"`
}

type TransitionInput struct {
	Ref string `json:"-"`
	// Status is one of the status enumeration values.
	Status string `json:"status" validate:"required"`
	// ExpectedVersion is the version the caller last read. Zero skips the
	// early check; the write is still compare-and-swap.
	ExpectedVersion uint64 `json:"expected_version"`
}

type Stats struct {
	ByStatus          map[domain.Status]int64 `json:"by_status"`
	TotalApplications int64                   `json:"total_applications"`
	TotalUsers        int64                   `json:"total_users"`
}
