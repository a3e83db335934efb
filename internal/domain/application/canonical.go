package application

import "time"

const (
	PlaceholderCompanyName         = "Unnamed Company"
	DefaultFounders          int64 = 2
	DefaultAuthorizedCapital int64 = 100000
	DefaultPaidUpCapital     int64 = 100000
	DefaultDirectors         int64 = 2
)

// Details is the payload half of the canonical view, independent of which
// form schema produced it.
type Details struct {
	DisplayName         string     `json:"display_name"`
	ProposedNames       []string   `json:"proposed_names,omitempty"`
	BusinessType        string     `json:"business_type"`
	Industry            string     `json:"industry"`
	Founders            int64      `json:"founders"`
	AuthorizedCapital   int64      `json:"authorized_capital"`
	PaidUpCapital       int64      `json:"paid_up_capital"`
	NumberOfDirectors   int64      `json:"number_of_directors"`
	Directors           []Director `json:"directors,omitempty"`
	RegisteredAddress   string     `json:"registered_address"`
	BusinessAddress     string     `json:"business_address,omitempty"`
	BusinessDescription string     `json:"business_description,omitempty"`
	DirectorDetails     string     `json:"director_details,omitempty"`
	EstimatedTurnover   string     `json:"estimated_turnover,omitempty"`
	BankingPartner      string     `json:"banking_partner,omitempty"`
	GSTRequired         string     `json:"gst_required"`
	AdditionalServices  string     `json:"additional_services,omitempty"`
	ContactPerson       string     `json:"contact_person"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	StudentName         string     `json:"student_name,omitempty"`
	SchoolName          string     `json:"school_name,omitempty"`
	EstimatedCompletion string     `json:"estimated_completion"`
}

// View is the canonical read model of an Application.
type View struct {
	DocumentID    string        `json:"document_id"`
	ApplicationID string        `json:"application_id"`
	UserID        string        `json:"user_id,omitempty"`
	Status        Status        `json:"status"`
	Version       uint64        `json:"version"`
	SchemaVersion SchemaVersion `json:"schema_version"`
	SubmittedAt   time.Time     `json:"submitted_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Details
}

// Canonicalize builds the View of a. It is pure: a payload that cannot be
// decoded at all reads as an empty legacy form, so every field takes its
// default instead of failing the listing.
func Canonicalize(a Application) View {
	p, _ := Decode(a.Payload)
	if p == nil {
		p = LegacyCompany{}
	}
	d := p.Canonical()
	if d.Email == "" {
		d.Email = a.UserEmail
	}
	return View{
		DocumentID:    a.DocumentID,
		ApplicationID: a.ApplicationID,
		UserID:        a.UserID,
		Status:        a.Status,
		Version:       a.Version,
		SchemaVersion: p.Version(),
		SubmittedAt:   a.SubmittedAt,
		UpdatedAt:     a.UpdatedAt,
		Details:       d,
	}
}

func CanonicalizeAll(apps []Application) []View {
	out := make([]View, 0, len(apps))
	for _, a := range apps {
		out = append(out, Canonicalize(a))
	}
	return out
}
