package application

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SchemaVersion identifies which form produced a stored payload.
type SchemaVersion int

const (
	SchemaLegacyCompany  SchemaVersion = 1
	SchemaStudentProgram SchemaVersion = 2
	SchemaCurrent        SchemaVersion = 3
)

// Payload is one decoded form variant. Each variant knows how to migrate
// itself to the canonical Details.
type Payload interface {
	Version() SchemaVersion
	Canonical() Details
}

// Number is a numeric form field that may arrive as a JSON number, a numeric
// string, or not at all. Anything unparseable decodes as unset, never as zero.
type Number struct {
	Value int64
	Valid bool
}

func Num(v int64) Number { return Number{Value: v, Valid: true} }

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.NewReplacer(",", "", " ", "", "_", "").Replace(str)
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = Num(v)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		*n = Num(int64(f))
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.Value, 10)), nil
}

// Or returns the value, or def when unset or negative.
func (n Number) Or(def int64) int64 {
	if !n.Valid || n.Value < 0 {
		return def
	}
	return n.Value
}

type Director struct {
	Name          string `json:"name"`
	PAN           string `json:"pan,omitempty" validate:"omitempty,pan"`
	IdentityProof string `json:"identityProof,omitempty"`
	AddressProof  string `json:"addressProof,omitempty"`
}

// LegacyCompany is the original generic incorporation form. Every field was
// captured as a string.
type LegacyCompany struct {
	CompanyName             string `json:"companyName"`
	BusinessType            string `json:"businessType"`
	Industry                string `json:"industry"`
	Founders                Number `json:"founders"`
	RegisteredAddress       string `json:"registeredAddress"`
	BusinessAddress         string `json:"businessAddress"`
	AuthorizedCapital       Number `json:"authorizedCapital"`
	PaidUpCapital           Number `json:"paidUpCapital"`
	BusinessDescription     string `json:"businessDescription"`
	NumberOfDirectors       Number `json:"numberOfDirectors"`
	DirectorDetails         string `json:"directorDetails"`
	BusinessPlan            string `json:"businessPlan"`
	EstimatedTurnover       string `json:"estimatedTurnover"`
	BankingPartner          string `json:"bankingPartner"`
	GSTRequired             string `json:"gstRequired"`
	AdditionalServices      string `json:"additionalServices"`
	ContactPerson           string `json:"contactPerson"`
	PhoneNumber             string `json:"phoneNumber"`
	Email                   string `json:"email"`
	PreferredCompletionDate string `json:"preferredCompletionDate"`
	EstimatedCompletion     string `json:"estimatedCompletion"`
}

func (LegacyCompany) Version() SchemaVersion { return SchemaLegacyCompany }

func (p LegacyCompany) Canonical() Details {
	d := Details{
		DisplayName:         firstNonEmpty(p.CompanyName, PlaceholderCompanyName),
		BusinessType:        p.BusinessType,
		Industry:            p.Industry,
		Founders:            p.Founders.Or(DefaultFounders),
		AuthorizedCapital:   p.AuthorizedCapital.Or(DefaultAuthorizedCapital),
		PaidUpCapital:       p.PaidUpCapital.Or(DefaultPaidUpCapital),
		NumberOfDirectors:   p.NumberOfDirectors.Or(DefaultDirectors),
		RegisteredAddress:   p.RegisteredAddress,
		BusinessAddress:     p.BusinessAddress,
		BusinessDescription: p.BusinessDescription,
		DirectorDetails:     p.DirectorDetails,
		EstimatedTurnover:   p.EstimatedTurnover,
		BankingPartner:      p.BankingPartner,
		GSTRequired:         firstNonEmpty(p.GSTRequired, "yes"),
		AdditionalServices:  p.AdditionalServices,
		ContactPerson:       p.ContactPerson,
		Email:               p.Email,
		Phone:               p.PhoneNumber,
		EstimatedCompletion: firstNonEmpty(p.EstimatedCompletion, p.PreferredCompletionDate, "TBD"),
	}
	if p.CompanyName != "" {
		d.ProposedNames = []string{strings.TrimSpace(p.CompanyName)}
	}
	return d
}

// StudentProgram is the school-programme variant: proposed names arrive as a
// comma-separated list and a single director is described by PAN and proofs.
type StudentProgram struct {
	CompanyName           string `json:"companyName"`
	CompanyNames          string `json:"companyNames"`
	StudentName           string `json:"studentName"`
	SchoolName            string `json:"schoolName"`
	BusinessType          string `json:"businessType"`
	Industry              string `json:"industry"`
	Founders              Number `json:"founders"`
	AuthorizedCapital     Number `json:"authorizedCapital"`
	ProposedCapital       Number `json:"proposedCapital"`
	PaidUpCapital         Number `json:"paidUpCapital"`
	Address               string `json:"address"`
	RegisteredAddress     string `json:"registeredAddress"`
	DirectorName          string `json:"directorName"`
	DirectorPAN           string `json:"directorPan"`
	DirectorIdentityProof string `json:"directorIdentityProof"`
	DirectorAddressProof  string `json:"directorAddressProof"`
	ContactPerson         string `json:"contactPerson"`
	ContactNumber         string `json:"contactNumber"`
	PhoneNumber           string `json:"phoneNumber"`
	EmailID               string `json:"emailId"`
	Email                 string `json:"email"`
}

func (StudentProgram) Version() SchemaVersion { return SchemaStudentProgram }

func (p StudentProgram) Canonical() Details {
	names := splitNames(p.CompanyNames)
	var directors []Director
	if p.DirectorName != "" || p.DirectorPAN != "" {
		directors = []Director{{
			Name:          p.DirectorName,
			PAN:           p.DirectorPAN,
			IdentityProof: p.DirectorIdentityProof,
			AddressProof:  p.DirectorAddressProof,
		}}
	}
	capital := p.AuthorizedCapital
	if !capital.Valid {
		capital = p.ProposedCapital
	}
	d := Details{
		DisplayName:         firstNonEmpty(p.CompanyName, first(names), PlaceholderCompanyName),
		ProposedNames:       names,
		BusinessType:        p.BusinessType,
		Industry:            p.Industry,
		Founders:            p.Founders.Or(DefaultFounders),
		AuthorizedCapital:   capital.Or(DefaultAuthorizedCapital),
		PaidUpCapital:       p.PaidUpCapital.Or(DefaultPaidUpCapital),
		NumberOfDirectors:   directorCount(Number{}, directors),
		Directors:           directors,
		RegisteredAddress:   firstNonEmpty(p.RegisteredAddress, p.Address),
		GSTRequired:         "yes",
		ContactPerson:       firstNonEmpty(p.ContactPerson, p.StudentName, p.DirectorName),
		Email:               firstNonEmpty(p.Email, p.EmailID),
		Phone:               firstNonEmpty(p.PhoneNumber, p.ContactNumber),
		StudentName:         p.StudentName,
		SchoolName:          p.SchoolName,
		EstimatedCompletion: "TBD",
	}
	return d
}

// Current is the form accepted by the service today.
type Current struct {
	SchemaVersion           SchemaVersion `json:"schemaVersion"`
	CompanyName             string        `json:"companyName"`
	AlternateNames          []string      `json:"alternateNames,omitempty"`
	BusinessType            string        `json:"businessType"`
	Industry                string        `json:"industry"`
	Founders                Number        `json:"founders"`
	RegisteredAddress       string        `json:"registeredAddress"`
	BusinessAddress         string        `json:"businessAddress,omitempty"`
	AuthorizedCapital       Number        `json:"authorizedCapital"`
	PaidUpCapital           Number        `json:"paidUpCapital"`
	BusinessDescription     string        `json:"businessDescription,omitempty"`
	NumberOfDirectors       Number        `json:"numberOfDirectors"`
	Directors               []Director    `json:"directors,omitempty"`
	DirectorDetails         string        `json:"directorDetails,omitempty"`
	BusinessPlan            string        `json:"businessPlan,omitempty"`
	EstimatedTurnover       string        `json:"estimatedTurnover,omitempty"`
	BankingPartner          string        `json:"bankingPartner,omitempty"`
	GSTRequired             string        `json:"gstRequired"`
	AdditionalServices      string        `json:"additionalServices,omitempty"`
	StudentName             string        `json:"studentName,omitempty"`
	SchoolName              string        `json:"schoolName,omitempty"`
	ContactPerson           string        `json:"contactPerson"`
	PhoneNumber             string        `json:"phoneNumber"`
	Email                   string        `json:"email"`
	PreferredCompletionDate string        `json:"preferredCompletionDate,omitempty"`
	EstimatedCompletion     string        `json:"estimatedCompletion"`
}

func (Current) Version() SchemaVersion { return SchemaCurrent }

func (p Current) Canonical() Details {
	var names []string
	if n := strings.TrimSpace(p.CompanyName); n != "" {
		names = append(names, n)
	}
	for _, n := range p.AlternateNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	var firstDirector string
	if len(p.Directors) > 0 {
		firstDirector = p.Directors[0].Name
	}
	return Details{
		DisplayName:         firstNonEmpty(p.CompanyName, first(names), PlaceholderCompanyName),
		ProposedNames:       names,
		BusinessType:        p.BusinessType,
		Industry:            p.Industry,
		Founders:            p.Founders.Or(DefaultFounders),
		AuthorizedCapital:   p.AuthorizedCapital.Or(DefaultAuthorizedCapital),
		PaidUpCapital:       p.PaidUpCapital.Or(DefaultPaidUpCapital),
		NumberOfDirectors:   directorCount(p.NumberOfDirectors, p.Directors),
		Directors:           p.Directors,
		RegisteredAddress:   p.RegisteredAddress,
		BusinessAddress:     p.BusinessAddress,
		BusinessDescription: p.BusinessDescription,
		DirectorDetails:     p.DirectorDetails,
		EstimatedTurnover:   p.EstimatedTurnover,
		BankingPartner:      p.BankingPartner,
		GSTRequired:         firstNonEmpty(p.GSTRequired, "yes"),
		AdditionalServices:  p.AdditionalServices,
		ContactPerson:       firstNonEmpty(p.ContactPerson, p.StudentName, firstDirector),
		Email:               p.Email,
		Phone:               p.PhoneNumber,
		StudentName:         p.StudentName,
		SchoolName:          p.SchoolName,
		EstimatedCompletion: firstNonEmpty(p.EstimatedCompletion, p.PreferredCompletionDate, "TBD"),
	}
}

// keys that only the student programme form ever wrote
var studentMarkers = []string{"companyNames", "studentName", "schoolName", "directorPan", "directorIdentityProof", "directorAddressProof", "emailId", "contactNumber"}

// Decode detects the schema of raw and decodes it. An explicit schemaVersion
// wins; otherwise any student-programme marker selects v2, else v1.
func Decode(raw []byte) (Payload, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return LegacyCompany{}, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	version := SchemaLegacyCompany
	if v, ok := probe["schemaVersion"]; ok {
		var n Number
		_ = json.Unmarshal(v, &n)
		if n.Valid {
			version = SchemaVersion(n.Value)
		}
	} else {
		for _, k := range studentMarkers {
			if _, ok := probe[k]; ok {
				version = SchemaStudentProgram
				break
			}
		}
	}

	switch version {
	case SchemaStudentProgram:
		var p StudentProgram
		err := json.Unmarshal(raw, &p)
		return p, err
	case SchemaCurrent:
		var p Current
		err := json.Unmarshal(raw, &p)
		return p, err
	default:
		var p LegacyCompany
		err := json.Unmarshal(raw, &p)
		return p, err
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func splitNames(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func directorCount(declared Number, directors []Director) int64 {
	if declared.Valid && declared.Value >= 0 {
		return declared.Value
	}
	if len(directors) > 0 {
		return int64(len(directors))
	}
	return DefaultDirectors
}
