package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnknownAttribute is returned by Apply for a name that is not a profile attribute.
	ErrUnknownAttribute = errors.New("unknown field")
	// ErrInvalidValue is returned by Apply when the value has the wrong type.
	ErrInvalidValue = errors.New("invalid value")
)

// Military statuses accepted for MilitaryStatus. Empty means not set.
const (
	MilitaryStatusCurrent = "current"
	MilitaryStatusVeteran = "veteran"
	MilitaryStatusSpouse  = "spouse"
	MilitaryStatusFamily  = "family"
	MilitaryStatusOther   = "other"
)

// Profile is the user-editable part of an account. It is keyed by the
// identity service's user ID.
type Profile struct {
	UserID int64 `json:"-"`

	City     string `json:"city" validate:"max=255"`
	State    string `json:"state" validate:"max=255"`
	Zip      string `json:"zip" validate:"omitempty,max=10"`
	Address1 string `json:"address1" validate:"max=255"`
	Address2 string `json:"address2" validate:"max=255"`
	Country  string `json:"country" validate:"max=255"`

	SlackID                       string `json:"slackId" validate:"max=16"`
	BranchOfService               string `json:"branchOfService" validate:"max=255"`
	YearsOfService                string `json:"yearsOfService" validate:"max=255"`
	PayGrade                      string `json:"payGrade" validate:"max=255"`
	MilitaryOccupationalSpecialty string `json:"militaryOccupationalSpecialty" validate:"max=255"`
	MilitaryStatus                string `json:"militaryStatus" validate:"omitempty,oneof=current veteran spouse family other"`

	Github   string `json:"github" validate:"max=255"`
	Twitter  string `json:"twitter" validate:"max=255"`
	Linkedin string `json:"linkedin" validate:"max=255"`

	EmploymentStatus     string `json:"employmentStatus" validate:"max=255"`
	EducationLevel       string `json:"educationLevel" validate:"max=255"`
	CompanyRole          string `json:"companyRole" validate:"max=255"`
	CompanyName          string `json:"companyName" validate:"max=255"`
	ProgrammingLanguages string `json:"programmingLanguages" validate:"max=255"`
	Disciplines          string `json:"disciplines" validate:"max=255"`
	IsMentor             bool   `json:"isMentor"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Attribute names are the snake_case column names of a profile.
const (
	AttrCity                          = "city"
	AttrState                         = "state"
	AttrZip                           = "zip"
	AttrAddress1                      = "address_1"
	AttrAddress2                      = "address_2"
	AttrCountry                       = "country"
	AttrSlackID                       = "slack_id"
	AttrBranchOfService               = "branch_of_service"
	AttrYearsOfService                = "years_of_service"
	AttrPayGrade                      = "pay_grade"
	AttrMilitaryOccupationalSpecialty = "military_occupational_specialty"
	AttrMilitaryStatus                = "military_status"
	AttrGithub                        = "github"
	AttrTwitter                       = "twitter"
	AttrLinkedin                      = "linkedin"
	AttrEmploymentStatus              = "employment_status"
	AttrEducationLevel                = "education_level"
	AttrCompanyRole                   = "company_role"
	AttrCompanyName                   = "company_name"
	AttrProgrammingLanguages          = "programming_languages"
	AttrDisciplines                   = "disciplines"
	AttrIsMentor                      = "is_mentor"
)

var textAttributes = map[string]func(*Profile) *string{
	AttrCity:                          func(p *Profile) *string { return &p.City },
	AttrState:                         func(p *Profile) *string { return &p.State },
	AttrZip:                           func(p *Profile) *string { return &p.Zip },
	AttrAddress1:                      func(p *Profile) *string { return &p.Address1 },
	AttrAddress2:                      func(p *Profile) *string { return &p.Address2 },
	AttrCountry:                       func(p *Profile) *string { return &p.Country },
	AttrSlackID:                       func(p *Profile) *string { return &p.SlackID },
	AttrBranchOfService:               func(p *Profile) *string { return &p.BranchOfService },
	AttrYearsOfService:                func(p *Profile) *string { return &p.YearsOfService },
	AttrPayGrade:                      func(p *Profile) *string { return &p.PayGrade },
	AttrMilitaryOccupationalSpecialty: func(p *Profile) *string { return &p.MilitaryOccupationalSpecialty },
	AttrMilitaryStatus:                func(p *Profile) *string { return &p.MilitaryStatus },
	AttrGithub:                        func(p *Profile) *string { return &p.Github },
	AttrTwitter:                       func(p *Profile) *string { return &p.Twitter },
	AttrLinkedin:                      func(p *Profile) *string { return &p.Linkedin },
	AttrEmploymentStatus:              func(p *Profile) *string { return &p.EmploymentStatus },
	AttrEducationLevel:                func(p *Profile) *string { return &p.EducationLevel },
	AttrCompanyRole:                   func(p *Profile) *string { return &p.CompanyRole },
	AttrCompanyName:                   func(p *Profile) *string { return &p.CompanyName },
	AttrProgrammingLanguages:          func(p *Profile) *string { return &p.ProgrammingLanguages },
	AttrDisciplines:                   func(p *Profile) *string { return &p.Disciplines },
}

// IsAttribute reports whether name is a writable profile attribute.
func IsAttribute(name string) bool {
	if name == AttrIsMentor {
		return true
	}
	_, ok := textAttributes[name]
	return ok
}

// Apply sets one attribute from a decoded request value.
//
// Text attributes take strings (trimmed), numbers (as written when given a
// json.Number) or null (cleared).
// is_mentor takes a bool or a string strconv.ParseBool understands, so form
// bodies work too.
func (p *Profile) Apply(name string, value any) error {
	if name == AttrIsMentor {
		switch v := value.(type) {
		case bool:
			p.IsMentor = v
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: must be a valid boolean", ErrInvalidValue)
			}
			p.IsMentor = b
		default:
			return fmt.Errorf("%w: must be a valid boolean", ErrInvalidValue)
		}
		return nil
	}

	field, ok := textAttributes[name]
	if !ok {
		return ErrUnknownAttribute
	}

	switch v := value.(type) {
	case nil:
		*field(p) = ""
	case string:
		*field(p) = strings.TrimSpace(v)
	case json.Number:
		*field(p) = v.String()
	case float64:
		*field(p) = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Errorf("%w: must be a string", ErrInvalidValue)
	}
	return nil
}

// SlackFieldsChanged reports whether the attributes mirrored to pybot differ.
func (p *Profile) SlackFieldsChanged(before *Profile) bool {
	return p.SlackID != before.SlackID || p.MilitaryStatus != before.MilitaryStatus
}
