package inbound

import (
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

type ProfileResponse struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	Country  string `json:"country"`

	SlackID                       string `json:"slackId"`
	BranchOfService               string `json:"branchOfService"`
	YearsOfService                string `json:"yearsOfService"`
	PayGrade                      string `json:"payGrade"`
	MilitaryOccupationalSpecialty string `json:"militaryOccupationalSpecialty"`
	MilitaryStatus                string `json:"militaryStatus"`

	Github   string `json:"github"`
	Twitter  string `json:"twitter"`
	Linkedin string `json:"linkedin"`

	EmploymentStatus     string `json:"employmentStatus"`
	EducationLevel       string `json:"educationLevel"`
	CompanyRole          string `json:"companyRole"`
	CompanyName          string `json:"companyName"`
	ProgrammingLanguages string `json:"programmingLanguages"`
	Disciplines          string `json:"disciplines"`
	IsMentor             bool   `json:"isMentor"`

	message string
}

func (p ProfileResponse) Message() string {
	return p.message
}

func newProfileResponse(p *entity.Profile, message string) ProfileResponse {
	return ProfileResponse{
		City:                          p.City,
		State:                         p.State,
		Zip:                           p.Zip,
		Address1:                      p.Address1,
		Address2:                      p.Address2,
		Country:                       p.Country,
		SlackID:                       p.SlackID,
		BranchOfService:               p.BranchOfService,
		YearsOfService:                p.YearsOfService,
		PayGrade:                      p.PayGrade,
		MilitaryOccupationalSpecialty: p.MilitaryOccupationalSpecialty,
		MilitaryStatus:                p.MilitaryStatus,
		Github:                        p.Github,
		Twitter:                       p.Twitter,
		Linkedin:                      p.Linkedin,
		EmploymentStatus:              p.EmploymentStatus,
		EducationLevel:                p.EducationLevel,
		CompanyRole:                   p.CompanyRole,
		CompanyName:                   p.CompanyName,
		ProgrammingLanguages:          p.ProgrammingLanguages,
		Disciplines:                   p.Disciplines,
		IsMentor:                      p.IsMentor,
		message:                       message,
	}
}
