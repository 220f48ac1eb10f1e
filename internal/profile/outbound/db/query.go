package db

import (
	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

const profileColumns = `user_id, city, state, zip, address_1, address_2, country,
	slack_id, branch_of_service, years_of_service, pay_grade,
	military_occupational_specialty, military_status,
	github, twitter, linkedin,
	employment_status, education_level, company_role, company_name,
	programming_languages, disciplines, is_mentor,
	created_at, updated_at`

const (
	queryGetProfile = `SELECT ` + profileColumns + ` FROM profile_profiles WHERE user_id = $1`

	queryGetProfileForUpdate = queryGetProfile + ` FOR UPDATE`

	queryCreateProfile = `INSERT INTO profile_profiles (user_id, created_at, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id) DO NOTHING`

	queryUpdateProfile = `UPDATE profile_profiles SET
	city = $2, state = $3, zip = $4, address_1 = $5, address_2 = $6, country = $7,
	slack_id = $8, branch_of_service = $9, years_of_service = $10, pay_grade = $11,
	military_occupational_specialty = $12, military_status = $13,
	github = $14, twitter = $15, linkedin = $16,
	employment_status = $17, education_level = $18, company_role = $19, company_name = $20,
	programming_languages = $21, disciplines = $22, is_mentor = $23,
	updated_at = $24
	WHERE user_id = $1`

	queryCreateSlackUpdateTask = `INSERT INTO profile_slack_update_tasks
	(id, user_id, slack_id, military_status, created_at)
	VALUES ($1, $2, $3, $4, $5)`

	queryListPendingSlackUpdateTasks = `SELECT id, user_id, slack_id, military_status, created_at, published_at
	FROM profile_slack_update_tasks
	WHERE published_at IS NULL AND created_at <= $1
	ORDER BY created_at, id
	LIMIT $2`

	queryMarkSlackUpdateTaskPublished = `UPDATE profile_slack_update_tasks
	SET published_at = $2
	WHERE id = $1 AND published_at IS NULL`
)

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var p entity.Profile
	err := row.Scan(
		&p.UserID, &p.City, &p.State, &p.Zip, &p.Address1, &p.Address2, &p.Country,
		&p.SlackID, &p.BranchOfService, &p.YearsOfService, &p.PayGrade,
		&p.MilitaryOccupationalSpecialty, &p.MilitaryStatus,
		&p.Github, &p.Twitter, &p.Linkedin,
		&p.EmploymentStatus, &p.EducationLevel, &p.CompanyRole, &p.CompanyName,
		&p.ProgrammingLanguages, &p.Disciplines, &p.IsMentor,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func updateProfileArgs(p *entity.Profile) []any {
	return []any{
		p.UserID, p.City, p.State, p.Zip, p.Address1, p.Address2, p.Country,
		p.SlackID, p.BranchOfService, p.YearsOfService, p.PayGrade,
		p.MilitaryOccupationalSpecialty, p.MilitaryStatus,
		p.Github, p.Twitter, p.Linkedin,
		p.EmploymentStatus, p.EducationLevel, p.CompanyRole, p.CompanyName,
		p.ProgrammingLanguages, p.Disciplines, p.IsMentor,
		p.UpdatedAt,
	}
}
