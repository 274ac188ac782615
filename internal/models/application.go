package models

import "time"

// ApplicationStatus tracks where a submission sits in the review workflow.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
)

// ValidStatus reports whether the value is a known review status.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusRejected:
		return true
	}
	return false
}

// Application represents one candidate submission. A row exists only for
// fully validated submissions; the email column carries a UNIQUE
// constraint as the final authority on duplicates.
type Application struct {
	ID             string            `db:"id" json:"id"`
	FullName       string            `db:"full_name" json:"fullName"`
	Age            int               `db:"age" json:"age"`
	Gender         string            `db:"gender" json:"gender,omitempty"`
	Mobile         string            `db:"mobile" json:"mobile"`
	Email          string            `db:"email" json:"email"`
	City           string            `db:"city" json:"city"`
	State          string            `db:"state" json:"state"`
	Qualification  string            `db:"qualification" json:"qualification"`
	Specialization string            `db:"specialization" json:"specialization"`
	College        string            `db:"college" json:"college"`
	YearOfPassing  int               `db:"year_of_passing" json:"yearOfPassing"`
	CareerGapYears int               `db:"career_gap_years" json:"careerGapYears"`
	Role           string            `db:"role" json:"role"`
	SkillSet       string            `db:"skill_set" json:"skillSet"`
	Experience     string            `db:"experience" json:"experience"`
	LinkedInURL    *string           `db:"linkedin_url" json:"linkedinUrl,omitempty"`
	GitHubURL      *string           `db:"github_url" json:"githubUrl,omitempty"`
	PhotographURL  string            `db:"photograph_url" json:"photographUrl"`
	ResumeURL      string            `db:"resume_url" json:"resumeUrl"`
	Availability   string            `db:"availability" json:"availability"`
	Declaration    bool              `db:"declaration" json:"declaration"`
	Status         ApplicationStatus `db:"status" json:"status"`
	SubmittedAt    time.Time         `db:"submitted_at" json:"submittedAt"`
}

// ApplicationFilter narrows admin listing queries.
type ApplicationFilter struct {
	Status ApplicationStatus
	Search string
	Limit  int
	Offset int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
