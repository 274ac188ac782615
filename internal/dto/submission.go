package dto

import "time"

// SubmissionRequest is the typed form payload of the intake endpoint.
// Binding fails closed: required scalar fields missing from the multipart
// body reject the request instead of defaulting silently.
type SubmissionRequest struct {
	FullName       string `form:"fullName" validate:"required,min=2,max=100"`
	Age            int    `form:"age" validate:"required,gte=18,lte=100"`
	Gender         string `form:"gender" validate:"omitempty,oneof=male female other"`
	Mobile         string `form:"mobile" validate:"required,len=10,numeric"`
	Email          string `form:"email" validate:"required,email"`
	City           string `form:"city" validate:"required"`
	State          string `form:"state" validate:"required"`
	Qualification  string `form:"qualification" validate:"required"`
	Specialization string `form:"specialization" validate:"required"`
	College        string `form:"college" validate:"required"`
	YearOfPassing  int    `form:"yearOfPassing" validate:"required,gte=1950"`
	CareerGapYears int    `form:"careerGap" validate:"gte=0"`
	Role           string `form:"role" validate:"required"`
	SkillSet       string `form:"skillSet" validate:"required"`
	Experience     string `form:"experience" validate:"required"`
	LinkedInURL    string `form:"linkedinUrl" validate:"omitempty,url"`
	GitHubURL      string `form:"githubUrl" validate:"omitempty,url"`
	Availability   string `form:"availability" validate:"required"`
	Declaration    bool   `form:"declaration" validate:"required"`
}

// SubmissionResponse is the success payload of the intake endpoint.
type SubmissionResponse struct {
	ApplicationID string    `json:"applicationId"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// UpdateStatusRequest moves an application through the review workflow.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed shortlisted rejected"`
}
