package clinic

import "time"

// Client is a person receiving services from the clinic.
type Client struct {
	ID             int64
	Code           string    `validate:"required,max=32"`
	FirstName      string    `validate:"required,max=100"`
	LastName       string    `validate:"required,max=100"`
	DateOfBirth    time.Time `validate:"required"`
	Sex            string    `validate:"omitempty,oneof=F M X"`
	Email          string    `validate:"omitempty,email"`
	Phone          string    `validate:"omitempty,max=32"`
	ReferralSource string    `validate:"omitempty,max=200"`
	AssessorCode   string    `validate:"omitempty,max=32"`
}

// Assessor is a clinician who administers assessments.
type Assessor struct {
	ID          int64
	Code        string `validate:"required,max=32"`
	FullName    string `validate:"required,max=200"`
	Credentials string `validate:"omitempty,max=100"`
	Email       string `validate:"omitempty,email"`
}
