package submissions

import (
	"strings"

	"paperpaints/common"
	"paperpaints/models"
)

const msgRequired = "Name and a valid email are required"

// lead is the body of one public form.
type lead[T any] interface {
	validate() error
	record() *T
	// fields lists the values mailed to the owner.
	fields() map[string]string
}

func requireContact(name, email string) error {
	if common.Blank(name) || !common.ValidEmail(email) {
		return common.Validation(msgRequired)
	}
	return nil
}

type ContactInput struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

func (in *ContactInput) validate() error { return requireContact(in.Name, in.Email) }

func (in *ContactInput) record() *models.ContactSubmission {
	return &models.ContactSubmission{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: in.Subject,
		Message: in.Message,
	}
}

func (in *ContactInput) fields() map[string]string {
	return map[string]string{
		"name": in.Name, "email": in.Email, "phone": in.Phone,
		"subject": in.Subject, "message": in.Message,
	}
}

type DealerInput struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	Company    string `json:"company" form:"company"`
	Location   string `json:"location" form:"location"`
	Experience string `json:"experience" form:"experience"`
	Message    string `json:"message" form:"message"`
}

func (in *DealerInput) validate() error { return requireContact(in.Name, in.Email) }

func (in *DealerInput) record() *models.DealerSubmission {
	return &models.DealerSubmission{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Company:    in.Company,
		Location:   in.Location,
		Experience: in.Experience,
		Message:    in.Message,
	}
}

func (in *DealerInput) fields() map[string]string {
	return map[string]string{
		"name": in.Name, "email": in.Email, "phone": in.Phone, "company": in.Company,
		"location": in.Location, "experience": in.Experience, "message": in.Message,
	}
}

type CareerInput struct {
	Name          string `json:"name" form:"name"`
	Email         string `json:"email" form:"email"`
	Phone         string `json:"phone" form:"phone"`
	PreferredRole string `json:"preferredRole" form:"preferredRole"`
	Experience    string `json:"experience" form:"experience"`
	Message       string `json:"message" form:"message"`
	JobID         string `json:"jobId" form:"jobId"`
	// ResumeURL is only ever set from an uploaded file.
	ResumeURL     string `json:"-" form:"-"`
}

func (in *CareerInput) validate() error { return requireContact(in.Name, in.Email) }

func (in *CareerInput) record() *models.CareerSubmission {
	return &models.CareerSubmission{
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		PreferredRole: in.PreferredRole,
		Experience:    in.Experience,
		Message:       in.Message,
		JobID:         strings.TrimSpace(in.JobID),
		ResumeURL:     strings.TrimSpace(in.ResumeURL),
	}
}

func (in *CareerInput) fields() map[string]string {
	return map[string]string{
		"name": in.Name, "email": in.Email, "phone": in.Phone, "preferredRole": in.PreferredRole,
		"experience": in.Experience, "message": in.Message, "jobId": in.JobID, "resumeUrl": in.ResumeURL,
	}
}
