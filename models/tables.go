package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record carries the system-assigned fields shared by every record kind.
type Record struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID != "" {
		return nil
	}
	id, err := NewID(time.Now())
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

const RoleAdmin = "admin"

type Admin struct {
	Record
	Email        string `gorm:"uniqueIndex;size:320;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"` // never serialized
	Role         string `gorm:"size:32;not null;default:admin" json:"role"`
}

type Product struct {
	Record
	ProductName             string                      `json:"productName,omitempty"`
	Category                string                      `gorm:"index" json:"category,omitempty"`
	Description             string                      `gorm:"type:text" json:"description,omitempty"`
	TechnicalSpecifications datatypes.JSONSlice[string] `json:"technicalSpecifications,omitempty"`
	Features                datatypes.JSONSlice[string] `json:"features,omitempty"`
	MainImage               string                      `json:"mainImage,omitempty"`
	BrochureURL             string                      `json:"brochureUrl,omitempty"`
	Featured                bool                        `gorm:"not null;default:false" json:"featured"`
}

// Application is a job opening / application area shown on the careers page.
type Application struct {
	Record
	Title        string                      `json:"title,omitempty"`
	Description  string                      `gorm:"type:text" json:"description,omitempty"`
	MainImage    string                      `json:"mainImage,omitempty"`
	Category     string                      `gorm:"index" json:"category,omitempty"`
	KeyBenefits  datatypes.JSONSlice[string] `json:"keyBenefits,omitempty"`
	SalaryRange  string                      `json:"salaryRange,omitempty"`
	Slug         string                      `gorm:"index" json:"slug,omitempty"`
	LearnMoreURL string                      `json:"learnMoreUrl,omitempty"`
}

type Project struct {
	Record
	ProjectName     string     `json:"projectName,omitempty"`
	Location        string     `json:"location,omitempty"`
	WorkDescription string     `gorm:"type:text" json:"workDescription,omitempty"`
	ProductsUsed    string     `gorm:"type:text" json:"productsUsed,omitempty"`
	MainImage       string     `json:"mainImage,omitempty"`
	ProjectImages   string     `gorm:"type:text" json:"projectImages,omitempty"`
	CompletionDate  *time.Time `json:"completionDate,omitempty"`
}

type TeamMember struct {
	Record
	Name            string `json:"name,omitempty"`
	JobTitle        string `json:"jobTitle,omitempty"`
	Bio             string `gorm:"type:text" json:"bio,omitempty"`
	ProfilePhoto    string `json:"profilePhoto,omitempty"`
	LinkedInProfile string `json:"linkedInProfile,omitempty"`
}

type ContactSubmission struct {
	Record
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `gorm:"type:text" json:"message,omitempty"`
}

type DealerSubmission struct {
	Record
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Company    string `json:"company,omitempty"`
	Location   string `json:"location,omitempty"`
	Experience string `gorm:"type:text" json:"experience,omitempty"`
	Message    string `gorm:"type:text" json:"message,omitempty"`
}

type CareerSubmission struct {
	Record
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PreferredRole string `json:"preferredRole,omitempty"`
	Experience    string `gorm:"type:text" json:"experience,omitempty"`
	Message       string `gorm:"type:text" json:"message,omitempty"`
	JobID         string `gorm:"index" json:"jobId,omitempty"`
	ResumeURL     string `json:"resumeUrl,omitempty"`
}

// All lists every table, in migration order.
func All() []any {
	return []any{
		&Admin{},
		&Product{},
		&Application{},
		&Project{},
		&TeamMember{},
		&ContactSubmission{},
		&DealerSubmission{},
		&CareerSubmission{},
	}
}
