package content

import (
	"strings"
	"time"

	"paperpaints/common"
	"paperpaints/models"
)

type ProductInput struct {
	ProductName             *string       `json:"productName"`
	Category                *string       `json:"category"`
	Description             *string       `json:"description"`
	TechnicalSpecifications *models.Lines `json:"technicalSpecifications"`
	Features                *models.Lines `json:"features"`
	MainImage               *string       `json:"mainImage"`
	BrochureURL             *string       `json:"brochureUrl"`
	Featured                *bool         `json:"featured"`
}

func (in *ProductInput) Apply(p *models.Product) error {
	set(&p.ProductName, in.ProductName)
	set(&p.Category, in.Category)
	set(&p.Description, in.Description)
	set(&p.MainImage, in.MainImage)
	set(&p.BrochureURL, in.BrochureURL)
	set(&p.Featured, in.Featured)
	if in.TechnicalSpecifications != nil {
		p.TechnicalSpecifications = in.TechnicalSpecifications.Slice()
	}
	if in.Features != nil {
		p.Features = in.Features.Slice()
	}
	return nil
}

type ApplicationInput struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	MainImage    *string       `json:"mainImage"`
	Category     *string       `json:"category"`
	KeyBenefits  *models.Lines `json:"keyBenefits"`
	SalaryRange  *string       `json:"salaryRange"`
	Slug         *string       `json:"slug"`
	LearnMoreURL *string       `json:"learnMoreUrl"`
}

func (in *ApplicationInput) Apply(a *models.Application) error {
	set(&a.Title, in.Title)
	set(&a.Description, in.Description)
	set(&a.MainImage, in.MainImage)
	set(&a.Category, in.Category)
	set(&a.SalaryRange, in.SalaryRange)
	set(&a.LearnMoreURL, in.LearnMoreURL)
	if in.Slug != nil {
		a.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.KeyBenefits != nil {
		a.KeyBenefits = in.KeyBenefits.Slice()
	}
	return nil
}

type ProjectInput struct {
	ProjectName     *string `json:"projectName"`
	Location        *string `json:"location"`
	WorkDescription *string `json:"workDescription"`
	ProductsUsed    *string `json:"productsUsed"`
	MainImage       *string `json:"mainImage"`
	ProjectImages   *string `json:"projectImages"`
	CompletionDate  *string `json:"completionDate"`
}

func (in *ProjectInput) Apply(p *models.Project) error {
	set(&p.ProjectName, in.ProjectName)
	set(&p.Location, in.Location)
	set(&p.WorkDescription, in.WorkDescription)
	set(&p.ProductsUsed, in.ProductsUsed)
	set(&p.MainImage, in.MainImage)
	set(&p.ProjectImages, in.ProjectImages)
	if in.CompletionDate != nil {
		d, err := ParseDate(*in.CompletionDate)
		if err != nil {
			return err
		}
		p.CompletionDate = d
	}
	return nil
}

type TeamMemberInput struct {
	Name            *string `json:"name"`
	JobTitle        *string `json:"jobTitle"`
	Bio             *string `json:"bio"`
	ProfilePhoto    *string `json:"profilePhoto"`
	LinkedInProfile *string `json:"linkedInProfile"`
}

func (in *TeamMemberInput) Apply(m *models.TeamMember) error {
	set(&m.Name, in.Name)
	set(&m.JobTitle, in.JobTitle)
	set(&m.Bio, in.Bio)
	set(&m.ProfilePhoto, in.ProfilePhoto)
	set(&m.LinkedInProfile, in.LinkedInProfile)
	return nil
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. An empty
// value clears the date.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, common.Validation("completionDate must be an ISO-8601 date")
}

func set[V any](dst *V, v *V) {
	if v != nil {
		*dst = *v
	}
}
