// Package profile stores the applicant data used to autofill application forms.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/jobmatch/internal/store"
)

const preferNotToAnswer = "prefer_not_to_answer"

// Profile is the applicant's data.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`

	CoverLetterText string `json:"coverLetterText"`
	LinkedinURL     string `json:"linkedinUrl"`
	PortfolioURL    string `json:"portfolioUrl"`

	Demographics Demographics `json:"demographics"`
	Preferences  Preferences  `json:"preferences"`

	LastUpdated string `json:"lastUpdated,omitempty"`
}

// Demographics holds optional self-identification answers.
type Demographics struct {
	Gender             string             `json:"gender"`
	Race               string             `json:"race"`
	HispanicLatino     string             `json:"hispanicLatino"`
	VeteranStatus      string             `json:"veteranStatus"`
	DisabilityStatus   string             `json:"disabilityStatus"`
	SelfIdentification SelfIdentification `json:"selfIdentification"`
}

// SelfIdentification answers are yes, no or prefer_not_to_answer.
type SelfIdentification struct {
	Disability string `json:"disability"`
	Veteran    string `json:"veteran"`
	Race       string `json:"race"`
	Gender     string `json:"gender"`
}

type Preferences struct {
	AutofillDemographics bool `json:"autofillDemographics"`
	ConfirmBeforeSubmit  bool `json:"confirmBeforeSubmit"`
}

// Default returns a profile with every field initialised.
func Default() Profile {
	return Profile{
		Demographics: Demographics{
			SelfIdentification: SelfIdentification{
				Disability: preferNotToAnswer,
				Veteran:    preferNotToAnswer,
				Race:       preferNotToAnswer,
				Gender:     preferNotToAnswer,
			},
		},
		Preferences: Preferences{
			AutofillDemographics: false,
			ConfirmBeforeSubmit:  true,
		},
	}
}

// Field returns the value of a logical form field name such as "firstName".
func (p *Profile) Field(name string) (string, bool) {
	switch name {
	case "firstName":
		return p.FirstName, true
	case "lastName":
		return p.LastName, true
	case "email":
		return p.Email, true
	case "phone":
		return p.Phone, true
	case "address":
		return p.Address, true
	case "city":
		return p.City, true
	case "state":
		return p.State, true
	case "zipCode":
		return p.ZipCode, true
	case "coverLetter", "coverLetterText":
		return p.CoverLetterText, true
	case "linkedinUrl":
		return p.LinkedinURL, true
	case "portfolioUrl":
		return p.PortfolioURL, true
	default:
		return "", false
	}
}

// Merge decodes updates onto base. Keys follow the JSON field names and
// nested objects are merged field by field.
func Merge(base Profile, updates map[string]any) (Profile, error) {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &base,
	})
	if err != nil {
		return base, err
	}

	if err := decoder.Decode(updates); err != nil {
		return base, fmt.Errorf("merge profile: %w", err)
	}
	return base, nil
}

// Repository reads and writes the profile in a store.
type Repository struct {
	store store.Store
	now   func() time.Time
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

// Save merges updates over the defaults and overwrites the stored profile.
func (r *Repository) Save(ctx context.Context, updates map[string]any) (*Profile, error) {
	return r.save(ctx, Default(), updates)
}

// Update merges updates over the stored profile, or the defaults when none exists.
func (r *Repository) Update(ctx context.Context, updates map[string]any) (*Profile, error) {
	base := Default()

	current, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		base = *current
	}

	return r.save(ctx, base, updates)
}

// Load returns the stored profile decoded over the defaults, or nil when none was saved.
func (r *Repository) Load(ctx context.Context) (*Profile, error) {
	p := Default()
	found, err := r.store.Get(ctx, store.KeyUserData, &p)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (r *Repository) save(ctx context.Context, base Profile, updates map[string]any) (*Profile, error) {
	merged, err := Merge(base, updates)
	if err != nil {
		return nil, err
	}
	merged.LastUpdated = r.now().UTC().Format(time.RFC3339)

	if err := r.store.Set(ctx, store.KeyUserData, merged); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &merged, nil
}
