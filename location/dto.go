package location

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ItemDTO is one decoded row of a release's location table.
type ItemDTO struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Definition string `json:"definition,omitempty"`
}

// Validate checks the row for structural completeness.
func (d ItemDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Code, validation.Required, validation.Length(1, 1)),
		validation.Field(&d.Name, validation.Required),
	)
}

// DTO is the decoded location table of one release.
type DTO struct {
	VisRelease string    `json:"visRelease"`
	Items      []ItemDTO `json:"items"`
}

// Validate checks the table for structural completeness.
func (d DTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.VisRelease, validation.Required),
		validation.Field(&d.Items, validation.Required),
	)
}
