package codebook

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DTO is one decoded codebook table: a table name and its values grouped
// by vocabulary group.
type DTO struct {
	Name   string              `json:"name"`
	Values map[string][]string `json:"values"`
}

// Validate checks the table for structural completeness. Values may be
// empty (the detail codebook), but the name is required.
func (d DTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Values, validation.NotNil),
	)
}

// CollectionDTO is the decoded codebook bundle of one release.
type CollectionDTO struct {
	VisRelease string `json:"visRelease"`
	Items      []DTO  `json:"items"`
}

// Validate checks the bundle for structural completeness.
func (d CollectionDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.VisRelease, validation.Required),
	)
}
