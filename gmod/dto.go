package gmod

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NodeDTO is one decoded taxonomy node.
type NodeDTO struct {
	Category              string            `json:"category"`
	Type                  string            `json:"type"`
	Code                  string            `json:"code"`
	Name                  string            `json:"name"`
	CommonName            string            `json:"commonName,omitempty"`
	Definition            string            `json:"definition,omitempty"`
	CommonDefinition      string            `json:"commonDefinition,omitempty"`
	InstallSubstructure   *bool             `json:"installSubstructure,omitempty"`
	NormalAssignmentNames map[string]string `json:"normalAssignmentNames,omitempty"`
}

// Validate checks the node for structural completeness.
func (d NodeDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Code, validation.Required),
		validation.Field(&d.Category, validation.Required),
		validation.Field(&d.Type, validation.Required),
	)
}

// DTO is the decoded taxonomy of one release: its nodes plus the
// parent-child relation pairs.
type DTO struct {
	VisRelease string      `json:"visRelease"`
	Items      []NodeDTO   `json:"items"`
	Relations  [][2]string `json:"relations"`
}

// Validate checks the taxonomy for structural completeness.
func (d DTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.VisRelease, validation.Required),
		validation.Field(&d.Items, validation.Required),
	)
}

// NodeConversionDTO is one decoded conversion rule.
type NodeConversionDTO struct {
	Operations       []string `json:"operations"`
	Source           string   `json:"source"`
	Target           string   `json:"target,omitempty"`
	OldAssignment    string   `json:"oldAssignment,omitempty"`
	NewAssignment    string   `json:"newAssignment,omitempty"`
	DeleteAssignment bool     `json:"deleteAssignment,omitempty"`
}

// VersioningDTO is the decoded rule table for one target release, keyed by
// source node code.
type VersioningDTO struct {
	VisRelease string                       `json:"visRelease"`
	Items      map[string]NodeConversionDTO `json:"items"`
}

// Validate checks the rule table for structural completeness.
func (d VersioningDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.VisRelease, validation.Required),
	)
}
