package codebook

import (
	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

// Codebooks holds all eleven codebooks of one release. The detail codebook
// always exists, with an empty standard set when the table omits it.
// Immutable after construction.
type Codebooks struct {
	version vis.Version
	books   [NameCount]*Codebook
}

// NewCodebooks builds the collection from decoded table data.
func NewCodebooks(version vis.Version, dto CollectionDTO) (*Codebooks, error) {
	c := &Codebooks{version: version}
	for _, item := range dto.Items {
		book, err := FromDTO(item)
		if err != nil {
			return nil, err
		}
		c.books[book.name-1] = book
	}
	if c.books[NameDetail-1] == nil {
		detail, err := FromDTO(DTO{Name: "detail", Values: map[string][]string{}})
		if err != nil {
			return nil, err
		}
		c.books[NameDetail-1] = detail
	}
	return c, nil
}

// Version returns the release this collection belongs to.
func (c *Codebooks) Version() vis.Version { return c.version }

// Codebook returns the codebook for name.
func (c *Codebooks) Codebook(name Name) (*Codebook, error) {
	if !name.IsValid() {
		return nil, errors.UnknownVocabulary("codebook name %d", int(name))
	}
	book := c.books[name-1]
	if book == nil {
		return nil, errors.NotFound("codebook %s in release %s", name, c.version)
	}
	return book, nil
}

// TryCreateTag validates value against the named codebook.
func (c *Codebooks) TryCreateTag(name Name, value string) (Tag, bool) {
	book, err := c.Codebook(name)
	if err != nil {
		return Tag{}, false
	}
	return book.TryCreateTag(value)
}

// CreateTag validates value against the named codebook, erroring on
// rejection.
func (c *Codebooks) CreateTag(name Name, value string) (Tag, error) {
	book, err := c.Codebook(name)
	if err != nil {
		return Tag{}, err
	}
	return book.CreateTag(value)
}

// Each calls fn for every present codebook in enum order. fn returning
// false stops iteration.
func (c *Codebooks) Each(fn func(Name, *Codebook) bool) {
	for _, book := range c.books {
		if book == nil {
			continue
		}
		if !fn(book.name, book) {
			return
		}
	}
}
