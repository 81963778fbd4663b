package vis

import (
	"github.com/c360/vismodel/errors"
)

// Version identifies a release of the vessel information structure.
// The zero value is invalid.
type Version int

const (
	// VersionInvalid is the zero value and matches no release.
	VersionInvalid Version = iota
	// Version3_4a is release 3-4a.
	Version3_4a
	// Version3_5a is release 3-5a.
	Version3_5a
	// Version3_6a is release 3-6a.
	Version3_6a
	// Version3_7a is release 3-7a.
	Version3_7a
	// Version3_8a is release 3-8a.
	Version3_8a
)

var versionStrings = map[Version]string{
	Version3_4a: "3-4a",
	Version3_5a: "3-5a",
	Version3_6a: "3-6a",
	Version3_7a: "3-7a",
	Version3_8a: "3-8a",
}

var versionsByString = map[string]Version{
	"3-4a": Version3_4a,
	"3-5a": Version3_5a,
	"3-6a": Version3_6a,
	"3-7a": Version3_7a,
	"3-8a": Version3_8a,
}

// All returns every defined version in ascending order.
func All() []Version {
	return []Version{Version3_4a, Version3_5a, Version3_6a, Version3_7a, Version3_8a}
}

// Latest returns the newest defined version.
func Latest() Version { return Version3_8a }

// String returns the canonical form, e.g. "3-4a". Invalid versions
// return "invalid".
func (v Version) String() string {
	if s, ok := versionStrings[v]; ok {
		return s
	}
	return "invalid"
}

// IsValid reports whether v is a defined release.
func (v Version) IsValid() bool {
	_, ok := versionStrings[v]
	return ok
}

// Next returns the release following v. The second return is false when v
// is the latest release or invalid.
func (v Version) Next() (Version, bool) {
	if !v.IsValid() || v == Latest() {
		return VersionInvalid, false
	}
	return v + 1, true
}

// Prev returns the release preceding v. The second return is false when v
// is the earliest release or invalid.
func (v Version) Prev() (Version, bool) {
	if !v.IsValid() || v == Version3_4a {
		return VersionInvalid, false
	}
	return v - 1, true
}

// Parse converts the canonical string form into a Version.
func Parse(s string) (Version, error) {
	if v, ok := versionsByString[s]; ok {
		return v, nil
	}
	return VersionInvalid, errors.NotFound("vis version %q", s)
}

// MustParse is Parse but panics on failure. Intended for static data.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
