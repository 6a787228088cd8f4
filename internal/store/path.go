package store

import (
	"fmt"
	"strings"
	"unicode"
)

// Path is a slash-delimited location in the Realtime Database. Paths are only
// built through the constructors below so every segment has been validated.
type Path struct {
	segments []string
}

// String renders the path without a leading slash, ready for the REST client.
func (p Path) String() string {
	return strings.Join(p.segments, "/")
}

// firebase forbids these characters anywhere in a key.
const forbiddenKeyChars = ".$#[]/"

func validSegment(segment string) error {
	if segment == "" {
		return fmt.Errorf("empty path segment")
	}
	if strings.ContainsAny(segment, forbiddenKeyChars) {
		return fmt.Errorf("path segment %q contains a forbidden character", segment)
	}
	return nil
}

func newPath(segments ...string) (Path, error) {
	for _, segment := range segments {
		if err := validSegment(segment); err != nil {
			return Path{}, err
		}
	}
	return Path{segments: segments}, nil
}

// UserPath addresses the metadata record for an identity-provider uid.
func UserPath(uid string) (Path, error) {
	return newPath("users", uid)
}

// ClassesPath addresses the root of all class records.
func ClassesPath() Path {
	return Path{segments: []string{"Classes"}}
}

// SectionPath addresses every student in one class section.
func SectionPath(class, section string) (Path, error) {
	return newPath("Classes", class, section)
}

// StudentPath addresses a single student record by derived key.
func StudentPath(class, section, key string) (Path, error) {
	return newPath("Classes", class, section, key)
}

// StudentKeyFromName derives the store key for a student from their name:
// the name is trimmed and every non-alphanumeric rune becomes an underscore.
//
// The derivation is intentionally not injective: "Jo-Ann" and "Jo Ann" both
// map to "Jo_Ann" and will overwrite each other. Matching the deployed data
// requires keeping this behavior; see DESIGN.md before changing it.
func StudentKeyFromName(name string) string {
	trimmed := strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if isAlphanumeric(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
