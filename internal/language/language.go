// Package language normalizes user-supplied target language identifiers to
// the ISO 639-1 codes the voice table is keyed by.
package language

import (
	"errors"
	"fmt"
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize canonicalizes a language identifier ("hi", "hin", "hi-IN") to its
// ISO 639-1 base code. It errors on empty or unparseable input so bad codes
// are rejected at submission instead of surfacing mid-pipeline.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.New("target language required")
	}
	tag, err := xlang.Parse(code)
	if err != nil {
		return "", fmt.Errorf("unrecognized language %q", code)
	}
	base, confidence := tag.Base()
	if confidence == xlang.No {
		return "", fmt.Errorf("unrecognized language %q", code)
	}
	return base.String(), nil
}

// DisplayName returns a human-readable English name for a language code, or
// the uppercased code when no name is known.
func DisplayName(code string) string {
	normalized, err := Normalize(code)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	tag := xlang.MustParse(normalized)
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(normalized)
}

// Supported reports whether code normalizes to one of the supported codes.
func Supported(code string, supported []string) bool {
	normalized, err := Normalize(code)
	if err != nil {
		return false
	}
	for _, candidate := range supported {
		if normalized == candidate {
			return true
		}
	}
	return false
}
