package ens

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"

	assoccommon "github.com/tranvictor/assoc/common"
)

// UTS-46 non-transitional mapping with label validation. STD3 rules are off
// because ENS allows a leading underscore; ASCII is checked separately below.
var profile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
	idna.VerifyDNSLength(false),
)

// Normalize returns the canonical form of name. It case folds, applies NFC and
// UTS-46 mapping and rejects empty labels and disallowed characters.
func Normalize(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty name", assoccommon.ErrNormalization)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: %q is not valid utf-8", assoccommon.ErrNormalization, name)
	}
	composed := norm.NFC.String(name)
	// The mapping decodes xn-- labels, so label extensions are rejected on
	// the compatibility-folded input before it runs.
	for _, label := range strings.FieldsFunc(norm.NFKC.String(strings.ToLower(composed)), isLabelSeparator) {
		if hasLabelExtension(label) {
			return "", fmt.Errorf("%w: %q: invalid label extension %q", assoccommon.ErrNormalization, name, label)
		}
	}
	mapped, err := profile.ToUnicode(composed)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", assoccommon.ErrNormalization, name, err)
	}
	for _, label := range strings.Split(mapped, ".") {
		if err := checkLabel(label); err != nil {
			return "", fmt.Errorf("%w: %q: %w", assoccommon.ErrNormalization, name, err)
		}
	}
	return mapped, nil
}

// isLabelSeparator matches the full stops UTS-46 maps to ".".
func isLabelSeparator(r rune) bool {
	switch r {
	case '.', '\u3002', '\uff0e', '\uff61':
		return true
	}
	return false
}

// hasLabelExtension reports "--" as the 3rd and 4th characters, the form of
// punycode and other IDNA extension labels.
func hasLabelExtension(label string) bool {
	r := []rune(label)
	return len(r) >= 4 && r[2] == '-' && r[3] == '-'
}

func checkLabel(label string) error {
	if label == "" {
		return fmt.Errorf("empty label")
	}
	if hasLabelExtension(label) {
		return fmt.Errorf("invalid label extension %q", label)
	}
	leading := true
	for _, r := range label {
		if r == '_' {
			if !leading {
				return fmt.Errorf("underscore allowed only at the start of a label")
			}
			continue
		}
		leading = false
		if r >= utf8.RuneSelf {
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return fmt.Errorf("disallowed character %q", r)
		}
	}
	return nil
}
