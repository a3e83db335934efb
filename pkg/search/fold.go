// Package search holds the case-insensitive substring match used by listings.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in the form terms and fields are compared in.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Term prepares a raw query. An empty result matches everything.
func Term(raw string) string {
	return Fold(strings.TrimSpace(raw))
}

// Any reports whether one of fields contains the prepared term.
func Any(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), term) {
			return true
		}
	}
	return false
}
