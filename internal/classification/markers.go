// Package classification decides which routing category a document belongs to.
package classification

import (
	"fmt"
	"regexp"
)

// MarkerKind identifies what a text marker signals.
type MarkerKind string

const (
	// MarkerSTA signals short-term accommodation.
	MarkerSTA MarkerKind = "sta"
	// MarkerRespite signals respite care.
	MarkerRespite MarkerKind = "respite"
)

// Marker is a regular expression matched against case folded text with
// whitespace runs collapsed to single spaces.
type Marker struct {
	Name  string
	Kind  MarkerKind
	Regex string
}

// DefaultMarkers returns the built-in STA and respite markers.
func DefaultMarkers() []Marker {
	return []Marker{
		{Name: "STA", Kind: MarkerSTA, Regex: `\bsta\b`},
		{Name: "Numbered STA", Kind: MarkerSTA, Regex: `\d+sta\b`},
		{Name: "Included respite", Kind: MarkerRespite, Regex: `inc\.\s*respite`},
	}
}

type compiledMarker struct {
	regex *regexp.Regexp
	Marker
}

func compileMarkers(markers []Marker) ([]compiledMarker, error) {
	compiled := make([]compiledMarker, 0, len(markers))
	for _, m := range markers {
		regex, err := regexp.Compile(m.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile marker %s: %w", m.Name, err)
		}
		compiled = append(compiled, compiledMarker{Marker: m, regex: regex})
	}
	return compiled, nil
}
