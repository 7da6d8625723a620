package classification

import (
	"strings"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/model"
)

// ndisStatementKey is "NDIS Activity Statement" with whitespace removed and case folded.
const ndisStatementKey = "ndisactivitystatement"

// VendorMatcher finds the vendor rule for a document.
type VendorMatcher interface {
	// Match scans text that has had whitespace removed and been case folded.
	Match(squashed string) (model.VendorRule, bool)
	MatchFilename(filename string) (model.VendorRule, bool)
}

// Classifier applies the fixed precedence: NDIS statement, then STA or
// respite markers, then vendor in text, then vendor in filename, then new provider.
type Classifier struct {
	vendors VendorMatcher
	markers []compiledMarker
}

// New creates a classifier using the default markers.
func New(vendors VendorMatcher) *Classifier {
	c, err := NewWithMarkers(vendors, DefaultMarkers())
	if err != nil {
		panic(err) // default markers always compile
	}
	return c
}

// NewWithMarkers creates a classifier with custom STA and respite markers.
func NewWithMarkers(vendors VendorMatcher, markers []Marker) (*Classifier, error) {
	compiled, err := compileMarkers(markers)
	if err != nil {
		return nil, err
	}
	return &Classifier{vendors: vendors, markers: compiled}, nil
}

// Classify returns the category for a document given its filename and any
// recognized text. Text may be empty.
func (c *Classifier) Classify(filename, text string) model.Category {
	squashed := common.Squash(text)
	if strings.Contains(squashed, ndisStatementKey) {
		return model.Category{Kind: model.KindNDISStatement}
	}

	var cat model.Category
	if text != "" {
		collapsed := common.CollapseSpace(text)
		for _, m := range c.markers {
			if !m.regex.MatchString(collapsed) {
				continue
			}
			switch m.Kind {
			case MarkerSTA:
				cat.FoundSTA = true
			case MarkerRespite:
				cat.FoundRespite = true
			}
		}
	}

	if rule, ok := c.vendors.Match(squashed); ok {
		cat.Vendor = &rule
		cat.VendorMatch = model.MatchText
	} else if rule, ok := c.vendors.MatchFilename(filename); ok {
		cat.Vendor = &rule
		cat.VendorMatch = model.MatchFilename
	}

	switch {
	case cat.FoundSTA || cat.FoundRespite:
		cat.Kind = model.KindSTAOrRespite
	case cat.Vendor != nil:
		cat.Kind = model.KindVendor
	default:
		cat.Kind = model.KindNewProvider
	}
	return cat
}

// Inconclusive reports whether cat rests only on the filename, so that a
// stronger text source could still change the verdict.
func Inconclusive(cat model.Category) bool {
	switch cat.Kind {
	case model.KindNewProvider:
		return true
	case model.KindVendor:
		return cat.VendorMatch != model.MatchText
	}
	return false
}
