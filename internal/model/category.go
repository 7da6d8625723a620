package model

// CategoryKind is the outcome class produced by the classifier.
type CategoryKind string

const (
	// KindNDISStatement marks an NDIS activity statement.
	KindNDISStatement CategoryKind = "ndis_statement"
	// KindSTAOrRespite marks short-term accommodation or respite invoices.
	KindSTAOrRespite CategoryKind = "sta_respite"
	// KindVendor marks a document attributed to a known vendor.
	KindVendor CategoryKind = "vendor"
	// KindNewProvider marks a document with no recognized vendor.
	KindNewProvider CategoryKind = "new_provider"
)

// MatchSource records where a vendor match came from.
type MatchSource string

const (
	// MatchNone means no vendor matched.
	MatchNone MatchSource = ""
	// MatchText means the vendor was found in recognized text.
	MatchText MatchSource = "text"
	// MatchFilename means the vendor was found in the filename stem.
	MatchFilename MatchSource = "filename"
)

// Category is the classifier's verdict for one document.
type Category struct {
	Vendor       *VendorRule
	Kind         CategoryKind
	VendorMatch  MatchSource
	FoundSTA     bool
	FoundRespite bool
}

// String returns a short human label for logs and reports.
func (c Category) String() string {
	if c.Kind == KindVendor && c.Vendor != nil {
		return string(c.Kind) + ":" + c.Vendor.Name
	}
	return string(c.Kind)
}
