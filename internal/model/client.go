package model

// ClientRecord is one row of the client registry.
type ClientRecord struct {
	Code           string
	NormalizedCode string // Lowercase, alphanumeric only
	NDISNumber     string
	PlanManager    string
	Aliases        []string
}
