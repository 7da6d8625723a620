package model

// FolderType is the routing type declared for a vendor in the vendor table.
type FolderType int

const (
	// FolderStreamline routes to the Streamline invoices folder.
	FolderStreamline FolderType = 1
	// FolderManualLodgement routes to the manual lodgement folder.
	FolderManualLodgement FolderType = 2
	// FolderATConsumables routes to the AT & consumables folder.
	FolderATConsumables FolderType = 3
)

// IsStandard reports whether the type maps to one of the fixed subfolders.
// Any other type is routed to a folder named after the vendor itself.
func (f FolderType) IsStandard() bool {
	switch f {
	case FolderStreamline, FolderManualLodgement, FolderATConsumables:
		return true
	}
	return false
}

// VendorRule maps a vendor name or alias to its routing type.
type VendorRule struct {
	Name       string
	Key        string // Name with whitespace removed and case folded
	FolderType FolderType
}
