// Package routing resolves destination directories from classification
// results and plan managers.
package routing

import "path/filepath"

// Layout names the folders of the destination tree. Relative names are
// joined to the destination root; absolute names are used as is.
type Layout struct {
	Unassigned       string `mapstructure:"unassigned"`
	STA              string `mapstructure:"sta"`
	Streamline       string `mapstructure:"streamline"`
	ManualLodgement  string `mapstructure:"manual_lodgement"`
	ATConsumables    string `mapstructure:"at_consumables"`
	NewProvider      string `mapstructure:"new_provider"`
	NDISStatements   string `mapstructure:"ndis_statements"`
	Receipts         string `mapstructure:"receipts"`
	FailedRoot       string `mapstructure:"failed_root"`
	FailedStreamline string `mapstructure:"failed_streamline"`
	FailedManual     string `mapstructure:"failed_manual"`
	FailedAT         string `mapstructure:"failed_at"`
	Quarantine       string `mapstructure:"quarantine"`
}

// DefaultLayout returns the standard folder names.
func DefaultLayout() Layout {
	return Layout{
		Unassigned:       "Unassigned Plan Manager",
		STA:              "STA and Assistance",
		Streamline:       "Streamline Invoices",
		ManualLodgement:  "Manual Lodgement",
		ATConsumables:    "AT&Consumables",
		NewProvider:      "New Provider",
		NDISStatements:   "NDIS Activity Statement",
		Receipts:         "Renamed Receipts",
		FailedRoot:       "Failed to Code",
		FailedStreamline: "Streamline failed to code",
		FailedManual:     "Failed Manual Lodgment",
		FailedAT:         "Failed AT&Consumables",
		Quarantine:       "Could not move",
	}
}

// withDefaults fills empty names from DefaultLayout.
func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&l.Unassigned, d.Unassigned)
	fill(&l.STA, d.STA)
	fill(&l.Streamline, d.Streamline)
	fill(&l.ManualLodgement, d.ManualLodgement)
	fill(&l.ATConsumables, d.ATConsumables)
	fill(&l.NewProvider, d.NewProvider)
	fill(&l.NDISStatements, d.NDISStatements)
	fill(&l.Receipts, d.Receipts)
	fill(&l.FailedRoot, d.FailedRoot)
	fill(&l.FailedStreamline, d.FailedStreamline)
	fill(&l.FailedManual, d.FailedManual)
	fill(&l.FailedAT, d.FailedAT)
	fill(&l.Quarantine, d.Quarantine)
	return l
}

func under(root, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(root, name)
}
