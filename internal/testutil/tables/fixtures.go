package tables

import "github.com/Veraticus/docsort/internal/model"

// Fixture is a predefined set of registry rows.
type Fixture interface {
	Name() string
	Vendors() []model.VendorRule
	Clients() []model.ClientRecord
}

type fixture struct {
	name    string
	vendors []model.VendorRule
	clients []model.ClientRecord
}

func (f *fixture) Name() string                  { return f.name }
func (f *fixture) Vendors() []model.VendorRule   { return f.vendors }
func (f *fixture) Clients() []model.ClientRecord { return f.clients }

// Predefined fixtures for common test scenarios.
var (
	// FixtureStandard has one vendor per standard folder type, one vendor
	// with its own folder, and two clients.
	FixtureStandard Fixture = &fixture{
		name: "Standard",
		vendors: []model.VendorRule{
			{Name: string(VendorStreamline), FolderType: model.FolderStreamline},
			{Name: string(VendorHandLodge), FolderType: model.FolderManualLodgement},
			{Name: string(VendorGearCo), FolderType: model.FolderATConsumables},
			{Name: string(VendorSunrise), FolderType: 7},
		},
		clients: []model.ClientRecord{
			{Code: "ABC123", PlanManager: "Acme Plans"},
			{Code: "XY-77", PlanManager: "Beta Plan Co"},
		},
	}
)
