// Package tables builds vendor and client registries for tests through a
// fluent API, so tests state only the rows they depend on.
//
// Example usage:
//
//	vendors, clients := tables.NewBuilder(t).
//		WithFixture(tables.FixtureStandard).
//		WithClient("ABC123", "Acme Plans").
//		Build()
package tables

import (
	"testing"

	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/registry"
)

// Builder provides a fluent interface for constructing test registries.
type Builder interface {
	// WithVendor appends a vendor rule.
	WithVendor(name VendorName, folderType model.FolderType) Builder

	// WithClient appends a client with a plan manager.
	WithClient(code, planManager string) Builder

	// WithFixture appends every row of a predefined fixture.
	WithFixture(fixture Fixture) Builder

	// Build returns the vendor table and the client registry.
	Build() (*registry.VendorTable, *registry.ClientRegistry)
}

// VendorName is a strongly-typed vendor name used across tests.
type VendorName string

// Common vendor names used across tests.
const (
	VendorStreamline VendorName = "Streamline Co"
	VendorHandLodge  VendorName = "Hand Lodge"
	VendorGearCo     VendorName = "Gear Co"
	VendorSunrise    VendorName = "Sunrise Therapy"
)

type tableBuilder struct {
	t       *testing.T
	vendors []model.VendorRule
	clients []model.ClientRecord
}

// NewBuilder creates a new registry builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &tableBuilder{t: t}
}

func (b *tableBuilder) WithVendor(name VendorName, folderType model.FolderType) Builder {
	b.vendors = append(b.vendors, model.VendorRule{Name: string(name), FolderType: folderType})
	return b
}

func (b *tableBuilder) WithClient(code, planManager string) Builder {
	b.clients = append(b.clients, model.ClientRecord{Code: code, PlanManager: planManager})
	return b
}

func (b *tableBuilder) WithFixture(fixture Fixture) Builder {
	b.vendors = append(b.vendors, fixture.Vendors()...)
	b.clients = append(b.clients, fixture.Clients()...)
	return b
}

func (b *tableBuilder) Build() (*registry.VendorTable, *registry.ClientRegistry) {
	b.t.Helper()
	vendors := registry.NewVendorTable(b.vendors)
	if vendors.Len() != len(b.vendors) {
		b.t.Fatalf("test vendor table dropped rules: built %d of %d", vendors.Len(), len(b.vendors))
	}
	return vendors, registry.NewClientRegistry(b.clients)
}
