package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docsort/internal/common"
)

func TestBuilder(t *testing.T) {
	vendors, clients := NewBuilder(t).
		WithFixture(FixtureStandard).
		WithVendor("Extra Vendor", 12).
		WithClient("ZZ9", "Zed Plans").
		Build()

	assert.Equal(t, 5, vendors.Len())
	assert.Equal(t, 3, clients.Len())

	rule, ok := vendors.Match(common.Squash("invoice from streamline co"))
	require.True(t, ok)
	assert.Equal(t, string(VendorStreamline), rule.Name)

	assert.Equal(t, "Beta Plan Co", clients.ResolvePlanManager("XY77 march.pdf"))
	assert.Equal(t, "Zed Plans", clients.ResolvePlanManager("zz9_invoice.pdf"))
}
