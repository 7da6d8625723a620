package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/registry"
)

func testVendors() *registry.VendorTable {
	return registry.NewVendorTable([]model.VendorRule{
		{Name: "Streamline Co", FolderType: model.FolderStreamline},
		{Name: "Hand Lodge", FolderType: model.FolderManualLodgement},
		{Name: "Sunrise Therapy", FolderType: 8},
	})
}

func TestClassify(t *testing.T) {
	c := New(testVendors())

	tests := []struct {
		name       string
		filename   string
		text       string
		wantKind   model.CategoryKind
		wantVendor string
		wantMatch  model.MatchSource
	}{
		{
			name:     "ndis statement any spacing and case",
			filename: "ABC123_statement.pdf",
			text:     "Your  N D I S\nactivity   STATEMENT for March",
			wantKind: model.KindNDISStatement,
		},
		{
			name:     "ndis statement beats vendor text",
			filename: "ABC123_Streamline Co.pdf",
			text:     "Streamline Co\nNDIS Activity Statement",
			wantKind: model.KindNDISStatement,
		},
		{
			name:       "sta beats vendor",
			filename:   "ABC123_invoice.pdf",
			text:       "Streamline Co\nService: STA weekend",
			wantKind:   model.KindSTAOrRespite,
			wantVendor: "Streamline Co",
			wantMatch:  model.MatchText,
		},
		{
			name:     "numbered sta",
			filename: "ABC123_invoice.pdf",
			text:     "Booking 3STA nights",
			wantKind: model.KindSTAOrRespite,
		},
		{
			name:     "numbered sta glued to a reference",
			filename: "ABC123_invoice.pdf",
			text:     "Ref inv12sta weekend",
			wantKind: model.KindSTAOrRespite,
		},
		{
			name:     "respite marker",
			filename: "ABC123_invoice.pdf",
			text:     "Support inc.   respite hours",
			wantKind: model.KindSTAOrRespite,
		},
		{
			name:     "sta inside a word does not count",
			filename: "ABC123_invoice.pdf",
			text:     "Station road, stationery",
			wantKind: model.KindNewProvider,
		},
		{
			name:       "vendor in text whitespace insensitive",
			filename:   "ABC123_invoice.pdf",
			text:       "Invoice from STREAMLINE  CO pty ltd",
			wantKind:   model.KindVendor,
			wantVendor: "Streamline Co",
			wantMatch:  model.MatchText,
		},
		{
			name:       "vendor in filename fallback",
			filename:   "ABC123_sunrise-therapy_march.pdf",
			text:       "illegible scan",
			wantKind:   model.KindVendor,
			wantVendor: "Sunrise Therapy",
			wantMatch:  model.MatchFilename,
		},
		{
			name:       "text vendor preferred over filename vendor",
			filename:   "Sunrise Therapy.pdf",
			text:       "Hand Lodge invoice",
			wantKind:   model.KindVendor,
			wantVendor: "Hand Lodge",
			wantMatch:  model.MatchText,
		},
		{
			name:     "unknown provider",
			filename: "ABC123_invoice.pdf",
			text:     "Somebody Else Pty Ltd",
			wantKind: model.KindNewProvider,
		},
		{
			name:     "no text and no vendor",
			filename: "scan0001.jpg",
			wantKind: model.KindNewProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.filename, tt.text)
			assert.Equal(t, tt.wantKind, got.Kind)
			if tt.wantVendor == "" {
				if tt.wantKind != model.KindSTAOrRespite {
					assert.Nil(t, got.Vendor)
				}
				return
			}
			require.NotNil(t, got.Vendor)
			assert.Equal(t, tt.wantVendor, got.Vendor.Name)
			assert.Equal(t, tt.wantMatch, got.VendorMatch)
		})
	}
}

func TestClassify_Signals(t *testing.T) {
	c := New(testVendors())

	got := c.Classify("x.pdf", "STA stay inc. respite")
	assert.True(t, got.FoundSTA)
	assert.True(t, got.FoundRespite)
	assert.Equal(t, "sta_respite", got.String())
}

func TestNewWithMarkers_InvalidRegex(t *testing.T) {
	_, err := NewWithMarkers(testVendors(), []Marker{{Name: "bad", Kind: MarkerSTA, Regex: `[unclosed`}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestInconclusive(t *testing.T) {
	rule := model.VendorRule{Name: "Streamline Co"}

	tests := []struct {
		name string
		cat  model.Category
		want bool
	}{
		{name: "new provider", cat: model.Category{Kind: model.KindNewProvider}, want: true},
		{name: "filename vendor", cat: model.Category{Kind: model.KindVendor, Vendor: &rule, VendorMatch: model.MatchFilename}, want: true},
		{name: "text vendor", cat: model.Category{Kind: model.KindVendor, Vendor: &rule, VendorMatch: model.MatchText}, want: false},
		{name: "ndis statement", cat: model.Category{Kind: model.KindNDISStatement}, want: false},
		{name: "sta", cat: model.Category{Kind: model.KindSTAOrRespite, FoundSTA: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Inconclusive(tt.cat))
		})
	}
}
