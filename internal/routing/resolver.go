package routing

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Veraticus/docsort/internal/model"
)

// UnassignedLabel is reported as the plan manager when none was resolved.
const UnassignedLabel = "Unassigned"

var illegalPathChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Sanitize replaces characters that are not allowed in folder names and
// trims surrounding whitespace.
func Sanitize(name string) string {
	return strings.TrimSpace(illegalPathChars.ReplaceAllString(name, "_"))
}

// Resolver maps classifications to directories under one destination root.
type Resolver struct {
	root   string
	layout Layout
}

// NewResolver creates a resolver for destRoot. Empty layout names take
// their defaults.
func NewResolver(destRoot string, layout Layout) *Resolver {
	return &Resolver{root: filepath.Clean(destRoot), layout: layout.withDefaults()}
}

// Root returns the destination root.
func (r *Resolver) Root() string {
	return r.root
}

// PlanManagerRoot returns the folder for a plan manager label, or the
// unassigned folder when the label is empty after sanitizing.
func (r *Resolver) PlanManagerRoot(planManager string) string {
	safe := Sanitize(planManager)
	if safe == "" {
		return under(r.root, r.layout.Unassigned)
	}
	return filepath.Join(r.root, safe)
}

// Resolve returns the destination directory for a standard source document.
func (r *Resolver) Resolve(cat model.Category, planManager string) model.RoutingDecision {
	decision := model.RoutingDecision{
		Category:    cat,
		PlanManager: strings.TrimSpace(planManager),
	}
	if decision.PlanManager == "" {
		decision.PlanManager = UnassignedLabel
	}

	if cat.Kind == model.KindNDISStatement {
		decision.DestinationDir = under(r.root, r.layout.NDISStatements)
		decision.Reason = "NDIS activity statement"
		return decision
	}

	base := r.PlanManagerRoot(planManager)
	switch cat.Kind {
	case model.KindSTAOrRespite:
		decision.DestinationDir = filepath.Join(base, r.layout.STA)
		decision.Reason = "STA or respite marker"
	case model.KindVendor:
		decision.DestinationDir, decision.Reason = r.vendorDir(base, cat.Vendor)
	default:
		decision.DestinationDir = filepath.Join(base, r.layout.NewProvider)
		decision.Reason = "no vendor matched"
	}
	return decision
}

func (r *Resolver) vendorDir(base string, vendor *model.VendorRule) (string, string) {
	if vendor == nil {
		return filepath.Join(base, r.layout.NewProvider), "no vendor matched"
	}
	reason := fmt.Sprintf("vendor %s (type %d)", vendor.Name, vendor.FolderType)
	switch vendor.FolderType {
	case model.FolderStreamline:
		return filepath.Join(base, r.layout.Streamline), reason
	case model.FolderManualLodgement:
		return filepath.Join(base, r.layout.ManualLodgement), reason
	case model.FolderATConsumables:
		return filepath.Join(base, r.layout.ATConsumables), reason
	}
	if name := Sanitize(vendor.Name); name != "" {
		return filepath.Join(base, name), reason
	}
	return filepath.Join(base, r.layout.NewProvider), reason
}

// ResolveFailed returns the destination for a document from the failed
// source. Plan managers are not consulted; NDIS statements still go to the
// statement folder.
func (r *Resolver) ResolveFailed(cat model.Category) model.RoutingDecision {
	decision := model.RoutingDecision{Category: cat, PlanManager: UnassignedLabel}

	if cat.Kind == model.KindNDISStatement {
		decision.DestinationDir = under(r.root, r.layout.NDISStatements)
		decision.Reason = "NDIS activity statement"
		return decision
	}

	failed := r.FailedRoot()
	decision.DestinationDir = failed
	decision.Reason = "unknown failed invoice"
	if cat.Vendor == nil {
		return decision
	}

	decision.Reason = fmt.Sprintf("failed invoice for vendor %s (type %d)", cat.Vendor.Name, cat.Vendor.FolderType)
	switch cat.Vendor.FolderType {
	case model.FolderStreamline:
		decision.DestinationDir = filepath.Join(failed, r.layout.FailedStreamline)
	case model.FolderManualLodgement:
		decision.DestinationDir = filepath.Join(failed, r.layout.FailedManual)
	case model.FolderATConsumables:
		decision.DestinationDir = filepath.Join(failed, r.layout.FailedAT)
	}
	return decision
}

// Receipts returns the receipts folder.
func (r *Resolver) Receipts() string {
	return under(r.root, r.layout.Receipts)
}

// FailedRoot returns the folder for documents that failed coding.
func (r *Resolver) FailedRoot() string {
	return under(r.root, r.layout.FailedRoot)
}

// Corrupt returns the folder that receives unreadable documents.
func (r *Resolver) Corrupt() string {
	return r.FailedRoot()
}

// Quarantine returns the folder for files that could not be moved.
func (r *Resolver) Quarantine() string {
	return under(r.FailedRoot(), r.layout.Quarantine)
}
