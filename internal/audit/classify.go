// Package audit classifies keyset writes into changelog actions and prunes
// before/after snapshot pairs down to the fields that actually changed.
package audit

import (
	"sort"
	"strings"

	"github.com/keycaplendar/api/internal/models"
)

// Diff is the classified, pruned form of one keyset write
type Diff struct {
	Action string
	Before *models.PartialKeyset
	After  *models.PartialKeyset
}

// Classify determines the action kind of a write from its snapshots and,
// for updates, prunes both sides to the changed fields. A snapshot with no
// profile counts as absent, so malformed input degrades to created/deleted
// rather than failing. Profile and colorway are always retained on updates;
// they anchor the display title.
func Classify(before, after *models.Keyset) Diff {
	switch {
	case before.IsDeleteMarker():
		return Diff{Action: models.ActionCreated, After: partial(after)}
	case after.IsDeleteMarker():
		return Diff{Action: models.ActionDeleted, Before: partial(before)}
	}

	b := &models.PartialKeyset{Profile: &before.Profile, Colorway: &before.Colorway}
	a := &models.PartialKeyset{Profile: &after.Profile, Colorway: &after.Colorway}

	if !designersEqual(before.Designer, after.Designer) {
		b.Designer, a.Designer = before.Designer, after.Designer
	}
	if before.ICDate != after.ICDate {
		b.ICDate, a.ICDate = &before.ICDate, &after.ICDate
	}
	if before.Details != after.Details {
		b.Details, a.Details = &before.Details, &after.Details
	}
	if before.Notes != after.Notes {
		b.Notes, a.Notes = &before.Notes, &after.Notes
	}
	if before.GBMonth != after.GBMonth {
		b.GBMonth, a.GBMonth = &before.GBMonth, &after.GBMonth
	}
	if before.GBLaunch != after.GBLaunch {
		b.GBLaunch, a.GBLaunch = &before.GBLaunch, &after.GBLaunch
	}
	if before.GBEnd != after.GBEnd {
		b.GBEnd, a.GBEnd = &before.GBEnd, &after.GBEnd
	}
	if before.Image != after.Image {
		b.Image, a.Image = &before.Image, &after.Image
	}
	if !shippedEqual(before.Shipped, after.Shipped) {
		b.Shipped, a.Shipped = before.Shipped, after.Shipped
	}
	if !vendorsEqual(before.Vendors, after.Vendors) {
		b.Vendors, a.Vendors = before.Vendors, after.Vendors
	}
	if !salesEqual(before.Sales, after.Sales) {
		b.Sales, a.Sales = before.Sales, after.Sales
	}

	return Diff{Action: models.ActionUpdated, Before: b, After: a}
}

// partial converts a full snapshot into its partial form with every present
// field set
func partial(ks *models.Keyset) *models.PartialKeyset {
	if ks == nil {
		return nil
	}
	p := &models.PartialKeyset{
		Profile:  &ks.Profile,
		Colorway: &ks.Colorway,
		Designer: ks.Designer,
		Vendors:  ks.Vendors,
		Sales:    ks.Sales,
		Shipped:  ks.Shipped,
	}
	if ks.ICDate != "" {
		p.ICDate = &ks.ICDate
	}
	if ks.Details != "" {
		p.Details = &ks.Details
	}
	if ks.Notes != "" {
		p.Notes = &ks.Notes
	}
	if ks.GBMonth {
		p.GBMonth = &ks.GBMonth
	}
	if ks.GBLaunch != "" {
		p.GBLaunch = &ks.GBLaunch
	}
	if ks.GBEnd != "" {
		p.GBEnd = &ks.GBEnd
	}
	if ks.Image != "" {
		p.Image = &ks.Image
	}
	return p
}

// designersEqual is order-sensitive: designer order affects the display
// concatenation
func designersEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// shippedEqual treats an absent flag and an explicit false as equivalent
func shippedEqual(a, b *bool) bool {
	return (a == nil || !*a) == (b == nil || !*b)
}

// vendorsEqual compares vendor lists after sorting both sides by region,
// since vendor insertion order is not semantically meaningful
func vendorsEqual(a, b []models.Vendor) bool {
	if len(a) != len(b) {
		return false
	}
	sa := sortedByRegion(a)
	sb := sortedByRegion(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func sortedByRegion(vendors []models.Vendor) []models.Vendor {
	out := make([]models.Vendor, len(vendors))
	copy(out, vendors)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Region) < strings.ToLower(out[j].Region)
	})
	return out
}

// salesEqual treats a nil sales block and a zero-valued one as equivalent
func salesEqual(a, b *models.Sales) bool {
	av, bv := models.Sales{}, models.Sales{}
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}
