package catalog

import (
	"strings"

	"github.com/keycaplendar/api/internal/models"
)

// Vendor filter modes
const (
	VendorModeInclude = "include"
	VendorModeExclude = "exclude"
)

// Hidden tri-state values
const (
	HiddenUnhidden = "unhidden"
	HiddenOnly     = "hidden"
	HiddenAll      = "all"
)

// Shipped-state labels used by the whitelist
const (
	LabelShipped    = "Shipped"
	LabelNotShipped = "Not shipped"
)

// ShippedLabel maps a keyset's shipped flag to its whitelist label
func ShippedLabel(ks *models.Keyset) string {
	if ks.Shipped != nil && *ks.Shipped {
		return LabelShipped
	}
	return LabelNotShipped
}

// ApplyWhitelist narrows a keyset collection by the user's filter criteria.
// An empty profiles/shipped list means no narrowing on that dimension. An
// empty vendor or region list in include mode matches nothing. Membership
// sets (favorites/bought/hidden) are per-user and passed in explicitly; on
// the dedicated membership pages the corresponding membership is forced,
// elsewhere the whitelist's toggles and hidden tri-state apply.
func ApplyWhitelist(keysets []models.Keyset, wl models.Whitelist, page Page, favorites, bought, hidden map[string]bool) []models.Keyset {
	out := make([]models.Keyset, 0, len(keysets))
	for i := range keysets {
		if whitelisted(&keysets[i], wl, page, favorites, bought, hidden) {
			out = append(out, keysets[i])
		}
	}
	return out
}

func whitelisted(ks *models.Keyset, wl models.Whitelist, page Page, favorites, bought, hidden map[string]bool) bool {
	if len(wl.Profiles) > 0 && !containsFold(wl.Profiles, ks.Profile) {
		return false
	}
	if len(wl.Shipped) > 0 && !containsFold(wl.Shipped, ShippedLabel(ks)) {
		return false
	}
	if !setAllowed(ks.VendorNames(), wl.VendorMode, wl.Vendors) {
		return false
	}
	if !setAllowed(ks.VendorRegions(), wl.VendorMode, wl.Regions) {
		return false
	}

	switch page {
	case PageFavorites:
		return favorites[ks.ID]
	case PageBought:
		return bought[ks.ID]
	case PageHidden:
		return hidden[ks.ID]
	}

	switch wl.Hidden {
	case HiddenOnly:
		if !hidden[ks.ID] {
			return false
		}
	case HiddenAll:
		// no constraint
	default:
		if hidden[ks.ID] {
			return false
		}
	}
	if wl.Favorites && !favorites[ks.ID] {
		return false
	}
	if wl.Bought && !bought[ks.ID] {
		return false
	}
	return true
}

// setAllowed applies the vendor/region include-exclude condition over the
// keyset's values. Include mode passes when any value is listed, so an empty
// include list matches nothing; exclude mode passes when no value is listed,
// so an empty exclude list excludes nothing.
func setAllowed(values []string, mode string, listed []string) bool {
	if mode != VendorModeInclude {
		for _, v := range values {
			if containsFold(listed, v) {
				return false
			}
		}
		return true
	}
	for _, v := range values {
		if containsFold(listed, v) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
