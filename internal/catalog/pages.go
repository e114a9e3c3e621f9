package catalog

import (
	"time"

	"github.com/keycaplendar/api/internal/models"
)

// Page is one of the named catalog views, each with its own partitioning
// and sort rule
type Page string

const (
	PageCalendar Page = "calendar"
	PageLive     Page = "live"
	PageIC       Page = "ic"
	PagePrevious Page = "previous"
	PageTimeline Page = "timeline"
	PageArchive  Page = "archive"

	// App-only views; membership comes from per-user lists, not dates
	PageFavorites Page = "favorites"
	PageBought    Page = "bought"
	PageHidden    Page = "hidden"
)

// DateField names a keyset date dimension
type DateField string

const (
	FieldICDate   DateField = "icDate"
	FieldGBLaunch DateField = "gbLaunch"
	FieldGBEnd    DateField = "gbEnd"
)

var apiPages = map[Page]bool{
	PageCalendar: true,
	PageLive:     true,
	PageIC:       true,
	PagePrevious: true,
	PageTimeline: true,
	PageArchive:  true,
}

// ParsePage resolves a page name from the external API; only the
// date-partitioned views are addressable there
func ParsePage(s string) (Page, bool) {
	p := Page(s)
	return p, apiPages[p]
}

// SortField is the date dimension a page orders by
func (p Page) SortField() DateField {
	switch p {
	case PageIC:
		return FieldICDate
	case PageLive, PagePrevious:
		return FieldGBEnd
	default:
		return FieldGBLaunch
	}
}

// DateDescending reports whether a page orders newest-first
func (p Page) DateDescending() bool {
	return p == PageIC || p == PagePrevious
}

// PageConditions decides, for each date-partitioned page, whether the keyset
// belongs on it. All comparisons are UTC; today must be injected by the
// caller so the result is deterministic.
func PageConditions(ks *models.Keyset, today time.Time) map[Page]bool {
	today = today.UTC()
	yesterday := today.Add(-24 * time.Hour)

	startDate, hasStart := parseDate(ks.GBLaunch)
	endDate, hasEnd := parseDate(ks.GBEnd)
	if hasEnd {
		endDate = endOfDay(endDate)
	}

	// Live runs from launch until the end date has passed; a missing end
	// date keeps the GB open-ended.
	live := hasStart && !startDate.After(today) &&
		(!hasEnd || !endDate.Before(yesterday))

	return map[Page]bool{
		PageIC:       ks.GBLaunch == "" || isQuarter(ks.GBLaunch),
		PageLive:     live,
		PageCalendar: (hasStart && startDate.After(today)) || live,
		PagePrevious: hasEnd && !endDate.After(yesterday),
		PageTimeline: ks.GBLaunch != "" && !isQuarter(ks.GBLaunch),
		PageArchive:  true,
	}
}

// OnPage reports whether a keyset belongs on a single page
func OnPage(ks *models.Keyset, page Page, today time.Time) bool {
	return PageConditions(ks, today)[page]
}

// DateValue returns the keyset's value for a date dimension
func DateValue(ks *models.Keyset, field DateField) string {
	switch field {
	case FieldICDate:
		return ks.ICDate
	case FieldGBEnd:
		return ks.GBEnd
	default:
		return ks.GBLaunch
	}
}
