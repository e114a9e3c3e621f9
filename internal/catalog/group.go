package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/keycaplendar/api/internal/models"
)

// GroupBy is the dimension a page view groups keysets under
type GroupBy string

const (
	GroupByMonth    GroupBy = "month"
	GroupByProfile  GroupBy = "profile"
	GroupByDesigner GroupBy = "designer"
	GroupByVendor   GroupBy = "vendor"
)

// ParseGroupBy resolves a grouping dimension from a query parameter
func ParseGroupBy(s string) (GroupBy, bool) {
	switch g := GroupBy(s); g {
	case GroupByMonth, GroupByProfile, GroupByDesigner, GroupByVendor:
		return g, true
	}
	return "", false
}

// Group is one titled bucket of keysets in a page view
type Group struct {
	Title   string          `json:"title"`
	Members []models.Keyset `json:"members"`
}

// GroupAndSort partitions keysets into ordered groups for a page view.
// Month grouping buckets by UTC calendar month of the page's sort field and
// excludes keysets with no date there. Designer grouping fans a keyset out
// into one group per designer; vendor grouping buckets only under the
// first-listed vendor. Month groups order chronologically, newest first on
// the ic and previous pages; other groupings order alphabetically. Members
// order by the page's sort field with a "profile colorway" tie-break, and
// the archive page sorts members purely alphabetically.
func GroupAndSort(keysets []models.Keyset, groupBy GroupBy, page Page) []Group {
	field := page.SortField()
	buckets := make(map[string][]models.Keyset)
	monthOf := make(map[string]time.Time)

	add := func(title string, ks models.Keyset) {
		buckets[title] = append(buckets[title], ks)
	}

	for _, ks := range keysets {
		switch groupBy {
		case GroupByProfile:
			add(ks.Profile, ks)
		case GroupByDesigner:
			for _, d := range ks.Designer {
				add(d, ks)
			}
		case GroupByVendor:
			if len(ks.Vendors) > 0 {
				add(ks.Vendors[0].Name, ks)
			}
		default: // month
			t, ok := parseDate(DateValue(&ks, field))
			if !ok {
				continue
			}
			title := t.Format("January 2006")
			monthOf[title] = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
			add(title, ks)
		}
	}

	titles := make([]string, 0, len(buckets))
	for title := range buckets {
		titles = append(titles, title)
	}
	if groupBy == GroupByMonth {
		sort.Slice(titles, func(i, j int) bool {
			if page.DateDescending() {
				return monthOf[titles[i]].After(monthOf[titles[j]])
			}
			return monthOf[titles[i]].Before(monthOf[titles[j]])
		})
	} else {
		sort.Slice(titles, func(i, j int) bool {
			return strings.ToLower(titles[i]) < strings.ToLower(titles[j])
		})
	}

	groups := make([]Group, 0, len(titles))
	for _, title := range titles {
		members := buckets[title]
		sort.SliceStable(members, func(i, j int) bool {
			return memberLess(&members[i], &members[j], field, page)
		})
		groups = append(groups, Group{Title: title, Members: members})
	}
	return groups
}

// memberLess orders keysets within a group: the page's sort field first,
// falling back to whichever date a keyset does have, then the display title
// case-insensitively. Month-granularity launches sort before exact-dated
// launches sharing the month. The archive page ignores dates entirely.
func memberLess(a, b *models.Keyset, field DateField, page Page) bool {
	if page == PageArchive {
		return titleLess(a, b)
	}

	ta, hasA := sortDate(a, field)
	tb, hasB := sortDate(b, field)
	switch {
	case hasA && hasB:
		if field == FieldGBLaunch && sameMonth(ta, tb) && a.GBMonth != b.GBMonth {
			return a.GBMonth
		}
		if !ta.Equal(tb) {
			if page.DateDescending() {
				return ta.After(tb)
			}
			return ta.Before(tb)
		}
	case hasA != hasB:
		return hasA
	}
	return titleLess(a, b)
}

// sortDate resolves the sortable date of a keyset for a dimension, falling
// back through the other date fields when the primary one is absent
func sortDate(ks *models.Keyset, field DateField) (time.Time, bool) {
	if t, ok := parseDate(DateValue(ks, field)); ok {
		return t, true
	}
	for _, fallback := range []DateField{FieldICDate, FieldGBLaunch, FieldGBEnd} {
		if fallback == field {
			continue
		}
		if t, ok := parseDate(DateValue(ks, fallback)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func titleLess(a, b *models.Keyset) bool {
	return strings.ToLower(a.Title()) < strings.ToLower(b.Title())
}
