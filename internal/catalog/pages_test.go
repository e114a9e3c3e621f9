package catalog_test

import (
	"testing"
	"time"

	"github.com/keycaplendar/api/internal/catalog"
	"github.com/keycaplendar/api/internal/models"
)

var today = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestPageConditions_InterestCheck(t *testing.T) {
	ks := &models.Keyset{Profile: "GMK", Colorway: "Pending", ICDate: "2024-01-02"}

	conds := catalog.PageConditions(ks, today)
	if !conds[catalog.PageIC] {
		t.Error("Keyset with no launch date should be on the ic page")
	}
	if conds[catalog.PageTimeline] {
		t.Error("Keyset with no launch date should not be on the timeline")
	}
	if conds[catalog.PageCalendar] || conds[catalog.PageLive] || conds[catalog.PagePrevious] {
		t.Error("Keyset with no launch date should not be on any date-bounded page")
	}
}

func TestPageConditions_QuarterPlaceholder(t *testing.T) {
	ks := &models.Keyset{Profile: "KAT", Colorway: "Someday", GBLaunch: "2024Q3"}

	conds := catalog.PageConditions(ks, today)
	if !conds[catalog.PageIC] {
		t.Error("Quarter launch placeholder should keep the keyset on the ic page")
	}
	if conds[catalog.PageTimeline] {
		t.Error("Quarter launch placeholder should not appear on the timeline")
	}
	if conds[catalog.PageLive] || conds[catalog.PageCalendar] {
		t.Error("Quarter launch placeholder parses as no date at all")
	}
}

func TestPageConditions_LiveGroupBuy(t *testing.T) {
	ks := &models.Keyset{
		Profile:  "GMK",
		Colorway: "Running",
		GBLaunch: "2024-01-05",
		GBEnd:    "2024-02-05",
	}

	conds := catalog.PageConditions(ks, today)
	if !conds[catalog.PageLive] {
		t.Error("GB spanning today should be live")
	}
	if !conds[catalog.PageCalendar] {
		t.Error("Live GBs also appear on the calendar")
	}
	if conds[catalog.PagePrevious] {
		t.Error("Live GB should not be on the previous page")
	}
	if !conds[catalog.PageTimeline] {
		t.Error("Exact-dated launch should be on the timeline")
	}
}

func TestPageConditions_FutureLaunch(t *testing.T) {
	ks := &models.Keyset{Profile: "GMK", Colorway: "Soon", GBLaunch: "2024-03-01", GBEnd: "2024-04-01"}

	conds := catalog.PageConditions(ks, today)
	if !conds[catalog.PageCalendar] {
		t.Error("Future launch should be on the calendar")
	}
	if conds[catalog.PageLive] {
		t.Error("Future launch should not be live yet")
	}
}

func TestPageConditions_EndedGroupBuy(t *testing.T) {
	ks := &models.Keyset{Profile: "SA", Colorway: "Done", GBLaunch: "2023-10-01", GBEnd: "2023-11-01"}

	conds := catalog.PageConditions(ks, today)
	if !conds[catalog.PagePrevious] {
		t.Error("Ended GB should be on the previous page")
	}
	if conds[catalog.PageLive] || conds[catalog.PageCalendar] {
		t.Error("Ended GB should not be live or on the calendar")
	}
}

func TestPageConditions_OpenEndedGroupBuy(t *testing.T) {
	ks := &models.Keyset{Profile: "GMK", Colorway: "Forever", GBLaunch: "2023-12-01"}

	conds := catalog.PageConditions(ks, today)
	if !conds[catalog.PageLive] {
		t.Error("Launched GB with no end date stays live")
	}
	if conds[catalog.PagePrevious] {
		t.Error("GB with no end date can never be previous")
	}
}

func TestPageConditions_MonthGranularityLaunch(t *testing.T) {
	// A month-only launch date parses to the first of the month
	ks := &models.Keyset{Profile: "GMK", Colorway: "Monthly", GBMonth: true, GBLaunch: "2024-01"}

	conds := catalog.PageConditions(ks, today)
	if !conds[catalog.PageLive] {
		t.Error("Month launch within the current month should be live")
	}
	if !conds[catalog.PageTimeline] {
		t.Error("Month launch should appear on the timeline")
	}
	if conds[catalog.PageIC] {
		t.Error("Month launch is a real date, not an ic placeholder")
	}
}

func TestPageConditions_ArchiveAlwaysTrue(t *testing.T) {
	cases := []*models.Keyset{
		{Profile: "GMK", Colorway: "A"},
		{Profile: "GMK", Colorway: "B", GBLaunch: "2024Q3"},
		{Profile: "GMK", Colorway: "C", GBLaunch: "2023-10-01", GBEnd: "2023-11-01"},
	}
	for _, ks := range cases {
		if !catalog.OnPage(ks, catalog.PageArchive, today) {
			t.Errorf("Keyset %q should always be on the archive page", ks.Title())
		}
	}
}

func TestPageConditions_LiveAndPreviousDisjoint(t *testing.T) {
	cases := []*models.Keyset{
		{Profile: "X", Colorway: "1", GBLaunch: "2024-01-01", GBEnd: "2024-01-10"},
		{Profile: "X", Colorway: "2", GBLaunch: "2024-01-01", GBEnd: "2024-01-14"},
		{Profile: "X", Colorway: "3", GBLaunch: "2024-01-01", GBEnd: "2024-01-15"},
		{Profile: "X", Colorway: "4", GBLaunch: "2024-01-01", GBEnd: "2024-02-15"},
	}
	for _, ks := range cases {
		conds := catalog.PageConditions(ks, today)
		if conds[catalog.PageLive] && conds[catalog.PagePrevious] {
			t.Errorf("Keyset %q is on both live and previous", ks.Title())
		}
	}
}

func TestParsePage(t *testing.T) {
	for _, name := range []string{"calendar", "live", "ic", "previous", "timeline", "archive"} {
		if _, ok := catalog.ParsePage(name); !ok {
			t.Errorf("Page %q should resolve", name)
		}
	}
	for _, name := range []string{"favorites", "bought", "hidden", "bogus", ""} {
		if _, ok := catalog.ParsePage(name); ok {
			t.Errorf("Page %q should not be addressable via the external API", name)
		}
	}
}

func TestPageSortFields(t *testing.T) {
	cases := map[catalog.Page]catalog.DateField{
		catalog.PageIC:       catalog.FieldICDate,
		catalog.PageLive:     catalog.FieldGBEnd,
		catalog.PagePrevious: catalog.FieldGBEnd,
		catalog.PageCalendar: catalog.FieldGBLaunch,
		catalog.PageTimeline: catalog.FieldGBLaunch,
		catalog.PageArchive:  catalog.FieldGBLaunch,
	}
	for page, want := range cases {
		if got := page.SortField(); got != want {
			t.Errorf("Page %s: expected sort field %s, got %s", page, want, got)
		}
	}

	if !catalog.PageIC.DateDescending() || !catalog.PagePrevious.DateDescending() {
		t.Error("ic and previous pages should sort newest first")
	}
	if catalog.PageCalendar.DateDescending() {
		t.Error("Calendar page should sort oldest first")
	}
}
