package availability

import (
	"sort"
	"time"
)

// Default status messages when no override supplies its own.
const (
	msgOpen        = "Open"
	msgClosed      = "Closed"
	msgClosedToday = "Closed today"
)

const timeOfDayLayout = "15:04"

// matcher inspects the override lists for an entry covering the given day.
// The precedence order of the matchers slice below is a product rule: a
// vendor can satisfy several categories on the same day and exactly one
// must win. Within a category the first entry in list order wins.
type matcher func(sh SpecialHours, day time.Time) *Override

var matchers = []matcher{
	matchHoliday,
	matchVacation,
	matchSpecialEvent,
	matchTemporaryClosure,
}

func matchHoliday(sh SpecialHours, day time.Time) *Override {
	for _, h := range sh.Holidays {
		d, ok := parseDate(h.Date)
		if !ok || !d.Equal(day) {
			continue
		}
		msg := h.Message
		if msg == "" {
			msg = "Closed for holiday"
		}
		return &Override{
			Kind:           KindHoliday,
			ID:             h.ID,
			StartDate:      h.Date,
			EndDate:        h.Date,
			ProductsHidden: h.ProductsHidden,
			Message:        msg,
			Hours:          h.Hours,
			closedType:     true,
		}
	}
	return nil
}

func matchVacation(sh SpecialHours, day time.Time) *Override {
	for _, v := range sh.Vacations {
		if !dateInRange(day, v.StartDate, v.EndDate) {
			continue
		}
		return &Override{
			Kind:           KindVacation,
			ID:             v.ID,
			StartDate:      v.StartDate,
			EndDate:        v.EndDate,
			ProductsHidden: v.ProductsHidden,
			AutoResume:     v.AutoResume,
			Message:        "On vacation",
			Hours:          v.Hours,
			closedType:     true,
		}
	}
	return nil
}

func matchSpecialEvent(sh SpecialHours, day time.Time) *Override {
	for _, ev := range sh.SpecialEvents {
		if !dateInRange(day, ev.StartDate, ev.EndDate) {
			continue
		}
		msg := ev.Message
		if msg == "" {
			msg = "Special event"
		}
		return &Override{
			Kind:           KindSpecialEvent,
			ID:             ev.ID,
			StartDate:      ev.StartDate,
			EndDate:        ev.EndDate,
			ProductsHidden: ev.ProductsHidden,
			ShowBanner:     ev.ShowBanner,
			Message:        msg,
			Hours:          ev.Hours,
		}
	}
	return nil
}

func matchTemporaryClosure(sh SpecialHours, day time.Time) *Override {
	for _, tc := range sh.TemporaryClosures {
		if !dateInRange(day, tc.StartDate, tc.EndDate) {
			continue
		}
		msg := tc.Reason
		if msg == "" {
			msg = "Temporarily closed"
		}
		return &Override{
			Kind:           KindTemporaryClosure,
			ID:             tc.ID,
			StartDate:      tc.StartDate,
			EndDate:        tc.EndDate,
			ProductsHidden: tc.ProductsHidden,
			AutoResume:     tc.AutoResume,
			Message:        msg,
			Hours:          tc.Hours,
			closedType:     true,
		}
	}
	return nil
}

// ActiveOverride returns the override in effect on the given day, or nil.
// Precedence: holiday, vacation, special event, temporary closure.
func ActiveOverride(sh SpecialHours, day time.Time) *Override {
	d := dateOnly(day)
	for _, match := range matchers {
		if ov := match(sh, d); ov != nil {
			return ov
		}
	}
	return nil
}

// Evaluate computes a vendor's availability at the given instant. It is a
// pure, total function: malformed hours or override entries degrade to
// closed / no-override rather than returning an error.
func Evaluate(bh BusinessHours, sh SpecialHours, now time.Time) VendorStatus {
	if ov := ActiveOverride(sh, now); ov != nil {
		return overrideStatus(ov, now)
	}

	day := bh.Day(now.Weekday())
	if day.Closed || day.Open == "" || day.Close == "" {
		return VendorStatus{IsOpen: false, Message: msgClosedToday}
	}

	status := VendorStatus{Message: msgClosed}
	if withinHours(day, now) {
		status.IsOpen = true
		status.Message = msgOpen
	}
	return status
}

func overrideStatus(ov *Override, now time.Time) VendorStatus {
	status := VendorStatus{
		Message:         ov.Message,
		ProductsHidden:  ov.ProductsHidden,
		ShowBanner:      ov.ShowBanner,
		MatchedOverride: ov,
	}
	if ov.ShowBanner {
		status.BannerMessage = ov.Message
	}

	// Reduced-hours variant: the entry supersedes the weekly schedule but
	// still opens for part of the day.
	if ov.Hours != nil {
		status.IsOpen = !ov.Hours.Closed && withinHours(*ov.Hours, now)
		return status
	}

	status.IsOpen = !ov.closedType
	return status
}

// withinHours reports whether now's time of day falls in [open, close).
// Comparison is lexicographic on zero-padded "HH:MM" strings, which assumes
// same-day windows; an overnight window such as 22:00-02:00 never matches.
func withinHours(day DayHours, now time.Time) bool {
	tod := now.Format(timeOfDayLayout)
	return tod >= day.Open && tod < day.Close
}

// ShouldHideProducts reports whether the active override directs the
// vendor's catalog to be hidden right now.
func ShouldHideProducts(bh BusinessHours, sh SpecialHours, now time.Time) bool {
	return Evaluate(bh, sh, now).ProductsHidden
}

// IsCurrentlyOpen reports whether the vendor is open right now.
func IsCurrentlyOpen(bh BusinessHours, sh SpecialHours, now time.Time) bool {
	return Evaluate(bh, sh, now).IsOpen
}

// UpcomingEvents returns every override entry whose start (date, for
// holidays) falls within [now, now+windowDays], ascending by start date.
func UpcomingEvents(sh SpecialHours, now time.Time, windowDays int) []Override {
	from := dateOnly(now)
	until := from.AddDate(0, 0, windowDays)

	var upcoming []Override
	add := func(ov Override) {
		d, ok := parseDate(ov.StartDate)
		if !ok || d.Before(from) || d.After(until) {
			return
		}
		upcoming = append(upcoming, ov)
	}

	for _, h := range sh.Holidays {
		add(Override{
			Kind:           KindHoliday,
			ID:             h.ID,
			StartDate:      h.Date,
			EndDate:        h.Date,
			ProductsHidden: h.ProductsHidden,
			Message:        h.Message,
		})
	}
	for _, v := range sh.Vacations {
		add(Override{
			Kind:           KindVacation,
			ID:             v.ID,
			StartDate:      v.StartDate,
			EndDate:        v.EndDate,
			ProductsHidden: v.ProductsHidden,
			AutoResume:     v.AutoResume,
		})
	}
	for _, ev := range sh.SpecialEvents {
		add(Override{
			Kind:           KindSpecialEvent,
			ID:             ev.ID,
			StartDate:      ev.StartDate,
			EndDate:        ev.EndDate,
			ProductsHidden: ev.ProductsHidden,
			ShowBanner:     ev.ShowBanner,
			Message:        ev.Message,
		})
	}
	for _, tc := range sh.TemporaryClosures {
		add(Override{
			Kind:           KindTemporaryClosure,
			ID:             tc.ID,
			StartDate:      tc.StartDate,
			EndDate:        tc.EndDate,
			ProductsHidden: tc.ProductsHidden,
			AutoResume:     tc.AutoResume,
			Message:        tc.Reason,
		})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartDate < upcoming[j].StartDate
	})
	return upcoming
}
