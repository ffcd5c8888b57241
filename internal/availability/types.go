package availability

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by all override entries.
const DateLayout = "2006-01-02"

// DayHours represents the opening window for a single weekday.
// Open and Close are zero-padded 24h "HH:MM" strings. When Closed is true
// the vendor does not open that day and Open/Close are ignored.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// BusinessHours represents a vendor's recurring weekly schedule.
// The zero value means closed every day.
type BusinessHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

// Day returns the configured hours for a weekday.
func (bh BusinessHours) Day(weekday time.Weekday) DayHours {
	switch weekday {
	case time.Monday:
		return bh.Monday
	case time.Tuesday:
		return bh.Tuesday
	case time.Wednesday:
		return bh.Wednesday
	case time.Thursday:
		return bh.Thursday
	case time.Friday:
		return bh.Friday
	case time.Saturday:
		return bh.Saturday
	default:
		return bh.Sunday
	}
}

// Holiday closes the vendor for a single calendar day.
type Holiday struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"`
	ProductsHidden bool      `json:"products_hidden"`
	Message        string    `json:"message,omitempty"`
	Hours          *DayHours `json:"hours,omitempty"`
}

// Vacation closes the vendor for an inclusive date range.
type Vacation struct {
	ID             string    `json:"id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	ProductsHidden bool      `json:"products_hidden"`
	AutoResume     bool      `json:"auto_resume"`
	Hours          *DayHours `json:"hours,omitempty"`
}

// SpecialEvent keeps the vendor open for an inclusive date range, optionally
// showing a storefront banner. Message doubles as the banner text.
type SpecialEvent struct {
	ID             string    `json:"id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	ProductsHidden bool      `json:"products_hidden"`
	ShowBanner     bool      `json:"show_banner"`
	Message        string    `json:"message,omitempty"`
	Hours          *DayHours `json:"hours,omitempty"`
}

// TemporaryClosure closes the vendor for an inclusive date range with a reason.
type TemporaryClosure struct {
	ID             string    `json:"id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Reason         string    `json:"reason"`
	ProductsHidden bool      `json:"products_hidden"`
	AutoResume     bool      `json:"auto_resume"`
	Hours          *DayHours `json:"hours,omitempty"`
}

// SpecialHours holds the four independently managed override lists.
// Lists are replaced wholesale on settings save; overlapping entries are
// allowed and resolved at evaluation time by precedence.
type SpecialHours struct {
	Holidays          []Holiday          `json:"holidays"`
	Vacations         []Vacation         `json:"vacations"`
	SpecialEvents     []SpecialEvent     `json:"special_events"`
	TemporaryClosures []TemporaryClosure `json:"temporary_closures"`
}

// OverrideKind identifies which list a matched override came from.
type OverrideKind string

const (
	KindHoliday          OverrideKind = "holiday"
	KindVacation         OverrideKind = "vacation"
	KindSpecialEvent     OverrideKind = "special_event"
	KindTemporaryClosure OverrideKind = "temporary_closure"
)

// Override is the normalized form of a matched special-hours entry.
// For holidays StartDate and EndDate carry the same value.
type Override struct {
	Kind           OverrideKind `json:"kind"`
	ID             string       `json:"id"`
	StartDate      string       `json:"start_date"`
	EndDate        string       `json:"end_date"`
	ProductsHidden bool         `json:"products_hidden"`
	AutoResume     bool         `json:"auto_resume"`
	ShowBanner     bool         `json:"show_banner"`
	Message        string       `json:"message,omitempty"`
	Hours          *DayHours    `json:"hours,omitempty"`
	closedType     bool
}

// VendorStatus is the derived availability state for a single instant.
// It is recomputed on every evaluation and never persisted.
type VendorStatus struct {
	IsOpen          bool      `json:"is_open"`
	Message         string    `json:"message"`
	ProductsHidden  bool      `json:"products_hidden"`
	ShowBanner      bool      `json:"show_banner"`
	BannerMessage   string    `json:"banner_message,omitempty"`
	MatchedOverride *Override `json:"matched_override,omitempty"`
}

// Value implements driver.Valuer so BusinessHours persists as JSONB.
func (bh BusinessHours) Value() (driver.Value, error) {
	return json.Marshal(bh)
}

// Scan implements sql.Scanner. Missing or malformed stored JSON degrades to
// the zero value (closed every day) instead of failing the row read.
func (bh *BusinessHours) Scan(value interface{}) error {
	*bh = BusinessHours{}
	return scanJSON(value, bh)
}

// Value implements driver.Valuer so SpecialHours persists as JSONB.
func (sh SpecialHours) Value() (driver.Value, error) {
	return json.Marshal(sh)
}

// Scan implements sql.Scanner. Malformed stored JSON degrades to empty lists.
func (sh *SpecialHours) Scan(value interface{}) error {
	*sh = SpecialHours{}
	return scanJSON(value, sh)
}

func scanJSON(value, dst interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	// Ignore decode errors: a vendor with a corrupt blob evaluates as
	// closed rather than erroring every status read.
	_ = json.Unmarshal(data, dst)
	return nil
}

// parseDate parses an ISO calendar date. Malformed dates report false.
func parseDate(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// dateOnly strips the time-of-day component, yielding midnight UTC of the
// same calendar day so it compares cleanly against parsed entry dates.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateInRange reports whether day falls inside the inclusive range
// [start, end]. Malformed bounds never match.
func dateInRange(day time.Time, start, end string) bool {
	s, ok := parseDate(start)
	if !ok {
		return false
	}
	e, ok := parseDate(end)
	if !ok {
		return false
	}
	return !day.Before(s) && !day.After(e)
}

// GenerateEntryIDs assigns an id to every entry that does not have one.
// Called on settings save so each entry stays addressable across reads.
func (sh *SpecialHours) GenerateEntryIDs(newID func() string) {
	for i := range sh.Holidays {
		if sh.Holidays[i].ID == "" {
			sh.Holidays[i].ID = newID()
		}
	}
	for i := range sh.Vacations {
		if sh.Vacations[i].ID == "" {
			sh.Vacations[i].ID = newID()
		}
	}
	for i := range sh.SpecialEvents {
		if sh.SpecialEvents[i].ID == "" {
			sh.SpecialEvents[i].ID = newID()
		}
	}
	for i := range sh.TemporaryClosures {
		if sh.TemporaryClosures[i].ID == "" {
			sh.TemporaryClosures[i].ID = newID()
		}
	}
}

// RemoveExpired drops entries whose date (holidays) or end date (ranges)
// falls strictly before the given day. Entries with malformed dates are
// kept; they never match during evaluation anyway.
func (sh *SpecialHours) RemoveExpired(before time.Time) int {
	day := dateOnly(before)
	removed := 0

	holidays := sh.Holidays[:0]
	for _, h := range sh.Holidays {
		if d, ok := parseDate(h.Date); ok && d.Before(day) {
			removed++
			continue
		}
		holidays = append(holidays, h)
	}
	sh.Holidays = holidays

	vacations := sh.Vacations[:0]
	for _, v := range sh.Vacations {
		if d, ok := parseDate(v.EndDate); ok && d.Before(day) {
			removed++
			continue
		}
		vacations = append(vacations, v)
	}
	sh.Vacations = vacations

	events := sh.SpecialEvents[:0]
	for _, ev := range sh.SpecialEvents {
		if d, ok := parseDate(ev.EndDate); ok && d.Before(day) {
			removed++
			continue
		}
		events = append(events, ev)
	}
	sh.SpecialEvents = events

	closures := sh.TemporaryClosures[:0]
	for _, tc := range sh.TemporaryClosures {
		if d, ok := parseDate(tc.EndDate); ok && d.Before(day) {
			removed++
			continue
		}
		closures = append(closures, tc)
	}
	sh.TemporaryClosures = closures

	return removed
}
