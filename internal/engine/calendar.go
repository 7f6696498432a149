package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
)

// Calendar converts the birthdays of a contact list into an iCalendar feed.
type Calendar struct {
	Clock Clock

	// ReminderTrigger is an ISO8601 duration such as "-P1D". Empty disables alarms.
	ReminderTrigger string

	// FormatSummary allows callers to inject localized event titles.
	// yearKnown is false when the age is unknown.
	FormatSummary func(name string, age int, yearKnown bool) string
}

// Upcoming is a contact paired with its next birthday.
type Upcoming struct {
	Name           string
	NextOccurrence time.Time

	// AgeNext is only valid if YearKnown is true.
	AgeNext   int
	YearKnown bool
}

// Generate returns the ICS document and the number of events written.
// Events are produced for the previous, current and next year.
func (c *Calendar) Generate(contacts []contact.Contact) ([]byte, int, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// Use Local time for logic, convert to UTC only for ICS stamping.
	now := c.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	count := 0
	for _, ct := range contacts {
		if !ct.HasBirthday() {
			continue
		}

		input := fmt.Sprintf(config.FormatHashInput, ct.Name, ct.Birthday.Format(config.DateFormatFullDash), config.UIDSalt)
		hash := sha256.Sum256([]byte(input))
		uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

		for _, e := range c.createEvents(ct.Name, ct.Birthday, ct.BirthYearKnown(), now, uidBase) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
			count++
		}
	}

	if count == 0 {
		// A valid but empty VCALENDAR keeps subscribers from flagging the feed.
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgCalendarDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyEvents, count,
	)
	return buf.Bytes(), count, nil
}

// createEvents generates one all-day event per year for CurrentYear-1..CurrentYear+1.
// No event is created before the person is born.
func (c *Calendar) createEvents(name string, birthDate time.Time, yearKnown bool, now time.Time, uidBase string) []*ical.Event {
	currentYear := now.Year()
	loc := now.Location()

	var events []*ical.Event
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if yearKnown && y < birthDate.Year() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		age := 0
		summary := name
		if yearKnown {
			age = y - birthDate.Year()
			summary = fmt.Sprintf(config.FormatSummaryAge, name, age)
		}
		if c.FormatSummary != nil {
			summary = c.FormatSummary(name, age, yearKnown)
		}
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(y, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc))
		event.Props.Set(dtStartProp)

		if c.ReminderTrigger != "" {
			addAlarm(event, c.ReminderTrigger, summary)
		}
		events = append(events, event)
	}
	return events
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// NextBirthdays lists every contact with a birthday, soonest first.
func NextBirthdays(now time.Time, contacts []contact.Contact) []Upcoming {
	var out []Upcoming
	for _, c := range contacts {
		if !c.HasBirthday() {
			continue
		}
		known := c.BirthYearKnown()
		next, age := calculateNextOccurrence(now, c.Birthday, known)
		out = append(out, Upcoming{Name: c.Name, NextOccurrence: next, AgeNext: age, YearKnown: known})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextOccurrence.Before(out[j].NextOccurrence)
	})
	return out
}

// calculateNextOccurrence determines the next birthday date relative to 'now'.
func calculateNextOccurrence(now time.Time, birthDate time.Time, yearKnown bool) (time.Time, int) {
	currentYear := now.Year()
	loc := now.Location()

	// Go's time.Date normalizes Feb 29 to March 1st if currentYear is not a leap year.
	candidate := time.Date(currentYear, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(todayStart) {
		candidate = time.Date(currentYear+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}

	ageNext := 0
	if yearKnown {
		ageNext = candidate.Year() - birthDate.Year()
	}
	return candidate, ageNext
}
