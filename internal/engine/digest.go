package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
)

// DaysInWeek is the length of the digest window.
const DaysInWeek = 7

// WeekOrder is the fixed bucket order of the digest.
var WeekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// DigestEntry is one non-empty weekday bucket.
type DigestEntry struct {
	Weekday time.Weekday
	Names   []string
}

// Digest computes the weekly birthday reminder.
type Digest struct {
	Clock Clock

	// WeekdayName allows callers to inject localized weekday labels.
	// time.Weekday.String is used when nil.
	WeekdayName func(time.Weekday) string
}

// NewDigest returns a Digest using the real clock and English labels.
func NewDigest() *Digest {
	return &Digest{Clock: RealClock{}}
}

// WeekStart returns midnight of the most recent Saturday at or before now.
// The digest week runs from that Saturday to the next one, exclusive.
func WeekStart(now time.Time) time.Time {
	back := (int(now.Weekday()) - int(time.Saturday) + DaysInWeek) % DaysInWeek
	y, m, d := now.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, now.Location())
}

// Entries returns the weekday buckets of contacts whose birthday falls in the
// current week, in Monday to Sunday order. Empty buckets are omitted.
func (g *Digest) Entries(contacts []contact.Contact) []DigestEntry {
	start := WeekStart(g.Clock.Now())
	end := start.AddDate(0, 0, DaysInWeek)

	buckets := make(map[time.Weekday][]string, DaysInWeek)
	for _, c := range contacts {
		if !c.HasBirthday() {
			continue
		}
		if day, ok := occurrenceIn(c.Birthday, start, end); ok {
			buckets[day.Weekday()] = append(buckets[day.Weekday()], c.Name)
		}
	}

	var entries []DigestEntry
	for _, wd := range WeekOrder {
		if names := buckets[wd]; len(names) > 0 {
			entries = append(entries, DigestEntry{Weekday: wd, Names: names})
		}
	}

	slog.Debug(config.MsgDigestDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyTotal, len(contacts),
		config.LogKeyMatches, len(entries),
	)
	return entries
}

// Compute renders the digest as "<Weekday>: <names>" lines, or "" when
// nobody has a birthday this week.
func (g *Digest) Compute(contacts []contact.Contact) string {
	entries := g.Entries(contacts)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf(config.DigestLine, g.weekdayName(e.Weekday), strings.Join(e.Names, config.NameJoiner)))
	}
	return strings.Join(lines, "\n")
}

func (g *Digest) weekdayName(wd time.Weekday) string {
	if g.WeekdayName != nil {
		return g.WeekdayName(wd)
	}
	return wd.String()
}

// occurrenceIn moves birthDate into the window's year and reports whether it
// lands in [start, end). A window straddling New Year tries both years.
// time.Date turns Feb 29 into Mar 1 in non-leap years.
func occurrenceIn(birthDate, start, end time.Time) (time.Time, bool) {
	for y := start.Year(); y <= end.Year(); y++ {
		day := time.Date(y, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, start.Location())
		if !day.Before(start) && day.Before(end) {
			return day, true
		}
	}
	return time.Time{}, false
}
