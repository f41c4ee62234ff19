package models

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9]) (AM|PM)$`)

// ParseClock converts a 12-hour "hh:mm AM/PM" string to minutes since
// midnight. 12 AM is hour 0 and 12 PM stays 12.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	switch {
	case m[3] == "AM" && hour == 12:
		hour = 0
	case m[3] == "PM" && hour != 12:
		hour += 12
	}
	return hour*60 + minute, nil
}

// clockMinutes is ParseClock with unparseable values sorted after every
// valid time.
func clockMinutes(s string) int {
	n, err := ParseClock(s)
	if err != nil {
		return 24 * 60
	}
	return n
}

// SortAppointments orders appointments chronologically: by date, then by
// time of day. The sort is stable so equal slots keep insertion order.
func SortAppointments(list []Appointment) {
	slices.SortStableFunc(list, func(a, b Appointment) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return clockMinutes(a.Time) - clockMinutes(b.Time)
	})
}
