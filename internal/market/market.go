// Package market answers whether the Indian equity market is trading.
package market

import (
	"time"
	_ "time/tzdata" // Asia/Kolkata on hosts without zoneinfo
)

// TradingHours represents regular trading hours in the exchange's timezone.
type TradingHours struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
}

// Session is the weekly trading session of an exchange.
type Session struct {
	Exchange string
	Hours    TradingHours
	Location *time.Location
}

// Status describes the session at a point in time.
type Status struct {
	Exchange string     `json:"exchange"`
	Open     bool       `json:"open"`
	Now      time.Time  `json:"now"`
	NextOpen *time.Time `json:"next_open,omitempty"`
}

var ist = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// NSE returns the National Stock Exchange session: Monday to Friday,
// 09:30 to 15:30 IST, both ends inclusive.
func NSE() Session {
	return Session{
		Exchange: "NSE",
		Hours:    TradingHours{OpenHour: 9, OpenMinute: 30, CloseHour: 15, CloseMinute: 30},
		Location: ist,
	}
}

// IsOpen reports whether the NSE session is open at t.
func IsOpen(t time.Time) bool {
	return NSE().IsOpen(t)
}

// IsOpen reports whether the session is open at t.
func (s Session) IsOpen(t time.Time) bool {
	local := t.In(s.Location)
	if !isWeekday(local) {
		return false
	}
	open, closing := s.bounds(local)
	return !local.Before(open) && !local.After(closing)
}

// Status returns the session status at t, including the next opening when closed.
func (s Session) Status(t time.Time) Status {
	st := Status{Exchange: s.Exchange, Now: t.In(s.Location), Open: s.IsOpen(t)}
	if !st.Open {
		next := s.NextOpen(t)
		st.NextOpen = &next
	}
	return st
}

// NextOpen returns the first session opening strictly after t.
func (s Session) NextOpen(t time.Time) time.Time {
	local := t.In(s.Location)
	for i := 0; i < 8; i++ {
		day := local.AddDate(0, 0, i)
		if !isWeekday(day) {
			continue
		}
		open, _ := s.bounds(day)
		if open.After(local) {
			return open
		}
	}
	// Unreachable with a five-day week.
	return local
}

func (s Session) bounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	open := time.Date(y, m, d, s.Hours.OpenHour, s.Hours.OpenMinute, 0, 0, s.Location)
	closing := time.Date(y, m, d, s.Hours.CloseHour, s.Hours.CloseMinute, 0, 0, s.Location)
	return open, closing
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
