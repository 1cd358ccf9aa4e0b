// Package ethiocal converts Gregorian dates to the Ethiopian calendar and
// renders them as localized text.
//
// The conversion uses a fixed per-month offset table anchored on an
// Ethiopian New Year of September 11th. It does not adjust for Gregorian
// leap years and does not validate the resulting day against the length of
// the Ethiopian month, so some inputs produce days outside 1..30 (for
// example September 1-10 yields day values of 0 or below in Meskerem).
package ethiocal

import (
	"fmt"
	"time"
)

// Pagume is the short thirteenth month of the Ethiopian year.
const Pagume = 13

// GregorianDate is a Gregorian calendar date. Callers are expected to
// supply a valid date; Convert performs no validation.
type GregorianDate struct {
	Year  int
	Month int
	Day   int
}

// FromTime returns the Gregorian date of t in t's location.
func FromTime(t time.Time) GregorianDate {
	y, m, d := t.Date()
	return GregorianDate{Year: y, Month: int(m), Day: d}
}

func (g GregorianDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", g.Year, g.Month, g.Day)
}

// EthiopianDate is a date in the Ethiopian calendar. Month 13 is Pagume.
type EthiopianDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Convert maps a Gregorian date to its Ethiopian counterpart.
func Convert(g GregorianDate) EthiopianDate {
	year, month, day := g.Year, g.Month, g.Day

	switch {
	case month == 1 && day <= 9:
		return EthiopianDate{Year: year - 8, Month: 4, Day: day + 21}
	case month >= 9 || (month == 9 && day >= 11):
		e := EthiopianDate{Year: year - 7}
		switch month {
		case 9:
			e.Month, e.Day = 1, day-10
		case 10:
			if day <= 10 {
				e.Month, e.Day = 1, day+20
			} else {
				e.Month, e.Day = 2, day-10
			}
		case 11:
			if day <= 9 {
				e.Month, e.Day = 2, day+21
			} else {
				e.Month, e.Day = 3, day-9
			}
		case 12:
			if day <= 9 {
				e.Month, e.Day = 3, day+21
			} else {
				e.Month, e.Day = 4, day-9
			}
		default:
			e.Month, e.Day = month-8, day+21
		}
		return e
	default:
		return EthiopianDate{Year: year - 7, Month: month + 4, Day: day + 21}
	}
}

// ConvertTime is Convert applied to the calendar date of t.
func ConvertTime(t time.Time) EthiopianDate {
	return Convert(FromTime(t))
}

// Format converts g and renders it as "{month} {day}, {year}" using the
// month names for language. Languages without a name table use English.
func Format(g GregorianDate, language string) string {
	e := Convert(g)
	return fmt.Sprintf("%s %d, %d", MonthName(e.Month, language), e.Day, e.Year)
}

// FormatTime is Format applied to the calendar date of t.
func FormatTime(t time.Time, language string) string {
	return Format(FromTime(t), language)
}
