package subscriptions

import (
	"fmt"
	"time"
)

type PaymentMode string

const (
	PayCash PaymentMode = "cash"
	PayBank PaymentMode = "bank"
	PayCard PaymentMode = "card"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PayCash, PayBank, PayCard:
		return true
	}
	return false
}

// Weekday is the closed set of selectable delivery days.
type Weekday string

const (
	Mon Weekday = "MON"
	Tue Weekday = "TUE"
	Wed Weekday = "WED"
	Thu Weekday = "THU"
	Fri Weekday = "FRI"
	Sat Weekday = "SAT"
	Sun Weekday = "SUN"
)

var weekdayOf = map[time.Weekday]Weekday{
	time.Monday:    Mon,
	time.Tuesday:   Tue,
	time.Wednesday: Wed,
	time.Thursday:  Thu,
	time.Friday:    Fri,
	time.Saturday:  Sat,
	time.Sunday:    Sun,
}

func WeekdayOf(t time.Time) Weekday { return weekdayOf[t.Weekday()] }

func ParseWeekday(s string) (Weekday, error) {
	switch Weekday(s) {
	case Mon, Tue, Wed, Thu, Fri, Sat, Sun:
		return Weekday(s), nil
	}
	return "", fmt.Errorf("subscriptions: unknown weekday %q", s)
}

// DaySet is a subscription's selected weekdays. Stored as text[].
type DaySet map[Weekday]bool

func NewDaySet(days ...Weekday) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = true
	}
	return s
}

func (s DaySet) Has(d Weekday) bool { return s[d] }

func (s DaySet) Strings() []string {
	order := []Weekday{Mon, Tue, Wed, Thu, Fri, Sat, Sun}
	out := make([]string, 0, len(s))
	for _, d := range order {
		if s[d] {
			out = append(out, string(d))
		}
	}
	return out
}

// MaxDurationDays caps the subscription window, end date inclusive.
const MaxDurationDays = 30

type Subscription struct {
	ID         int64
	CustomerID int64
	MenuID     int64
	TimeSlotID int64
	StartDate  time.Time // date only, midnight UTC
	EndDate    time.Time
	Days       DaySet
	Mode       PaymentMode
	Notify     bool
	CreatedAt  time.Time
}
