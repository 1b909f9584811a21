package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const maxDuration = 73 * time.Hour

// Date is a Date or DateTime question.
type Date struct {
	input
	HasYear bool
	value   *time.Time
}

// NewDate creates a date question; withTime selects DateTime.
func NewDate(h Header, entryID int64, required, withTime, hasYear bool) *Date {
	kind := KindDate
	if withTime {
		kind = KindDateTime
	}
	return &Date{
		input:   input{base: base{head: h, kind: kind}, required: required, entryIDs: []int64{entryID}},
		HasYear: hasYear,
	}
}

// Value returns the current date, if set.
func (d *Date) Value() (time.Time, bool) {
	if d.value == nil {
		return time.Time{}, false
	}
	return *d.value, true
}

// SetValue accepts a time.Time or Empty. Date ignores the clock part.
func (d *Date) SetValue(value any) error {
	switch v := value.(type) {
	case Sentinel:
		if v != Empty {
			return newValueError(d, ErrElementType, value)
		}
		d.value = nil
	case time.Time:
		if d.kind == KindDate {
			v = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		}
		d.value = &v
	default:
		return newValueError(d, ErrElementType, value)
	}
	d.touch()
	return nil
}

func (d *Date) Validate() error {
	if d.required && d.value == nil {
		return newValidationError(d, ErrRequired)
	}
	return nil
}

func (d *Date) Payload() Payload {
	if d.value == nil {
		return Payload{}
	}
	id := d.entryID()
	v := *d.value
	p := Payload{
		PartKey(id, "month"): {strconv.Itoa(int(v.Month()))},
		PartKey(id, "day"):   {strconv.Itoa(v.Day())},
	}
	if d.HasYear {
		p[PartKey(id, "year")] = []string{strconv.Itoa(v.Year())}
	}
	if d.kind == KindDateTime {
		p[PartKey(id, "hour")] = []string{strconv.Itoa(v.Hour())}
		p[PartKey(id, "minute")] = []string{strconv.Itoa(v.Minute())}
	}
	return p
}

func (d *Date) format() string {
	v := *d.value
	layout := "01-02"
	if d.HasYear {
		layout = "2006-01-02"
	}
	if d.kind == KindDateTime {
		layout += " 15:04"
	}
	return v.Format(layout)
}

func (d *Date) Draft() []DraftEntry {
	if d.value == nil {
		return nil
	}
	return []DraftEntry{newDraftEntry(d.entryID(), []string{d.format()})}
}

// Prefill parses "YYYY-MM-DD" or "YYYY-MM-DD HH:MM" values.
func (d *Date) Prefill(data map[int64][]string) error {
	values := data[d.entryID()]
	if len(values) == 0 {
		return d.SetValue(Empty)
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, values[0]); err == nil {
			return d.SetValue(t)
		}
	}
	return newValueError(d, ErrElementType, values[0])
}

func (d *Date) Answer() []string {
	if d.value == nil {
		return []string{"EMPTY"}
	}
	return []string{quote(d.format())}
}

func (d *Date) Hints() []string { return nil }

// Time is a Time or Duration question.
type Time struct {
	input
	hour, minute, second *int
}

// NewTime creates a time question; duration selects Duration.
func NewTime(h Header, entryID int64, required, duration bool) *Time {
	kind := KindTime
	if duration {
		kind = KindDuration
	}
	return &Time{
		input: input{base: base{head: h, kind: kind}, required: required, entryIDs: []int64{entryID}},
	}
}

// SetValue accepts Empty, and TimeOfDay or time.Time for Time,
// time.Duration for Duration.
func (t *Time) SetValue(value any) error {
	switch v := value.(type) {
	case Sentinel:
		if v != Empty {
			return newValueError(t, ErrElementType, value)
		}
		t.set(nil, nil, nil)
		return nil
	case TimeOfDay:
		if t.kind == KindTime {
			if v.Hour < 0 || v.Hour > 23 || v.Minute < 0 || v.Minute > 59 {
				return newValueError(t, ErrElementType, value)
			}
			t.set(&v.Hour, &v.Minute, nil)
			return nil
		}
	case time.Time:
		if t.kind == KindTime {
			h, m := v.Hour(), v.Minute()
			t.set(&h, &m, nil)
			return nil
		}
	case time.Duration:
		if t.kind == KindDuration {
			if v < 0 || v >= maxDuration {
				return newValueError(t, ErrInvalidDuration, value)
			}
			secs := int(v / time.Second)
			h, m, s := secs/3600, secs/60%60, secs%60
			t.set(&h, &m, &s)
			return nil
		}
	}
	return newValueError(t, ErrElementType, value)
}

func (t *Time) set(h, m, s *int) {
	t.hour, t.minute, t.second = h, m, s
	t.touch()
}

func (t *Time) isEmpty() bool {
	return t.hour == nil && t.minute == nil && t.second == nil
}

func (t *Time) Validate() error {
	if t.required && t.isEmpty() {
		return newValidationError(t, ErrRequired)
	}
	return nil
}

func (t *Time) Payload() Payload {
	p := Payload{}
	id := t.entryID()
	for part, v := range map[string]*int{"hour": t.hour, "minute": t.minute, "second": t.second} {
		if v != nil {
			p[PartKey(id, part)] = []string{strconv.Itoa(*v)}
		}
	}
	return p
}

func (t *Time) format() string {
	parts := []string{fmt.Sprintf("%02d", deref(t.hour)), fmt.Sprintf("%02d", deref(t.minute))}
	if t.kind == KindDuration {
		parts = append(parts, fmt.Sprintf("%02d", deref(t.second)))
	}
	return strings.Join(parts, ":")
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func (t *Time) Draft() []DraftEntry {
	if t.isEmpty() {
		return nil
	}
	return []DraftEntry{newDraftEntry(t.entryID(), []string{t.format()})}
}

// Prefill parses "HH:MM" for Time and "HH:MM:SS" for Duration.
func (t *Time) Prefill(data map[int64][]string) error {
	values := data[t.entryID()]
	if len(values) == 0 {
		return t.SetValue(Empty)
	}
	fields := strings.Split(values[0], ":")
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return newValueError(t, ErrElementType, values[0])
		}
		nums[i] = n
	}
	switch {
	case t.kind == KindTime && len(nums) == 2:
		return t.SetValue(TimeOfDay{Hour: nums[0], Minute: nums[1]})
	case t.kind == KindDuration && len(nums) == 3:
		d := time.Duration(nums[0])*time.Hour + time.Duration(nums[1])*time.Minute + time.Duration(nums[2])*time.Second
		return t.SetValue(d)
	}
	return newValueError(t, ErrElementType, values[0])
}

func (t *Time) Answer() []string {
	if t.isEmpty() {
		return []string{"EMPTY"}
	}
	return []string{t.format()}
}

func (t *Time) Hints() []string { return nil }
