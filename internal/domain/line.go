package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxLineDuration is the longest time window a single request line may span.
const MaxLineDuration = 366 * 24 * time.Hour

// TimeLayout is the layout used when request lines are written.
const TimeLayout = "2006-01-02T15:04:05.000"

// Finer layouts for times that carry sub-millisecond digits.
const (
	microLayout = "2006-01-02T15:04:05.000000"
	nanoLayout  = "2006-01-02T15:04:05.000000000"
)

// inputLayouts are tried in order when parsing times. Fractional seconds are
// accepted after the seconds field even when the layout omits them.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Line is a single channel request: NET STA LOC CHA START END.
// Codes are free-form and may carry wildcards or negation.
type Line struct {
	Network  string
	Station  string
	Location string
	Channel  string
	Start    time.Time
	End      time.Time

	// Raw is the text the line was parsed from. Lines built in code
	// (e.g. by time splitting) carry their formatted form.
	Raw string
}

// ParseTime parses a request time stamp. Times without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// ParseLine parses and validates a request line.
func ParseLine(s string) (Line, error) {
	raw := strings.TrimSpace(s)
	f := strings.Fields(raw)
	if len(f) != 6 {
		return Line{}, fmt.Errorf("%w: expected 6 fields, found %d", ErrMalformedLine, len(f))
	}
	start, err := ParseTime(f[4])
	if err != nil {
		return Line{}, err
	}
	end, err := ParseTime(f[5])
	if err != nil {
		return Line{}, err
	}
	l := Line{
		Network:  f[0],
		Station:  f[1],
		Location: f[2],
		Channel:  f[3],
		Start:    start,
		End:      end,
		Raw:      raw,
	}
	if err := l.Validate(); err != nil {
		return Line{}, err
	}
	return l, nil
}

// Validate checks the time window of the line.
func (l Line) Validate() error {
	if !l.Start.Before(l.End) {
		return fmt.Errorf("%w: %s >= %s", ErrStartAfterEnd,
			l.Start.Format(TimeLayout), l.End.Format(TimeLayout))
	}
	if l.Duration() > MaxLineDuration {
		return fmt.Errorf("%w: %.1f days", ErrDurationTooLong, l.Duration().Hours()/24)
	}
	return nil
}

// Duration returns the length of the time window.
func (l Line) Duration() time.Duration {
	return l.End.Sub(l.Start)
}

// Size returns the estimated byte cost of the line.
func (l Line) Size() int64 {
	return Estimate(BandCode(l.Channel), l.Duration().Seconds())
}

// Format renders the line in the request dialect. Times are written to the
// millisecond unless they carry finer digits.
func (l Line) Format() string {
	return fmt.Sprintf("%s %s %s %s %s %s",
		l.Network, l.Station, l.Location, l.Channel,
		FormatTime(l.Start), FormatTime(l.End))
}

// FormatTime renders t in UTC with as many fractional digits as it needs,
// but never fewer than three.
func FormatTime(t time.Time) string {
	t = t.UTC()
	switch ns := t.Nanosecond(); {
	case ns%int(time.Millisecond) == 0:
		return t.Format(TimeLayout)
	case ns%int(time.Microsecond) == 0:
		return t.Format(microLayout)
	default:
		return t.Format(nanoLayout)
	}
}

// String returns the raw text of the line, formatting it when no raw text exists.
func (l Line) String() string {
	if l.Raw != "" {
		return l.Raw
	}
	return l.Format()
}

// WithWindow returns a copy of the line covering [start, end).
func (l Line) WithWindow(start, end time.Time) Line {
	out := l
	out.Start = start
	out.End = end
	out.Raw = out.Format()
	return out
}
