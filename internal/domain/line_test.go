package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseLine(t *testing.T) {
	l, err := ParseLine("IU ANMO -- BHZ 2020-01-01T00:00:00.000 2020-01-02T00:00:00.000")
	if err != nil {
		t.Fatalf("ParseLine returned error: %v", err)
	}
	if l.Network != "IU" || l.Station != "ANMO" || l.Location != "--" || l.Channel != "BHZ" {
		t.Errorf("codes = %s %s %s %s", l.Network, l.Station, l.Location, l.Channel)
	}
	if l.Duration() != 24*time.Hour {
		t.Errorf("Duration = %v, want 24h", l.Duration())
	}
	if l.Size() != 13824000 {
		t.Errorf("Size = %d, want 13824000", l.Size())
	}
}

func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"too few fields", "IU ANMO -- BHZ 2020-01-01T00:00:00", ErrMalformedLine},
		{"too many fields", "IU ANMO -- BHZ 2020-01-01 2020-01-02 extra", ErrMalformedLine},
		{"bad start", "IU ANMO -- BHZ yesterday 2020-01-02T00:00:00", ErrInvalidTime},
		{"bad end", "IU ANMO -- BHZ 2020-01-01T00:00:00 tomorrow", ErrInvalidTime},
		{"start after end", "IU ANMO -- BHZ 2020-01-02T00:00:00 2020-01-01T00:00:00", ErrStartAfterEnd},
		{"start equals end", "IU ANMO -- BHZ 2020-01-01T00:00:00 2020-01-01T00:00:00", ErrStartAfterEnd},
		{"over a year", "IU ANMO -- BHZ 2020-01-01T00:00:00 2021-01-02T00:00:01", ErrDurationTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseLine() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseTime_Layouts(t *testing.T) {
	want := time.Date(2020, 1, 1, 12, 30, 15, 250e6, time.UTC)
	for _, s := range []string{
		"2020-01-01T12:30:15.250",
		"2020-01-01T12:30:15.250Z",
		"2020-01-01 12:30:15.25",
	} {
		got, err := ParseTime(s)
		if err != nil {
			t.Fatalf("ParseTime(%q) error: %v", s, err)
		}
		if !got.Equal(want) {
			t.Errorf("ParseTime(%q) = %v, want %v", s, got, want)
		}
	}

	d, err := ParseTime("2020-03-04")
	if err != nil {
		t.Fatalf("ParseTime date only: %v", err)
	}
	if !d.Equal(time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseTime date only = %v", d)
	}
}

func TestLine_WithWindow(t *testing.T) {
	l, err := ParseLine("IU ANMO 00 BHZ 2020-01-01T00:00:00 2020-01-02T00:00:00")
	if err != nil {
		t.Fatal(err)
	}
	start := l.Start.Add(time.Hour)
	sub := l.WithWindow(start, start.Add(30*time.Minute))

	want := "IU ANMO 00 BHZ 2020-01-01T01:00:00.000 2020-01-01T01:30:00.000"
	if sub.String() != want {
		t.Errorf("String() = %q, want %q", sub.String(), want)
	}
	if l.Raw != "IU ANMO 00 BHZ 2020-01-01T00:00:00 2020-01-02T00:00:00" {
		t.Errorf("original raw text changed: %q", l.Raw)
	}
}

func TestFormatTime_KeepsPrecision(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{0, "2020-01-01T00:00:00.000"},
		{250 * time.Millisecond, "2020-01-01T00:00:00.250"},
		{123456 * time.Microsecond, "2020-01-01T00:00:00.123456"},
		{123456789, "2020-01-01T00:00:00.123456789"},
	}
	for _, tt := range tests {
		got := FormatTime(base.Add(tt.offset))
		if got != tt.want {
			t.Errorf("FormatTime(+%v) = %q, want %q", tt.offset, got, tt.want)
			continue
		}
		back, err := ParseTime(got)
		if err != nil || !back.Equal(base.Add(tt.offset)) {
			t.Errorf("ParseTime(%q) = %v, %v", got, back, err)
		}
	}
}

func TestDataCenterRequest(t *testing.T) {
	r := NewDataCenterRequest(map[string]string{
		KeyDataCenter: "IRISDMC,http://ds.iris.edu",
		KeyDataSelect: "http://service.iris.edu/fdsnws/dataselect/1/",
	})
	if r.ShortName() != "IRISDMC" {
		t.Errorf("ShortName = %q, want IRISDMC", r.ShortName())
	}
	if u, ok := r.DataSelectURL(); !ok || u == "" {
		t.Errorf("DataSelectURL = %q, %v", u, ok)
	}

	for _, s := range []string{
		"IU ANMO 00 BHZ 2020-01-01T00:00:00 2020-01-01T01:00:00",
		"IU COLA 00 LHZ 2020-01-01T00:00:00 2020-01-01T01:00:00",
	} {
		l, err := ParseLine(s)
		if err != nil {
			t.Fatal(err)
		}
		r.Add(l)
	}
	if r.Size() != 40*3600*4+3600*4 {
		t.Errorf("Size = %d", r.Size())
	}
	wantBody := "IU ANMO 00 BHZ 2020-01-01T00:00:00 2020-01-01T01:00:00\nIU COLA 00 LHZ 2020-01-01T00:00:00 2020-01-01T01:00:00"
	if r.Body() != wantBody {
		t.Errorf("Body = %q", r.Body())
	}

	bare := NewDataCenterRequest(nil)
	if _, ok := bare.URLs[KeyDataCenter]; !ok {
		t.Error("DATACENTER key missing from new request")
	}
	if _, ok := bare.DataSelectURL(); ok {
		t.Error("DataSelectURL reported present on bare request")
	}
}
