package domain

import "testing"

func TestQueryURL(t *testing.T) {
	tests := []struct {
		base, want string
	}{
		{"http://service.iris.edu/fdsnws/dataselect/1/", "http://service.iris.edu/fdsnws/dataselect/1/query"},
		{"http://geofon.gfz-potsdam.de/fdsnws/dataselect/1", "http://geofon.gfz-potsdam.de/fdsnws/dataselect/1/query"},
	}
	for _, tt := range tests {
		if got := QueryURL(tt.base); got != tt.want {
			t.Errorf("QueryURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestDocument_PendingAndSize(t *testing.T) {
	doc := NewDocument()
	a := NewDataCenterRequest(map[string]string{"DATACENTER": "A,http://a"})
	a.Add(mustLine(t, "IU ANMO 00 BHZ 2020-01-01T00:00:00 2020-01-01T00:00:10"))
	b := NewDataCenterRequest(map[string]string{"DATACENTER": "B,http://b"})
	b.Add(mustLine(t, "IU COLA 00 LHZ 2020-01-01T00:00:00 2020-01-01T00:00:10"))
	b.Done = true
	doc.Requests = append(doc.Requests, a, b)

	if got := doc.Pending(); got != 1 {
		t.Errorf("Pending() = %d, want 1", got)
	}
	if got := doc.LineCount(); got != 2 {
		t.Errorf("LineCount() = %d, want 2", got)
	}
	if got, want := doc.Size(), int64(10*160+10*4); got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
}

func TestOutcome_StringRoundTrip(t *testing.T) {
	for _, o := range []Outcome{OutcomeOK, OutcomeEmpty, OutcomeFailed} {
		if got := ParseOutcome(o.String()); got != o {
			t.Errorf("ParseOutcome(%q) = %v, want %v", o.String(), got, o)
		}
	}
	if got := ParseOutcome("bogus"); got != OutcomeFailed {
		t.Errorf("ParseOutcome(bogus) = %v, want failed", got)
	}
}

func mustLine(t *testing.T, s string) Line {
	t.Helper()
	l, err := ParseLine(s)
	if err != nil {
		t.Fatalf("ParseLine(%q): %v", s, err)
	}
	return l
}
