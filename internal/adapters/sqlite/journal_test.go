package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/savage13/fern/internal/domain"
)

func TestJournal_RecordList(t *testing.T) {
	ctx := context.Background()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	attempts := []domain.Attempt{
		{RunID: "r1", Index: 0, DataCenter: "IRISDMC", URL: "http://a/query", Lines: 2,
			Outcome: domain.OutcomeOK, Status: 200, Bytes: 512, Key: "fdsnws.x.mseed",
			Started: started, Duration: 1500 * time.Millisecond},
		{RunID: "r1", Index: 1, DataCenter: "GEOFON", URL: "http://b/query", Lines: 1,
			Outcome: domain.OutcomeFailed, Error: "send request: refused", Started: started},
	}
	for _, a := range attempts {
		if err := j.Record(ctx, a); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d attempts", len(got))
	}
	if got[0].DataCenter != "GEOFON" || got[0].Outcome != domain.OutcomeFailed || got[0].Error == "" {
		t.Errorf("latest attempt = %+v", got[0])
	}
	first := got[1]
	if first.Outcome != domain.OutcomeOK || first.Bytes != 512 || first.Key != "fdsnws.x.mseed" {
		t.Errorf("first attempt = %+v", first)
	}
	if !first.Started.Equal(started) || first.Duration != 1500*time.Millisecond {
		t.Errorf("times = %v, %v", first.Started, first.Duration)
	}

	limited, err := j.List(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("List(1) = %d, %v", len(limited), err)
	}
}

func TestJournal_ReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Record(ctx, domain.Attempt{RunID: "r", DataCenter: "X", Outcome: domain.OutcomeEmpty, Status: 204}); err != nil {
		t.Fatal(err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	got, err := j.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Outcome != domain.OutcomeEmpty {
		t.Errorf("after reopen = %+v", got)
	}
}

func TestJournal_ListRejectsBadStartTime(t *testing.T) {
	ctx := context.Background()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	if _, err := j.conn.ExecContext(ctx, insertAttempt,
		"r1", 0, "IRISDMC", "http://a/query", 1, "ok", 200, 10, "", "", "yesterday", 5); err != nil {
		t.Fatal(err)
	}
	if _, err := j.List(ctx, 10); err == nil {
		t.Error("expected error for unparsable start time")
	}
}
