package sync

import (
	"testing"
	"time"
)

func TestResolveNoOpRefreshAppliesRemote(t *testing.T) {
	lastSynced := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	local := lastSynced.Add(-time.Hour)
	remote := lastSynced.Add(time.Hour)

	// A record untouched since the last sync is a refresh, not a conflict,
	// so even local_wins applies remote.
	for _, strategy := range []Strategy{RemoteWins, LocalWins, NewestWins} {
		if got := Resolve(strategy, local, remote, &lastSynced); got != ApplyRemote {
			t.Errorf("strategy %s: got KeepLocal for unchanged local record", strategy)
		}
	}

	// Local exactly at the sync timestamp is still unchanged.
	if got := Resolve(LocalWins, lastSynced, remote, &lastSynced); got != ApplyRemote {
		t.Error("local updated exactly at lastSyncedAt should apply remote")
	}
}

func TestResolveStrategies(t *testing.T) {
	lastSynced := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	local := lastSynced.Add(time.Hour) // locally modified since last sync

	tests := []struct {
		name     string
		strategy Strategy
		remote   time.Time
		want     Decision
	}{
		{"remote_wins always applies", RemoteWins, local.Add(-time.Hour), ApplyRemote},
		{"local_wins always keeps", LocalWins, local.Add(time.Hour), KeepLocal},
		{"newest_wins remote newer", NewestWins, local.Add(time.Minute), ApplyRemote},
		{"newest_wins local newer", NewestWins, local.Add(-time.Minute), KeepLocal},
		{"newest_wins equal keeps local", NewestWins, local, KeepLocal},
		{"unknown strategy applies remote", Strategy("bogus"), local.Add(-time.Hour), ApplyRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.strategy, local, tt.remote, &lastSynced); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveNeverSyncedFallsThroughToStrategy(t *testing.T) {
	local := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	remote := local.Add(time.Hour)

	if got := Resolve(LocalWins, local, remote, nil); got != KeepLocal {
		t.Error("with no lastSyncedAt, local_wins should keep local")
	}
	if got := Resolve(NewestWins, local, remote, nil); got != ApplyRemote {
		t.Error("with no lastSyncedAt, newest_wins should compare timestamps")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	lastSynced := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	local := lastSynced.Add(time.Hour)
	remote := local.Add(time.Minute)

	first := Resolve(NewestWins, local, remote, &lastSynced)
	for i := 0; i < 100; i++ {
		if got := Resolve(NewestWins, local, remote, &lastSynced); got != first {
			t.Fatalf("Resolve() changed answer on iteration %d", i)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"remote_wins", RemoteWins, false},
		{"odoo_wins", RemoteWins, false}, // legacy alias
		{"local_wins", LocalWins, false},
		{"newest_wins", NewestWins, false},
		{"", NewestWins, false},
		{"coin_flip", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
