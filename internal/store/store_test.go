package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/catchme/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "catchme.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestKVRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catchme.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	kv := st.KV("alice")
	if err := kv.Set("bestScore", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("bestScore", "9"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	got, ok, err := st.KV("alice").Get("bestScore")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "9" {
		t.Fatalf("expected 9, got %q", got)
	}
}

func TestKVProfilesAreIsolated(t *testing.T) {
	st := openTestStore(t)
	if err := st.KV("alice").Set("darkMode", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := st.KV("bob").Get("darkMode"); err != nil || ok {
		t.Fatalf("expected missing key for other profile, ok=%v err=%v", ok, err)
	}
}

func TestRoundsListAndDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	kv := st.KV("alice")
	base := time.Unix(0, 0)
	for i, d := range []int{15, 30, 30} {
		round := model.RoundResult{
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i)*time.Minute + time.Duration(d)*time.Second),
			Duration:  d,
			Score:     i + 3,
			NewRecord: i == 2,
		}
		if err := kv.RecordRound(round); err != nil {
			t.Fatalf("record round: %v", err)
		}
	}
	if err := kv.Set("bestScore", "5"); err != nil {
		t.Fatalf("set: %v", err)
	}

	rounds, err := st.ListRounds(ctx, model.StatsConfig{Profile: "alice", Duration: 30})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if rounds[0].Score != 4 || rounds[1].Score != 5 || !rounds[1].NewRecord {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}
	if rounds[0].ID == "" || rounds[0].ID == rounds[1].ID {
		t.Fatalf("expected distinct round ids: %+v", rounds)
	}

	deleted, err := st.DeleteProfile(ctx, "alice", false)
	if err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted key, got %d", deleted)
	}
	rounds, err = st.ListRounds(ctx, model.StatsConfig{Profile: "alice"})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("journal should survive a record reset, got %d rounds", len(rounds))
	}

	if _, err := st.DeleteProfile(ctx, "alice", true); err != nil {
		t.Fatalf("delete profile with rounds: %v", err)
	}
	rounds, err = st.ListRounds(ctx, model.StatsConfig{Profile: "alice"})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 0 {
		t.Fatalf("expected no rounds, got %d", len(rounds))
	}
}
