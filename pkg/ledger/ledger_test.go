package ledger

import (
	"testing"
)

// TestRegister_CreatesEntry tests link registration
func TestRegister_CreatesEntry(t *testing.T) {
	l := New()
	l.Register("A", "B", 10)

	stat, ok := l.Stat("A", "B")
	if !ok {
		t.Fatal("Expected stat for A-B")
	}
	if stat.Capacity != 10 || stat.Utilization != 0 || len(stat.FlowIDs) != 0 {
		t.Errorf("Unexpected initial stat %+v", stat)
	}
	if !l.Has("B", "A") {
		t.Error("Expected reverse lookup to resolve to the same link")
	}
	if l.Len() != 1 {
		t.Errorf("Expected 1 link, got %d", l.Len())
	}
}

// TestRegister_Reregister tests that re-registering keeps usage
func TestRegister_Reregister(t *testing.T) {
	l := New()
	l.Register("A", "B", 10)
	l.AddUsage("A", "B", "f1", 4)
	l.Register("B", "A", 20)

	if l.Len() != 1 {
		t.Fatalf("Expected a single entry, got %d", l.Len())
	}
	stat, _ := l.Stat("A", "B")
	if stat.Src != "A" || stat.Dst != "B" {
		t.Errorf("Expected original orientation A-B, got %s-%s", stat.Src, stat.Dst)
	}
	if stat.Capacity != 20 || stat.Utilization != 4 {
		t.Errorf("Expected capacity 20 and utilization 4, got %+v", stat)
	}
}

// TestUsage_AddRemove tests utilization accounting and membership
func TestUsage_AddRemove(t *testing.T) {
	l := New()
	l.Register("A", "B", 10)

	l.AddUsage("A", "B", "f1", 2)
	l.AddUsage("B", "A", "f2", 3)

	stat, _ := l.Stat("A", "B")
	if stat.Utilization != 5 {
		t.Errorf("Expected utilization 5, got %g", stat.Utilization)
	}
	if stat.Ratio != 0.5 || stat.Percent() != 50 {
		t.Errorf("Expected ratio 0.5, got %g", stat.Ratio)
	}
	if len(stat.FlowIDs) != 2 || stat.FlowIDs[0] != "f1" || stat.FlowIDs[1] != "f2" {
		t.Errorf("Expected flows [f1 f2], got %v", stat.FlowIDs)
	}

	l.RemoveUsage("A", "B", "f1", 2)
	stat, _ = l.Stat("A", "B")
	if stat.Utilization != 3 || len(stat.FlowIDs) != 1 {
		t.Errorf("Expected utilization 3 with one flow, got %+v", stat)
	}
}

// TestUsage_ClampsAtZero tests silent underflow correction
func TestUsage_ClampsAtZero(t *testing.T) {
	l := New()
	l.Register("A", "B", 10)
	l.AddUsage("A", "B", "f1", 2)

	l.RemoveUsage("A", "B", "f1", 2)
	l.RemoveUsage("A", "B", "f1", 2)

	stat, _ := l.Stat("A", "B")
	if stat.Utilization != 0 {
		t.Errorf("Expected utilization clamped to 0, got %g", stat.Utilization)
	}
}

// TestUsage_UnknownLink tests that usage on unregistered links is ignored
func TestUsage_UnknownLink(t *testing.T) {
	l := New()

	if l.AddUsage("A", "B", "f1", 1) {
		t.Error("Expected AddUsage on unknown link to report false")
	}
	if l.RemoveUsage("A", "B", "f1", 1) {
		t.Error("Expected RemoveUsage on unknown link to report false")
	}
	if len(l.Stats()) != 0 {
		t.Error("Expected no stats to be created")
	}
}

// TestPathUsage tests charging and releasing a whole path
func TestPathUsage(t *testing.T) {
	l := New()
	l.Register("A", "B", 10)
	l.Register("B", "C", 5)

	path := []string{"A", "B", "C"}
	l.AddPathUsage(path, "f1", 2)

	for _, s := range l.Stats() {
		if s.Utilization != 2 {
			t.Errorf("%s-%s: expected utilization 2, got %g", s.Src, s.Dst, s.Utilization)
		}
	}

	l.RemovePathUsage(path, "f1", 2)
	for _, s := range l.Stats() {
		if s.Utilization != 0 || len(s.FlowIDs) != 0 {
			t.Errorf("%s-%s: expected empty link, got %+v", s.Src, s.Dst, s)
		}
	}
}

// TestUnregister tests entry destruction
func TestUnregister(t *testing.T) {
	l := New()
	l.Register("A", "B", 10)
	l.Register("B", "C", 5)
	l.AddUsage("B", "C", "f1", 1)

	if !l.Unregister("C", "B") {
		t.Fatal("Expected Unregister to succeed")
	}
	if l.Unregister("B", "C") {
		t.Error("Expected second Unregister to report false")
	}

	stats := l.Stats()
	if len(stats) != 1 || stats[0].Src != "A" {
		t.Errorf("Expected only A-B to remain, got %+v", stats)
	}

	l.Register("B", "C", 5)
	stat, _ := l.Stat("B", "C")
	if stat.Utilization != 0 || len(stat.FlowIDs) != 0 {
		t.Errorf("Expected a fresh entry after re-registration, got %+v", stat)
	}
}
