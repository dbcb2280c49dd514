package discovery

import (
	"testing"
	"time"
)

func TestBuildParseReplyRoundTrip(t *testing.T) {
	raw := buildReply("layout-1")
	name, ok := parseReply(raw)
	if !ok {
		t.Fatal("expected a valid reply to parse")
	}
	if name != "layout-1" {
		t.Fatalf("expected name layout-1, got %q", name)
	}
}

func TestParseReplyRejectsWrongCommand(t *testing.T) {
	if _, ok := parseReply([]byte{commandDiscover}); ok {
		t.Fatal("expected a Discover command to not parse as a reply")
	}
}

func TestTableResetsTTLOnReply(t *testing.T) {
	table := NewTable()
	table.Reply("10.0.0.1:1", "layout-1")
	table.Tick()
	table.Tick()

	table.Reply("10.0.0.1:1", "layout-1") // fresh reply resets TTL

	entries := table.Entries()
	e, ok := entries["10.0.0.1:1"]
	if !ok {
		t.Fatal("expected entry to still be present")
	}
	if e.TTL != entryTTL {
		t.Fatalf("expected TTL reset to %v, got %v", entryTTL, e.TTL)
	}
}

func TestTableRemovesEntryAtZeroTTL(t *testing.T) {
	table := NewTable()
	table.Reply("10.0.0.1:1", "layout-1")

	ticks := int(entryTTL / time.Second)
	for i := 0; i < ticks; i++ {
		table.Tick()
	}

	if _, ok := table.Entries()["10.0.0.1:1"]; ok {
		t.Fatal("expected entry to be removed once its TTL lapses")
	}
}
