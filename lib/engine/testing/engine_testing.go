package testing

import (
	"testing"

	"github.com/kvbridge/kvbridge/lib/engine"
)

// Fixture describes one object a session factory must serve: its metadata
// configuration string and its statistics rows in serving order.
type Fixture struct {
	URI    string
	Config string
	Stats  []engine.StatisticsRow
}

// SessionFactory creates a session over the given fixtures.
type SessionFactory func(fixtures []Fixture) engine.Session

// RunSessionTests runs the conformance suite for an engine.Session
// implementation.
func RunSessionTests(t *testing.T, name string, factory SessionFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("MetadataSeek", func(t *testing.T) {
			testMetadataSeek(t, factory)
		})

		t.Run("MetadataIteration", func(t *testing.T) {
			testMetadataIteration(t, factory)
		})

		t.Run("MetadataClose", func(t *testing.T) {
			testMetadataClose(t, factory)
		})

		t.Run("StatisticsSeek", func(t *testing.T) {
			testStatisticsSeek(t, factory)
		})

		t.Run("StatisticsDrain", func(t *testing.T) {
			testStatisticsDrain(t, factory)
		})

		t.Run("StatisticsOpenMissing", func(t *testing.T) {
			testStatisticsOpenMissing(t, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func defaultFixtures() []Fixture {
	return []Fixture{
		{
			URI:    "table:users",
			Config: "key_format=q,value_format=u,app_metadata=(formatVersion=2)",
			Stats: []engine.StatisticsRow{
				{Description: "block-manager: blocks allocated", ID: engine.StatBlockAlloc, Value: 17},
				{Description: "block-manager: block size", ID: engine.StatBlockSize, Value: 8192},
				{Description: "entries", ID: engine.StatEntryCount, Value: 420},
			},
		},
		{
			URI:    "table:orders",
			Config: "key_format=q,value_format=u",
			Stats: []engine.StatisticsRow{
				{Description: "block-manager: block size", ID: engine.StatBlockSize, Value: 4096},
			},
		},
	}
}

func mustOpenMetadata(t *testing.T, session engine.Session) engine.MetadataCursor {
	t.Helper()
	cursor, code := session.OpenMetadataCursor()
	if code != engine.CodeOK {
		t.Fatalf("OpenMetadataCursor failed with code %d", code)
	}
	return cursor
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testMetadataSeek(t *testing.T, factory SessionFactory) {
	fixtures := defaultFixtures()
	session := factory(fixtures)

	cursor := mustOpenMetadata(t, session)
	defer cursor.Close()

	if code := cursor.Seek("table:users"); code != engine.CodeOK {
		t.Fatalf("Seek on existing uri failed with code %d", code)
	}
	value, code := cursor.Value()
	if code != engine.CodeOK {
		t.Fatalf("Value after successful Seek failed with code %d", code)
	}
	if value != fixtures[0].Config {
		t.Errorf("Expected config %q, got %q", fixtures[0].Config, value)
	}

	if code := cursor.Seek("table:missing"); code != engine.CodeNotFound {
		t.Errorf("Seek on missing uri: expected CodeNotFound, got %d", code)
	}
}

func testMetadataIteration(t *testing.T, factory SessionFactory) {
	fixtures := defaultFixtures()
	session := factory(fixtures)

	cursor := mustOpenMetadata(t, session)
	defer cursor.Close()

	seen := make(map[string]bool)
	count := 0
	for cursor.Next() == engine.CodeOK {
		value, code := cursor.Value()
		if code != engine.CodeOK {
			t.Fatalf("Value during iteration failed with code %d", code)
		}
		seen[value] = true
		count++
		if count > len(fixtures) {
			t.Fatalf("Iteration produced more rows than fixtures (%d)", count)
		}
	}

	if count != len(fixtures) {
		t.Errorf("Expected %d metadata rows, got %d", len(fixtures), count)
	}
	for _, f := range fixtures {
		if !seen[f.Config] {
			t.Errorf("Iteration never produced config for %s", f.URI)
		}
	}
}

func testMetadataClose(t *testing.T, factory SessionFactory) {
	session := factory(defaultFixtures())

	cursor := mustOpenMetadata(t, session)
	if code := cursor.Close(); code != engine.CodeOK {
		t.Fatalf("Close failed with code %d", code)
	}

	if code := cursor.Seek("table:users"); code == engine.CodeOK {
		t.Errorf("Seek on closed cursor must not succeed")
	}
	if _, code := cursor.Value(); code == engine.CodeOK {
		t.Errorf("Value on closed cursor must not succeed")
	}
	if code := cursor.Next(); code == engine.CodeOK {
		t.Errorf("Next on closed cursor must not succeed")
	}
}

func testStatisticsSeek(t *testing.T, factory SessionFactory) {
	fixtures := defaultFixtures()
	session := factory(fixtures)

	cursor, code := session.OpenStatisticsCursor("statistics:table:users", "statistics=(fast)")
	if code != engine.CodeOK {
		t.Fatalf("OpenStatisticsCursor failed with code %d", code)
	}
	defer cursor.Close()

	if code := cursor.Seek(engine.StatBlockSize); code != engine.CodeOK {
		t.Fatalf("Seek on served statistic failed with code %d", code)
	}
	row, code := cursor.Row()
	if code != engine.CodeOK {
		t.Fatalf("Row after successful Seek failed with code %d", code)
	}
	if row.ID != engine.StatBlockSize || row.Value != 8192 {
		t.Errorf("Expected block size row with value 8192, got %s", row)
	}

	if code := cursor.Seek(9999); code != engine.CodeNotFound {
		t.Errorf("Seek on unserved statistic: expected CodeNotFound, got %d", code)
	}
}

func testStatisticsDrain(t *testing.T, factory SessionFactory) {
	fixtures := defaultFixtures()
	session := factory(fixtures)

	cursor, code := session.OpenStatisticsCursor("statistics:table:users", "")
	if code != engine.CodeOK {
		t.Fatalf("OpenStatisticsCursor failed with code %d", code)
	}
	defer cursor.Close()

	var drained []engine.StatisticsRow
	for cursor.Next() == engine.CodeOK {
		row, code := cursor.Row()
		if code != engine.CodeOK {
			t.Fatalf("Row during drain failed with code %d", code)
		}
		drained = append(drained, row)
	}

	want := fixtures[0].Stats
	if len(drained) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(drained))
	}
	for i := range want {
		if drained[i] != want[i] {
			t.Errorf("Row %d: expected %s, got %s", i, want[i], drained[i])
		}
	}
}

func testStatisticsOpenMissing(t *testing.T, factory SessionFactory) {
	session := factory(defaultFixtures())

	cursor, code := session.OpenStatisticsCursor("statistics:table:missing", "")
	if code == engine.CodeOK {
		cursor.Close()
		t.Fatalf("OpenStatisticsCursor on missing uri must not succeed")
	}
	if cursor != nil {
		t.Errorf("Failed open must return a nil cursor")
	}
}
