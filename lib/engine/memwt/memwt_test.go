package memwt

import (
	"bytes"
	"testing"

	"github.com/kvbridge/kvbridge/lib/engine"
)

func TestCreateValidatesConfig(t *testing.T) {
	e := NewEngine()

	if code := e.Create("table:ok", "key_format=q,app_metadata=(formatVersion=1)"); code != engine.CodeOK {
		t.Errorf("well-formed config rejected with code %d", code)
	}
	if code := e.Create("table:bad", "app_metadata=(never closed"); code != engine.CodeInvalidArg {
		t.Errorf("malformed config: expected CodeInvalidArg, got %d", code)
	}
	if code := e.Create("table:ok", "key_format=q"); code != engine.CodeDuplicateKey {
		t.Errorf("duplicate uri: expected CodeDuplicateKey, got %d", code)
	}
}

func TestDrop(t *testing.T) {
	e := NewEngine()
	e.Create("table:t", "key_format=q")

	if code := e.Drop("table:t"); code != engine.CodeOK {
		t.Errorf("Drop failed with code %d", code)
	}
	if code := e.Drop("table:t"); code != engine.CodeNoEnt {
		t.Errorf("Drop of missing uri: expected CodeNoEnt, got %d", code)
	}

	if _, code := e.OpenStatisticsCursor("statistics:table:t", ""); code != engine.CodeNoEnt {
		t.Errorf("statistics source must vanish with the table, got code %d", code)
	}
}

func TestStatisticsCursorConfig(t *testing.T) {
	e := NewEngine()
	e.Create("table:t", "key_format=q")

	for _, config := range []string{"", "statistics=(fast)", "statistics=(all)"} {
		cursor, code := e.OpenStatisticsCursor("statistics:table:t", config)
		if code != engine.CodeOK {
			t.Errorf("config %q rejected with code %d", config, code)
			continue
		}
		cursor.Close()
	}

	badConfigs := []string{
		"statistics=(bogus)",
		"statistics=7",
		"statistics=(fast", // malformed grammar
	}
	for _, config := range badConfigs {
		if _, code := e.OpenStatisticsCursor("statistics:table:t", config); code != engine.CodeInvalidArg {
			t.Errorf("config %q: expected CodeInvalidArg, got %d", config, code)
		}
	}

	// uri without the statistics prefix is not a statistics source
	if _, code := e.OpenStatisticsCursor("table:t", ""); code != engine.CodeInvalidArg {
		t.Errorf("non-statistics uri: expected CodeInvalidArg, got %d", code)
	}
}

func TestSetStatisticsCopiesRows(t *testing.T) {
	e := NewEngine()
	e.Create("table:t", "key_format=q")

	rows := []engine.StatisticsRow{{Description: "entries", ID: engine.StatEntryCount, Value: 1}}
	e.SetStatistics("table:t", rows)
	rows[0].Value = 999 // mutating the caller's slice must not leak in

	cursor, code := e.OpenStatisticsCursor("statistics:table:t", "")
	if code != engine.CodeOK {
		t.Fatalf("open failed with code %d", code)
	}
	defer cursor.Close()

	if code := cursor.Next(); code != engine.CodeOK {
		t.Fatalf("Next failed with code %d", code)
	}
	row, _ := cursor.Row()
	if row.Value != 1 {
		t.Errorf("engine rows must be isolated from the fixture slice, got %d", row.Value)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	src := NewEngine()
	src.Create("table:users", "key_format=q,app_metadata=(formatVersion=2)")
	src.Create("table:orders", "key_format=q")
	src.SetStatistics("table:users", []engine.StatisticsRow{
		{Description: "block-manager: block size", ID: engine.StatBlockSize, Value: 8192},
		{Description: "entries", ID: engine.StatEntryCount, Value: 10},
	})

	var buf bytes.Buffer
	if err := src.Save(&buf); err != nil {
		t.Fatal(err)
	}

	dst := NewEngine()
	if err := dst.Load(&buf); err != nil {
		t.Fatal(err)
	}

	cursor, code := dst.OpenMetadataCursor()
	if code != engine.CodeOK {
		t.Fatalf("open failed with code %d", code)
	}
	defer cursor.Close()

	if code := cursor.Seek("table:users"); code != engine.CodeOK {
		t.Fatalf("restored table missing, code %d", code)
	}
	value, _ := cursor.Value()
	if value != "key_format=q,app_metadata=(formatVersion=2)" {
		t.Errorf("restored config differs: %q", value)
	}

	stats, code := dst.OpenStatisticsCursor("statistics:table:users", "")
	if code != engine.CodeOK {
		t.Fatalf("restored statistics source missing, code %d", code)
	}
	defer stats.Close()

	if code := stats.Seek(engine.StatBlockSize); code != engine.CodeOK {
		t.Fatalf("restored statistic missing, code %d", code)
	}
	row, _ := stats.Row()
	if row.Value != 8192 || row.Description != "block-manager: block size" {
		t.Errorf("restored row differs: %s", row)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	e := NewEngine()

	if err := e.Load(bytes.NewReader([]byte("NOTADB\x00\x00more bytes here"))); err == nil {
		t.Error("Load must reject a bad magic number")
	}

	// right magic, unsupported version
	bad := append([]byte(magicNum), 99)
	if err := e.Load(bytes.NewReader(bad)); err == nil {
		t.Error("Load must reject an unsupported version")
	}
}
