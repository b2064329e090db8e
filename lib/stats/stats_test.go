package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/kvbridge/kvbridge/lib/engine"
	"github.com/kvbridge/kvbridge/lib/engine/memwt"
	"github.com/kvbridge/kvbridge/lib/status"
)

// newService builds a statistics service over an in-memory engine with a
// single "table:users" object serving the given rows.
func newService(t *testing.T, rows []engine.StatisticsRow) *Service {
	t.Helper()
	e := memwt.NewEngine()
	if code := e.Create("table:users", "key_format=q"); code != engine.CodeOK {
		t.Fatalf("Create failed with code %d", code)
	}
	if code := e.SetStatistics("table:users", rows); code != engine.CodeOK {
		t.Fatalf("SetStatistics failed with code %d", code)
	}
	return NewService(e)
}

func TestStatisticValue(t *testing.T) {
	svc := newService(t, []engine.StatisticsRow{
		{Description: "block-manager: block size", ID: engine.StatBlockSize, Value: 8192},
	})

	value, err := svc.StatisticValue("statistics:table:users", "statistics=(fast)", engine.StatBlockSize)
	if err != nil {
		t.Fatal(err)
	}
	if value != 8192 {
		t.Errorf("expected 8192, got %d", value)
	}

	_, err = svc.StatisticValue("statistics:table:users", "", 9999)
	if status.CodeOf(err) != status.CodeNoSuchKey {
		t.Errorf("expected NoSuchKey for an unserved statistic, got %v", err)
	}

	_, err = svc.StatisticValue("statistics:table:gone", "", engine.StatBlockSize)
	if status.CodeOf(err) != status.CodeCursorNotFound {
		t.Fatalf("expected CursorNotFound for a missing source, got %v", err)
	}
	if !strings.Contains(err.Error(), "statistics:table:gone") {
		t.Errorf("open failure should embed the uri: %q", err.Error())
	}
	if !strings.Contains(err.Error(), engine.Strerror(engine.CodeNoEnt)) {
		t.Errorf("open failure should embed the engine error text: %q", err.Error())
	}
}

func TestStatisticValueAsNarrows(t *testing.T) {
	svc := newService(t, []engine.StatisticsRow{
		{Description: "big", ID: 7, Value: math.MaxUint64},
		{Description: "small", ID: 8, Value: 1000},
	})

	// saturating at the target's upper bound
	if v, err := StatisticValueAs[int32](svc, "statistics:table:users", "", 7); err != nil || v != math.MaxInt32 {
		t.Errorf("int32 narrowing: expected MaxInt32, got %d err=%v", v, err)
	}
	if v, err := StatisticValueAs[int64](svc, "statistics:table:users", "", 7); err != nil || v != math.MaxInt64 {
		t.Errorf("int64 narrowing: expected MaxInt64, got %d err=%v", v, err)
	}
	if v, err := StatisticValueAs[uint64](svc, "statistics:table:users", "", 7); err != nil || v != math.MaxUint64 {
		t.Errorf("uint64 passthrough: expected MaxUint64, got %d err=%v", v, err)
	}

	// values within range pass through untouched
	if v, err := StatisticValueAs[int32](svc, "statistics:table:users", "", 8); err != nil || v != 1000 {
		t.Errorf("in-range value: expected 1000, got %d err=%v", v, err)
	}
}

func TestIdentSize(t *testing.T) {
	svc := newService(t, []engine.StatisticsRow{
		{Description: "block-manager: block size", ID: engine.StatBlockSize, Value: 65536},
	})

	if size := svc.IdentSize("table:users"); size != 65536 {
		t.Errorf("expected 65536, got %d", size)
	}

	// a concurrently dropped object is absorbed as size 0, not an error
	if size := svc.IdentSize("table:dropped"); size != 0 {
		t.Errorf("expected 0 for a dropped ident, got %d", size)
	}
}

func TestExportSnapshotGrouping(t *testing.T) {
	svc := newService(t, []engine.StatisticsRow{
		{Description: "cache:pages read", ID: 1, Value: 42},
		{Description: "bytes written", ID: 2, Value: 1234},
		{Description: "objects", ID: 3, Value: 9},
		{Description: "cache: pages written", ID: 4, Value: 7},
	})

	doc, err := svc.ExportSnapshot("statistics:table:users", "")
	if err != nil {
		t.Fatal(err)
	}

	// the snapshot always leads with the uri
	keys := doc.Keys()
	if len(keys) == 0 || keys[0] != "uri" {
		t.Fatalf("snapshot must lead with the uri field, keys: %v", keys)
	}
	if v, _ := doc.String("uri"); v != "statistics:table:users" {
		t.Errorf("unexpected uri field: %q", v)
	}

	// colon-delimited description
	cache := doc.Sub("cache")
	if cache == nil {
		t.Fatal("expected a cache sub-document")
	}
	if v, ok := cache.Int64("pages read"); !ok || v != 42 {
		t.Errorf(`cache["pages read"]: expected 42, got %d %v`, v, ok)
	}
	// leading whitespace of the suffix is trimmed
	if v, ok := cache.Int64("pages written"); !ok || v != 7 {
		t.Errorf(`cache["pages written"]: expected 7, got %d %v`, v, ok)
	}

	// space-delimited description
	bytesSub := doc.Sub("bytes")
	if bytesSub == nil {
		t.Fatal("expected a bytes sub-document")
	}
	if v, ok := bytesSub.Int64("written"); !ok || v != 1234 {
		t.Errorf(`bytes["written"]: expected 1234, got %d %v`, v, ok)
	}

	// no delimiter at all gets the uniform "num" bucket
	objects := doc.Sub("objects")
	if objects == nil {
		t.Fatal("expected an objects sub-document")
	}
	if v, ok := objects.Int64("num"); !ok || v != 9 {
		t.Errorf(`objects["num"]: expected 9, got %d %v`, v, ok)
	}

	// groups appear in first-seen order after the uri field
	wantOrder := []string{"uri", "cache", "bytes", "objects"}
	for i, want := range wantOrder {
		if keys[i] != want {
			t.Errorf("key %d: expected %q, got %q (all: %v)", i, want, keys[i], keys)
		}
	}
}

func TestExportSnapshotLastWriteWins(t *testing.T) {
	svc := newService(t, []engine.StatisticsRow{
		{Description: "cache:pages read", ID: 1, Value: 1},
		{Description: "cache:pages read", ID: 1, Value: 2},
	})

	doc, err := svc.ExportSnapshot("statistics:table:users", "")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := doc.Sub("cache").Int64("pages read"); v != 2 {
		t.Errorf("repeated (prefix, suffix) must be last-write-wins, got %d", v)
	}
}

func TestExportSnapshotValueReinterpretation(t *testing.T) {
	svc := newService(t, []engine.StatisticsRow{
		{Description: "cache:bytes", ID: 1, Value: math.MaxUint64},
	})

	doc, err := svc.ExportSnapshot("statistics:table:users", "")
	if err != nil {
		t.Fatal(err)
	}
	// direct bit-width narrowing, not saturation
	if v, _ := doc.Sub("cache").Int64("bytes"); v != -1 {
		t.Errorf("expected reinterpreted value -1, got %d", v)
	}
}

func TestExportSnapshotOpenFailure(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.ExportSnapshot("statistics:table:gone", "")
	if status.CodeOf(err) != status.CodeCursorNotFound {
		t.Errorf("expected CursorNotFound, got %v", err)
	}
}

func TestExportSnapshotEmptySource(t *testing.T) {
	svc := newService(t, nil)

	doc, err := svc.ExportSnapshot("statistics:table:users", "")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Len() != 1 {
		t.Errorf("empty source must still produce the uri field, got %#v", doc)
	}
}
