package stats

import (
	"math"
	"strings"

	"github.com/VictoriaMetrics/metrics"

	"github.com/kvbridge/kvbridge/lib/document"
	"github.com/kvbridge/kvbridge/lib/engine"
	"github.com/kvbridge/kvbridge/lib/status"
)

var (
	lookupsTotal    = metrics.NewCounter("kvbridge_statistic_lookups_total")
	snapshotsTotal  = metrics.NewCounter("kvbridge_statistic_snapshots_total")
	droppedAbsorbed = metrics.NewCounter("kvbridge_statistic_dropped_ident_total")
)

// --------------------------------------------------------------------------
// Service
// --------------------------------------------------------------------------

// Service reads engine statistics through a session and materializes them as
// scalar counters or grouped snapshot documents.
//
// Thread-safety: a Service holds no state beyond the session; it is exactly
// as concurrency-safe as the session it wraps.
type Service struct {
	session engine.Session
}

// NewService creates a statistics service over the given session.
func NewService(session engine.Session) *Service {
	if session == nil {
		status.Fatalf("statistics service requires a session")
	}
	return &Service{session: session}
}

// StatisticValue returns the 64-bit counter identified by statID from the
// statistics source at uri, opened with the given engine-level cursor
// configuration. The cursor is closed on every exit path. An open failure is
// reported as CursorNotFound with the uri and engine error text embedded; a
// failed seek as NoSuchKey.
func (s *Service) StatisticValue(uri, config string, statID int32) (uint64, error) {
	lookupsTotal.Inc()

	cursor, code := s.session.OpenStatisticsCursor(uri, config)
	if code != engine.CodeOK {
		return 0, status.Errorf(status.CodeCursorNotFound,
			"unable to open cursor at URI %s. reason: %s", uri, engine.Strerror(code))
	}
	defer cursor.Close()

	if code := cursor.Seek(statID); code != engine.CodeOK {
		return 0, status.Errorf(status.CodeNoSuchKey,
			"unable to find key %d at URI %s. reason: %s", statID, uri, engine.Strerror(code))
	}

	row, code := cursor.Row()
	if code != engine.CodeOK {
		return 0, status.Errorf(status.CodeBadValue,
			"unable to get value for key %d at URI %s. reason: %s", statID, uri, engine.Strerror(code))
	}
	return row.Value, nil
}

// Integer is the set of narrower targets StatisticValueAs can produce.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64
}

// StatisticValueAs looks up a statistic like StatisticValue and narrows the
// raw uint64 counter into T, saturating at T's upper bound. The narrowing is
// explicit and intentional: callers choosing a narrow target accept the
// clamped range.
func StatisticValueAs[T Integer](s *Service, uri, config string, statID int32) (T, error) {
	value, err := s.StatisticValue(uri, config, statID)
	if err != nil {
		return 0, err
	}
	return castStatisticValue[T](value), nil
}

func castStatisticValue[T Integer](value uint64) T {
	var limit uint64
	switch any(T(0)).(type) {
	case int:
		limit = math.MaxInt
	case int32:
		limit = math.MaxInt32
	case int64:
		limit = math.MaxInt64
	case uint32:
		limit = math.MaxUint32
	default:
		limit = math.MaxUint64
	}
	if value > limit {
		return T(limit)
	}
	return T(value)
}

// IdentSize returns the block size statistic of the object at uri, using the
// engine's fast statistics mode.
//
// A CursorNotFound failure is absorbed and reported as 0: the statistics
// source vanishing means the object was dropped concurrently, an expected
// race. Every other failure is a broken invariant and aborts rather than
// returning a bogus size.
func (s *Service) IdentSize(uri string) int64 {
	size, err := StatisticValueAs[int64](s, "statistics:"+uri, "statistics=(fast)", engine.StatBlockSize)
	if err != nil {
		if status.CodeOf(err) == status.CodeCursorNotFound {
			// ident gone, so its 0
			droppedAbsorbed.Inc()
			return 0
		}
		status.InvariantOK(err)
	}
	return size
}

// ExportSnapshot drains the statistics source at uri into a two-level
// grouped document. The document always leads with a "uri" field naming the
// source. Each row's description is split into (prefix, suffix) at the first
// ':' or, failing that, the first ' '; descriptions without either delimiter
// group under themselves with the uniform suffix "num". Groups appear in
// first-seen order and repeated (prefix, suffix) pairs are last-write-wins.
//
// Counter values are reinterpreted from uint64 to int64 without a bounds
// check; counters are expected to stay within the signed range in practice
// and a wrapped value is surfaced as-is.
//
// Any nonzero code from the row-advance or value-read step ends the drain:
// the engine convention does not distinguish end-of-data from a mid-stream
// failure, and this implementation intentionally preserves that behavior.
func (s *Service) ExportSnapshot(uri, config string) (*document.Document, error) {
	snapshotsTotal.Inc()

	cursor, code := s.session.OpenStatisticsCursor(uri, config)
	if code != engine.CodeOK {
		return nil, status.Errorf(status.CodeCursorNotFound,
			"unable to open cursor at URI %s. reason: %s", uri, engine.Strerror(code))
	}
	defer cursor.Close()

	builder := document.NewBuilder()
	builder.AppendString("uri", uri)

	var (
		groupOrder []string
		groups     = make(map[string]*document.Builder)
	)

	for cursor.Next() == engine.CodeOK {
		row, code := cursor.Row()
		if code != engine.CodeOK {
			break
		}

		prefix, suffix := splitDescription(row.Description)
		value := int64(row.Value)

		if prefix == "" {
			builder.AppendInt64(row.Description, value)
			continue
		}

		sub, ok := groups[prefix]
		if !ok {
			sub = document.NewBuilder()
			groups[prefix] = sub
			groupOrder = append(groupOrder, prefix)
		}
		sub.AppendInt64(strings.TrimLeft(suffix, " \t"), value)
	}

	for _, prefix := range groupOrder {
		builder.AppendDocument(prefix, groups[prefix].Doc())
	}
	return builder.Doc(), nil
}

// splitDescription derives a statistic's group prefix and in-group suffix
// from its description text.
func splitDescription(description string) (string, string) {
	if idx := strings.IndexByte(description, ':'); idx >= 0 {
		return description[:idx], description[idx+1:]
	}
	if idx := strings.IndexByte(description, ' '); idx >= 0 {
		return description[:idx], description[idx+1:]
	}
	return description, "num"
}
