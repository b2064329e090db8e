package memwt

import (
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"

	"github.com/kvbridge/kvbridge/lib/engine"
	"github.com/kvbridge/kvbridge/lib/status"
	"github.com/kvbridge/kvbridge/lib/wtconfig"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// statisticsPrefix addresses the per-object statistics source.
	statisticsPrefix = "statistics:"
)

// --------------------------------------------------------------------------
// Core Engine Structure
// --------------------------------------------------------------------------

// table holds one object's engine-native state: its configuration string
// (the metadata row) and its statistics rows in insertion order.
type table struct {
	config string
	stats  []engine.StatisticsRow
}

// Engine is an in-memory reference implementation of engine.Session. It
// backs the test suites and the inspection CLI; it is not a storage engine.
//
// Thread-safety: the table registry is safe for concurrent fixture setup,
// but each cursor obtained from the engine is single-threaded, matching the
// session contract.
type Engine struct {
	tables *xsync.MapOf[string, *table]
}

// NewEngine creates an empty in-memory engine.
func NewEngine() *Engine {
	return &Engine{tables: xsync.NewMapOf[string, *table]()}
}

// --------------------------------------------------------------------------
// Fixture API
// --------------------------------------------------------------------------

// Create registers an object under uri with the given configuration string.
// Registering an existing uri fails with CodeDuplicateKey; a configuration
// string that violates the grammar fails with CodeInvalidArg.
func (e *Engine) Create(uri, config string) engine.Code {
	if err := validateConfig(config); err != nil {
		log.Debug().Str("uri", uri).Err(err).Msg("memwt: rejected malformed config")
		return engine.CodeInvalidArg
	}
	if _, loaded := e.tables.LoadOrStore(uri, &table{config: config}); loaded {
		return engine.CodeDuplicateKey
	}
	log.Debug().Str("uri", uri).Msg("memwt: created table")
	return engine.CodeOK
}

// Drop removes the object registered under uri.
func (e *Engine) Drop(uri string) engine.Code {
	if _, loaded := e.tables.LoadAndDelete(uri); !loaded {
		return engine.CodeNoEnt
	}
	log.Debug().Str("uri", uri).Msg("memwt: dropped table")
	return engine.CodeOK
}

// SetStatistics replaces the statistics rows served for uri. Row order is
// preserved: statistics cursors iterate rows exactly as given here.
func (e *Engine) SetStatistics(uri string, rows []engine.StatisticsRow) engine.Code {
	tbl, ok := e.tables.Load(uri)
	if !ok {
		return engine.CodeNoEnt
	}
	copied := make([]engine.StatisticsRow, len(rows))
	copy(copied, rows)
	tbl.stats = copied
	return engine.CodeOK
}

// validateConfig runs the configuration grammar over the whole string.
func validateConfig(config string) error {
	parser := wtconfig.NewParser(config)
	for {
		_, _, ok, err := parser.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// --------------------------------------------------------------------------
// Session Interface Methods
// --------------------------------------------------------------------------

// OpenMetadataCursor opens a cursor over a point-in-time snapshot of the
// metadata source. Rows are served in lexicographic uri order so that
// iteration is deterministic.
func (e *Engine) OpenMetadataCursor() (engine.MetadataCursor, engine.Code) {
	type row struct {
		uri    string
		config string
	}
	var rows []row
	e.tables.Range(func(uri string, tbl *table) bool {
		rows = append(rows, row{uri: uri, config: tbl.config})
		return true
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].uri < rows[j].uri })

	uris := make([]string, len(rows))
	configs := make([]string, len(rows))
	for i, r := range rows {
		uris[i] = r.uri
		configs[i] = r.config
	}
	return &metadataCursor{uris: uris, configs: configs, pos: -1}, engine.CodeOK
}

// OpenStatisticsCursor opens a cursor over the statistics source addressed
// by uri. The uri must carry the "statistics:" prefix; the config string is
// validated against the grammar and may select a statistics mode
// ("statistics=(fast)" or "statistics=(all)"). The in-memory engine keeps
// every counter hot, so both modes serve the same rows.
func (e *Engine) OpenStatisticsCursor(uri string, config string) (engine.StatisticsCursor, engine.Code) {
	if !strings.HasPrefix(uri, statisticsPrefix) {
		return nil, engine.CodeInvalidArg
	}
	if code := checkStatisticsMode(config); code != engine.CodeOK {
		return nil, code
	}

	tbl, ok := e.tables.Load(strings.TrimPrefix(uri, statisticsPrefix))
	if !ok {
		return nil, engine.CodeNoEnt
	}

	rows := make([]engine.StatisticsRow, len(tbl.stats))
	copy(rows, tbl.stats)
	return &statisticsCursor{rows: rows, pos: -1}, engine.CodeOK
}

// checkStatisticsMode validates the cursor configuration for a statistics
// source.
func checkStatisticsMode(config string) engine.Code {
	parser := wtconfig.NewParser(config)
	item, err := parser.Get("statistics")
	if err != nil {
		if status.CodeOf(err) == status.CodeNotFoundInConfig {
			return engine.CodeOK
		}
		return engine.CodeInvalidArg
	}
	if item.Type != wtconfig.ItemStruct {
		return engine.CodeInvalidArg
	}
	modes, err := wtconfig.NewStructParser(item)
	if err != nil {
		return engine.CodeInvalidArg
	}
	for {
		key, _, ok, err := modes.Next()
		if err != nil {
			return engine.CodeInvalidArg
		}
		if !ok {
			return engine.CodeOK
		}
		if key.Str != "fast" && key.Str != "all" {
			return engine.CodeInvalidArg
		}
	}
}
