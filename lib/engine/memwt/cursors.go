package memwt

import (
	"sort"

	"github.com/kvbridge/kvbridge/lib/engine"
)

// --------------------------------------------------------------------------
// Metadata Cursor
// --------------------------------------------------------------------------

// metadataCursor iterates a point-in-time snapshot of the metadata source.
// pos == -1 means "before the first row".
type metadataCursor struct {
	uris    []string
	configs []string
	pos     int
	closed  bool
}

func (c *metadataCursor) Seek(uri string) engine.Code {
	if c.closed {
		return engine.CodeInvalidArg
	}
	idx := sort.SearchStrings(c.uris, uri)
	if idx >= len(c.uris) || c.uris[idx] != uri {
		return engine.CodeNotFound
	}
	c.pos = idx
	return engine.CodeOK
}

func (c *metadataCursor) Value() (string, engine.Code) {
	if c.closed {
		return "", engine.CodeInvalidArg
	}
	if c.pos < 0 || c.pos >= len(c.uris) {
		return "", engine.CodeInvalidArg
	}
	return c.configs[c.pos], engine.CodeOK
}

func (c *metadataCursor) Next() engine.Code {
	if c.closed {
		return engine.CodeInvalidArg
	}
	if c.pos+1 >= len(c.uris) {
		return engine.CodeNotFound
	}
	c.pos++
	return engine.CodeOK
}

func (c *metadataCursor) Close() engine.Code {
	if c.closed {
		return engine.CodeInvalidArg
	}
	c.closed = true
	return engine.CodeOK
}

// --------------------------------------------------------------------------
// Statistics Cursor
// --------------------------------------------------------------------------

// statisticsCursor iterates a copy of one table's statistics rows.
// pos == -1 means "before the first row".
type statisticsCursor struct {
	rows   []engine.StatisticsRow
	pos    int
	closed bool
}

func (c *statisticsCursor) Seek(id int32) engine.Code {
	if c.closed {
		return engine.CodeInvalidArg
	}
	for i, row := range c.rows {
		if row.ID == id {
			c.pos = i
			return engine.CodeOK
		}
	}
	return engine.CodeNotFound
}

func (c *statisticsCursor) Row() (engine.StatisticsRow, engine.Code) {
	if c.closed {
		return engine.StatisticsRow{}, engine.CodeInvalidArg
	}
	if c.pos < 0 || c.pos >= len(c.rows) {
		return engine.StatisticsRow{}, engine.CodeInvalidArg
	}
	return c.rows[c.pos], engine.CodeOK
}

func (c *statisticsCursor) Next() engine.Code {
	if c.closed {
		return engine.CodeInvalidArg
	}
	if c.pos+1 >= len(c.rows) {
		return engine.CodeNotFound
	}
	c.pos++
	return engine.CodeOK
}

func (c *statisticsCursor) Close() engine.Code {
	if c.closed {
		return engine.CodeInvalidArg
	}
	c.closed = true
	return engine.CodeOK
}
