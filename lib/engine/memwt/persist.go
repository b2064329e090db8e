package memwt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/kvbridge/kvbridge/lib/engine"
)

// Constants for the snapshot file format
const (
	magicNum      = "MEMWTDB\x00" // File format identifier
	memwtVersion  = 1             // Snapshot format version
	maxStringSize = 16 << 20      // Upper bound for length-prefixed strings
)

// Save persists the engine's tables to the writer as a binary snapshot.
// Tables are written in lexicographic uri order so snapshots of the same
// state are byte-identical.
//
// Thread-safety: Save takes a snapshot of the table registry; concurrent
// fixture changes during Save may or may not be included.
func (e *Engine) Save(w io.Writer) error {
	type entry struct {
		uri string
		tbl *table
	}
	var entries []entry
	e.tables.Range(func(uri string, tbl *table) bool {
		entries = append(entries, entry{uri, tbl})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].uri < entries[j].uri })

	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint8(memwtVersion)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(entries))); err != nil {
		return err
	}

	for _, item := range entries {
		if err := writeString(bw, item.uri); err != nil {
			return err
		}
		if err := writeString(bw, item.tbl.config); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint64(len(item.tbl.stats))); err != nil {
			return err
		}
		for _, row := range item.tbl.stats {
			if err := writeString(bw, row.Description); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, row.ID); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, row.Value); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// Load restores the engine's tables from a snapshot produced by Save. The
// existing table registry is replaced.
//
// Thread-safety: Load is not safe for concurrent use with any other method.
func (e *Engine) Load(r io.Reader) error {
	br := bufio.NewReader(r)

	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return err
	}
	if string(magicBytes) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if int(version) != memwtVersion {
		return fmt.Errorf("unsupported snapshot version: %d (expected %d)", version, memwtVersion)
	}

	var tableCount uint64
	if err := binary.Read(br, binary.LittleEndian, &tableCount); err != nil {
		return err
	}

	tables := xsync.NewMapOf[string, *table]()
	for i := uint64(0); i < tableCount; i++ {
		uri, err := readString(br)
		if err != nil {
			return err
		}
		config, err := readString(br)
		if err != nil {
			return err
		}

		var statCount uint64
		if err := binary.Read(br, binary.LittleEndian, &statCount); err != nil {
			return err
		}
		stats := make([]engine.StatisticsRow, 0, statCount)
		for j := uint64(0); j < statCount; j++ {
			desc, err := readString(br)
			if err != nil {
				return err
			}
			var row engine.StatisticsRow
			row.Description = desc
			if err := binary.Read(br, binary.LittleEndian, &row.ID); err != nil {
				return err
			}
			if err := binary.Read(br, binary.LittleEndian, &row.Value); err != nil {
				return err
			}
			stats = append(stats, row)
		}

		tables.Store(uri, &table{config: config, stats: stats})
	}

	e.tables = tables
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > maxStringSize {
		return "", fmt.Errorf("corrupt snapshot: string length %d exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
