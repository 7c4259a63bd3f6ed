// Package catalog owns the snippet entries bound to shortcut keys and the
// tabular sources they are loaded from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Symbols lists every shortcut symbol in display order.
const Symbols = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxRows bounds the scan to one row per shortcut symbol.
const MaxRows = len(Symbols)

// Columns is the number of cells read per row: key, label, payload.
const Columns = 3

var (
	ErrDataSourceMissing   = errors.New("data source missing")
	ErrDataSourceMalformed = errors.New("data source malformed")
)

// Entry is a single snippet bound to a shortcut key
type Entry struct {
	Key     string
	Label   string
	Payload string
	Row     int
	Bound   bool
}

// DisplayName is the button text for the entry
func (e Entry) DisplayName() string {
	if !e.Bound {
		return fmt.Sprintf("(%s)   N/A", e.Key)
	}
	return fmt.Sprintf("(%s)   %s", e.Key, e.Label)
}

// Usable reports whether dispatching the entry can inject anything
func (e Entry) Usable() bool {
	return e.Bound && e.Payload != ""
}

// Catalog is an immutable, ordered set of entries
type Catalog struct {
	entries []Entry
	byKey   map[string]int
	byRow   map[int]int
}

// Load reads up to MaxRows rows from src and builds a catalog from them
func Load(ctx context.Context, src Source) (*Catalog, error) {
	rows, err := src.ReadRows(ctx, MaxRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src.Name(), err)
	}
	return Build(rows), nil
}

// Build creates a catalog from raw rows. rows[0] is source row 1.
// For duplicate keys the later row wins on Lookup.
func Build(rows [][]string) *Catalog {
	c := &Catalog{
		byKey: make(map[string]int),
		byRow: make(map[int]int),
	}

	for i, cells := range rows {
		if i >= MaxRows {
			break
		}
		row := i + 1

		key := normalizeKey(cell(cells, 0))
		if key == "" {
			continue
		}
		if !ValidSymbol(key) {
			slog.Warn("Skipping row with invalid key", "row", row, "key", key)
			continue
		}

		label := strings.TrimSpace(cell(cells, 1))
		e := Entry{
			Key:     key,
			Label:   label,
			Payload: cell(cells, 2),
			Row:     row,
			Bound:   label != "",
		}

		if prev, ok := c.byKey[key]; ok {
			slog.Warn("Duplicate key, later row wins", "key", key, "row", row, "previous_row", c.entries[prev].Row)
		}

		c.entries = append(c.entries, e)
		c.byKey[key] = len(c.entries) - 1
		c.byRow[row] = len(c.entries) - 1
	}

	return c
}

// Lookup resolves an entry by shortcut key (case-insensitive)
func (c *Catalog) Lookup(key string) (Entry, bool) {
	i, ok := c.byKey[normalizeKey(key)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// LookupRow resolves an entry by its source row
func (c *Catalog) LookupRow(row int) (Entry, bool) {
	i, ok := c.byRow[row]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns a copy of the entries in scan order
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ValidSymbol reports whether s is a single letter or digit shortcut symbol
func ValidSymbol(s string) bool {
	return len(s) == 1 && strings.Contains(Symbols, s)
}

func normalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}
