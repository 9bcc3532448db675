package ability

import (
	"sort"

	"go.uber.org/zap"
)

// Entry records one learned ability.
type Entry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Level int    `json:"level,omitempty"` // level at which it was learned; 0 = unspecified
}

// Ledger tracks the abilities one character has learned.
// It is not safe for concurrent use; the caller must serialise access.
type Ledger struct {
	catalog *Catalog
	logger  *zap.Logger
	entries map[string]Entry
}

// NewLedger creates an empty Ledger validated against catalog.
//
// Precondition: catalog must not be nil.
func NewLedger(catalog *Catalog, logger *zap.Logger) *Ledger {
	if catalog == nil {
		panic("ability.NewLedger: catalog must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{catalog: catalog, logger: logger, entries: make(map[string]Entry)}
}

// Catalog returns the catalog backing this ledger.
func (l *Ledger) Catalog() *Catalog { return l.catalog }

// Learn records (typ, name) as learned at level.
//
// Postcondition: returns false with no mutation when the ability is not in the
// catalog for typ or is already learned; otherwise Has(name, typ) is true.
func (l *Ledger) Learn(name string, typ Type, level int) bool {
	if _, ok := l.catalog.Get(typ, name); !ok {
		l.logger.Debug("learn rejected: not in catalog", zap.String("type", string(typ)), zap.String("name", name))
		return false
	}
	id := EntryID(typ, name)
	if _, ok := l.entries[id]; ok {
		return false
	}
	l.entries[id] = Entry{ID: id, Name: name, Type: typ, Level: level}
	l.logger.Debug("ability learned", zap.String("id", id), zap.Int("level", level))
	return true
}

// Forget removes (typ, name).
//
// Postcondition: returns true iff the ability was learned; Has is false afterward.
func (l *Ledger) Forget(name string, typ Type) bool {
	id := EntryID(typ, name)
	if _, ok := l.entries[id]; !ok {
		return false
	}
	delete(l.entries, id)
	return true
}

// Has reports whether (typ, name) is learned.
func (l *Ledger) Has(name string, typ Type) bool {
	_, ok := l.entries[EntryID(typ, name)]
	return ok
}

// ByType returns the learned abilities of typ sorted by name.
func (l *Ledger) ByType(typ Type) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Available returns the catalog templates of typ not yet learned, sorted by name.
func (l *Ledger) Available(typ Type) []*Template {
	var out []*Template
	for _, t := range l.catalog.ByType(typ) {
		if !l.Has(t.Name, typ) {
			out = append(out, t)
		}
	}
	return out
}

// Entries returns every learned ability sorted by ID.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of learned abilities.
func (l *Ledger) Len() int { return len(l.entries) }

// Restore replaces the ledger contents with entries. Entries that are not in
// the catalog are still kept so a stale record loads without loss; their IDs
// are returned.
func (l *Ledger) Restore(entries []Entry) (unknown []string) {
	l.entries = make(map[string]Entry, len(entries))
	for _, e := range entries {
		e.ID = EntryID(e.Type, e.Name)
		if _, ok := l.catalog.Get(e.Type, e.Name); !ok {
			unknown = append(unknown, e.ID)
		}
		l.entries[e.ID] = e
	}
	return unknown
}
