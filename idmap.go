package locio

import (
	"log/slog"

	"github.com/hupe1980/locio/handle"
)

type idEntry struct {
	target string
	h      handle.Handle
}

// IDMap maps identifiers to replacement identifiers or to already-open
// handles. A Resolver consults its IDMap before classifying an identifier.
//
// IDMap is not safe for concurrent use. Each worker owns one, usually
// through Resolver.Fork.
type IDMap struct {
	entries map[string]idEntry
	logger  *slog.Logger
}

// NewIDMap returns an empty map.
func NewIDMap() *IDMap {
	return &IDMap{
		entries: make(map[string]idEntry),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// Map makes id resolve to target. An empty target removes the mapping.
// An empty id is ignored.
func (m *IDMap) Map(id, target string) {
	if id == "" {
		return
	}
	if target == "" {
		delete(m.entries, id)
	} else {
		m.entries[id] = idEntry{target: target}
	}
	m.logger.Debug("mapped id", "id", id, "target", target)
}

// MapHandle pins h to id: opening id returns h itself. A nil handle removes
// the mapping. An empty id is ignored.
func (m *IDMap) MapHandle(id string, h handle.Handle) {
	if id == "" {
		return
	}
	if h == nil {
		delete(m.entries, id)
	} else {
		m.entries[id] = idEntry{h: h}
	}
	m.logger.Debug("mapped handle", "id", id, "pinned", h != nil)
}

// Resolve returns the identifier id is mapped to, or id itself.
// Handle mappings do not count.
func (m *IDMap) Resolve(id string) string {
	if e, ok := m.entries[id]; ok && e.h == nil {
		return e.target
	}
	return id
}

// Handle returns the handle pinned to id, or nil.
func (m *IDMap) Handle(id string) handle.Handle {
	return m.entries[id].h
}

// Delete removes any mapping for id.
func (m *IDMap) Delete(id string) {
	delete(m.entries, id)
}

// Clear removes all mappings.
func (m *IDMap) Clear() {
	clear(m.entries)
}

// Len returns the number of mappings.
func (m *IDMap) Len() int { return len(m.entries) }
