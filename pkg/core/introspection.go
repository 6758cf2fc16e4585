package core

import (
	"github.com/aretw0/introspection"
)

// ManagerState exposes internal state for observability.
type ManagerState struct {
	Loaded    bool   `json:"loaded"`
	NoteCount int    `json:"note_count"`
	StoreType string `json:"store_type"`
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	storeType := "unknown"
	if m.store != nil {
		storeType = "store"
		if comp, ok := m.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return ManagerState{
		Loaded:    m.loaded,
		NoteCount: len(m.notes),
		StoreType: storeType,
	}
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "manager"
}

var _ introspection.Introspectable = (*Manager)(nil)
var _ introspection.Component = (*Manager)(nil)
