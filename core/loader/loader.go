package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Feature is a module that contributes routes to the HTTP server.
type Feature interface {
	Name() string
	IsEnabled() bool
	Load(app fiber.Router) error
}

// Manager keeps registered features in registration order.
type Manager struct {
	features []Feature
}

// NewManager creates an empty feature manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature. Disabled features are kept but skipped by LoadAll.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// Features returns the registered features.
func (m *Manager) Features() []Feature {
	return m.features
}

// LoadAll loads every enabled feature and stops at the first failure.
func (m *Manager) LoadAll(app fiber.Router) error {
	for _, f := range m.features {
		if !f.IsEnabled() {
			continue
		}
		if err := f.Load(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
	}
	return nil
}
