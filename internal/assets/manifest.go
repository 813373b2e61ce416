// Package assets resolves logical asset names to the hashed files emitted by
// the Vite build.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const publicPrefix = "/static/dist/"

// retryInterval bounds how often a missing or broken manifest is re-read.
const retryInterval = 5 * time.Second

var variants = []string{
	"src/scripts/app/",
	"src/styles/",
	"frontend/src/scripts/app/",
	"frontend/src/styles/",
}

type entry struct {
	File string `json:"file"`
}

// Manifest resolves asset names against <staticDir>/dist. The parsed manifest
// is cached once read successfully; a failed read is remembered for
// retryInterval and each failure is logged once.
type Manifest struct {
	staticDir string
	logger    logrus.FieldLogger
	now       func() time.Time

	mu       sync.Mutex
	entries  map[string]entry
	lastErr  error
	failedAt time.Time
}

func NewManifest(staticDir string, logger logrus.FieldLogger) *Manifest {
	return &Manifest{staticDir: staticDir, logger: logger, now: time.Now}
}

// Resolve returns the public path for name, falling back to
// /static/dist/<name> when the manifest or the entry is missing.
func (m *Manifest) Resolve(name string) string {
	entries, err := m.load()
	if err != nil {
		return publicPrefix + name
	}

	if e, ok := entries[name]; ok && e.File != "" {
		return publicPrefix + e.File
	}
	for _, prefix := range variants {
		if e, ok := entries[prefix+name]; ok && e.File != "" {
			return publicPrefix + e.File
		}
	}
	return publicPrefix + name
}

func (m *Manifest) load() (map[string]entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries != nil {
		return m.entries, nil
	}
	if m.lastErr != nil && m.now().Sub(m.failedAt) < retryInterval {
		return nil, m.lastErr
	}

	entries, err := m.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.logger.WithError(err).Warn("Error loading Vite manifest")
		}
		m.lastErr, m.failedAt = err, m.now()
		return nil, err
	}
	m.entries, m.lastErr = entries, nil
	return entries, nil
}

func (m *Manifest) read() (map[string]entry, error) {
	path := filepath.Join(m.staticDir, "dist", ".vite", "manifest.json")
	if _, err := os.Stat(path); err != nil {
		// Vite before 5 wrote the manifest at the dist root.
		path = filepath.Join(m.staticDir, "dist", "manifest.json")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]entry)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}
