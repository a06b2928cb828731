// Package roles loads interview role profiles from YAML. A role
// supplies the job title and focus areas woven into the question
// generation and grading prompts.
package roles

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Role describes one interview profile
type Role struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Focus       []string `yaml:"focus" json:"focus"`
}

// DefaultRole is used when a session names no role (the reference
// deployment interviewed for exactly this position)
var DefaultRole = Role{
	ID:   "fullstack",
	Name: "Full-Stack (React/Node)",
	Focus: []string{
		"React fundamentals and hooks",
		"Node.js runtime and APIs",
		"Data modeling and SQL",
		"System design trade-offs",
	},
}

// Loader manages loading and caching of role profiles
type Loader struct {
	mu    sync.RWMutex
	roles map[string]*Role
}

// NewLoader creates a new role loader
func NewLoader() *Loader {
	return &Loader{roles: make(map[string]*Role)}
}

// LoadFromDir loads all YAML role files from a directory
func (l *Loader) LoadFromDir(dir string) error {
	slog.Info("loading roles from directory", "dir", dir)

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	loaded := 0
	for _, file := range files {
		if err := l.LoadFromFile(file); err != nil {
			slog.Warn("failed to load role", "file", file, "error", err)
			continue
		}
		loaded++
	}

	slog.Info("roles loaded", "count", loaded, "total_files", len(files))
	return nil
}

// LoadFromFile loads a single role from a YAML file
func (l *Loader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var role Role
	if err := yaml.Unmarshal(data, &role); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if role.ID == "" {
		return fmt.Errorf("role id is required")
	}
	if role.Name == "" {
		return fmt.Errorf("role name is required")
	}

	l.mu.Lock()
	l.roles[role.ID] = &role
	l.mu.Unlock()

	return nil
}

// Get returns a role by id, or the default role when the id is empty
// or unknown
func (l *Loader) Get(id string) *Role {
	if id == "" {
		return &DefaultRole
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if role, ok := l.roles[id]; ok {
		return role
	}
	return &DefaultRole
}

// List returns all loaded roles
func (l *Loader) List() []*Role {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Role, 0, len(l.roles))
	for _, role := range l.roles {
		out = append(out, role)
	}
	return out
}
