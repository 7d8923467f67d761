package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

var errNilManager = errors.New("files: nil manager")

// Manager maps calendar months onto the journal tree:
//
//	<root>/2025/2025-11.md
type Manager struct {
	root string
}

// NewManager roots a Manager at root, expanding a leading ~. An empty root
// falls back to ResolveBasePath.
func NewManager(root string) (*Manager, error) {
	if root == "" {
		return managerAt(ResolveBasePath())
	}
	return managerAt(expandHome(root))
}

func managerAt(root string, err error) (*Manager, error) {
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve journal root: %w", err)
	}
	return &Manager{root: abs}, nil
}

// BasePath returns the journal root.
func (m *Manager) BasePath() string {
	return m.root
}

// YearDir is the directory holding every month file of t's year.
func (m *Manager) YearDir(t time.Time) string {
	return filepath.Join(m.root, t.Format("2006"))
}

// MonthPath is the month file for t. It may not exist yet.
func (m *Manager) MonthPath(t time.Time) string {
	return filepath.Join(m.YearDir(t), t.Format("2006-01")+".md")
}

// EnsureMonthFile creates t's month file with its heading when it is missing
// or empty, and returns its path. Existing content is never touched.
func (m *Manager) EnsureMonthFile(t time.Time) (string, error) {
	if m == nil {
		return "", errNilManager
	}

	path := m.MonthPath(t)
	info, err := os.Stat(path)
	switch {
	case err == nil && info.Size() > 0:
		return path, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("stat month file: %w", err)
	}

	if err := os.MkdirAll(m.YearDir(t), dirPermissions); err != nil {
		return "", fmt.Errorf("create year directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(MonthHeading(t)), filePermissions); err != nil {
		return "", fmt.Errorf("write month heading: %w", err)
	}
	return path, nil
}

// MonthHeading is the first block of every month file.
func MonthHeading(t time.Time) string {
	return "# " + t.Format("January 2006") + "\n\n"
}
