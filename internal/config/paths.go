package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the default data directory for the sidecar.
// Windows: %LOCALAPPDATA%\clippy
// Linux/Mac: ~/.local/share/clippy
func DataDir() string {
	if dir := os.Getenv("CLIPPY_DATA_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "clippy")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "clippy")
}

// MemoryDir returns the directory where archival memory is persisted.
func MemoryDir() string {
	return filepath.Join(DataDir(), "memory")
}

// EnsureDirs creates the required directories if they don't exist.
func EnsureDirs(cfg *Config) error {
	for _, dir := range []string{DataDir(), cfg.MemoryDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
