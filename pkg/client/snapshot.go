package client

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Snapshot persistence: the last known entity replica is re-presented on
// startup before fresh server data arrives, then overwritten as the real
// state streams in.

// LoadSnapshot restores the replica from disk. A missing file is not an
// error; a corrupt one is logged and ignored.
func (c *Client) LoadSnapshot(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("read snapshot", zap.String("path", path), zap.Error(err))
		}
		return
	}
	if err := c.repo.Restore(data); err != nil {
		zap.L().Warn("restore snapshot", zap.String("path", path), zap.Error(err))
		return
	}
	zap.L().Info("snapshot restored",
		zap.String("path", path), zap.Int("entities", c.repo.Len()))
}

// SaveSnapshot writes the replica to disk via a rename for atomicity.
func (c *Client) SaveSnapshot(path string) error {
	if path == "" {
		return nil
	}
	data, err := c.repo.Snapshot()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
