// Package runtimepath resolves where the daemon's unix socket lives.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const socketName = "paned.sock"

// SocketPath returns the path the daemon binds and clients dial. The
// socket lives in the user's runtime directory: XDG_RUNTIME_DIR when set,
// /run/user/<uid> when it exists, otherwise a private per-user directory
// under /tmp created on demand.
func SocketPath() (string, error) {
	dir, err := runtimeDir()
	if err != nil {
		return "", fmt.Errorf("resolve runtime dir: %w", err)
	}
	return filepath.Join(dir, socketName), nil
}

func runtimeDir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}
	dir := fmt.Sprintf("/tmp/paned-%d", uid)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
