// Package cache keeps small JSON records on disk, one file per key, for a limited time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quarrel-cli/quarrel/filesystem"
	"github.com/quarrel-cli/quarrel/where"
)

const TTL = 7 * 24 * time.Hour

func dir() string {
	d := filepath.Join(where.Cache(), "probe")
	_ = filesystem.API().MkdirAll(d, os.ModePerm)
	return d
}

// GenerateKey derives a stable file name from its parts.
func GenerateKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Read decodes the record stored under key into target. Missing, expired and corrupt records all miss.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// Write stores data under key, swapping the file in atomically.
func Write(key string, data any) error {
	path := filepath.Join(dir(), key)
	tmpPath := path + ".tmp"

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := filesystem.API().WriteFile(tmpPath, encoded, 0o644); err != nil {
		return err
	}
	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage removes expired records.
func CollectGarbage() {
	root := dir()
	_ = filesystem.API().Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > TTL {
			_ = filesystem.API().Remove(path)
		}
		return nil
	})
}

// Clear removes every record.
func Clear() error {
	return filesystem.API().RemoveAll(dir())
}
