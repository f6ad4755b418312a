// Package store maps slash-separated resource names to raw bytes.
//
// Every backend resolves names the same way: the name is cleaned so it
// cannot escape the store root, and a name that refers to a directory
// resolves to the directory's default resource (usually "index").
package store

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// DefaultName is the resource served for a directory when none is configured.
const DefaultName = "index"

// Supported backends for New.
const (
	KindFS     = "fs"
	KindBolt   = "bbolt"
	KindMemory = "memory"
)

// ErrNotFound is returned when a resource does not exist.
var ErrNotFound = errors.New("resource not found")

// Store reads and writes resources.
type Store interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Exists(name string) (bool, error)
	Close() error
}

// New creates the store backend named by kind. path is the root directory
// for fs and the database file for bbolt. An empty defaultName uses
// DefaultName.
func New(kind, path, defaultName string) (Store, error) {
	kind = strings.TrimSpace(strings.ToLower(kind))

	if strings.TrimSpace(defaultName) == "" {
		defaultName = DefaultName
	}
	if strings.Contains(defaultName, "/") {
		return nil, fmt.Errorf("default name %q must not contain a slash", defaultName)
	}

	switch kind {
	case "", KindFS:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("fs storage requires a root directory")
		}
		return openFS(path, defaultName)
	case KindBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, defaultName)
	case KindMemory:
		return newMemory(defaultName), nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", kind)
	}
}

// Clean converts a resource name to its canonical key: no leading slash,
// no dot segments, and never above the root. The root itself is "".
func Clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// resolveKey applies directory resolution to a cleaned key. hasChildren
// reports whether any stored key starts with the given prefix.
func resolveKey(key, defaultName string, hasChildren func(prefix string) bool) string {
	if key == "" {
		return defaultName
	}

	if hasChildren(key + "/") {
		return key + "/" + defaultName
	}

	return key
}
