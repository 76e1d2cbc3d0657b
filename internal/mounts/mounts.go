// Package mounts maps paths between the host's view of the shared saves
// directory and each service's private mount of it.
package mounts

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Host is the location key for the host filesystem.
const Host = ""

// Mount describes where one service sees the shared directory.
type Mount struct {
	HostRoot    string // host directory, filepath semantics
	ServiceRoot string // in-service directory, slash semantics
}

// Map is keyed by service role. Host is implicit and is never a key.
type Map map[string]Mount

// Translate rewrites p, as seen from location from, into the path location to
// sees for the same file. Either side may be Host. p must lie under from's root.
func (m Map) Translate(p, from, to string) (string, error) {
	if from == to {
		return p, nil
	}
	var (
		src, dst Mount
		err      error
	)
	if from != Host {
		if src, err = m.lookup(from); err != nil {
			return "", err
		}
	}
	if to != Host {
		if dst, err = m.lookup(to); err != nil {
			return "", err
		}
	}

	var rel string
	switch {
	case from == Host:
		rel, err = hostRel(dst.HostRoot, p)
	default:
		if to != Host && src.HostRoot != dst.HostRoot {
			return "", fmt.Errorf("services %q and %q mount different host roots", from, to)
		}
		rel, err = serviceRel(src.ServiceRoot, p)
	}
	if err != nil {
		return "", err
	}

	if to == Host {
		return filepath.Join(src.HostRoot, filepath.FromSlash(rel)), nil
	}
	return path.Join(dst.ServiceRoot, rel), nil
}

func (m Map) lookup(role string) (Mount, error) {
	mt, ok := m[role]
	if !ok {
		return Mount{}, fmt.Errorf("no mount for service %q", role)
	}
	return mt, nil
}

func hostRel(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", fmt.Errorf("path %q not under %q: %w", p, root, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %q not under %q", p, root)
	}
	return rel, nil
}

func serviceRel(root, p string) (string, error) {
	root = path.Clean(root)
	clean := path.Clean(p)
	if clean == root {
		return ".", nil
	}
	prefix := strings.TrimSuffix(root, "/") + "/"
	if !strings.HasPrefix(clean, prefix) {
		return "", fmt.Errorf("path %q not under %q", p, root)
	}
	return strings.TrimPrefix(clean, prefix), nil
}
