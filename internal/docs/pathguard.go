package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolve maps a bare documentation filename to an absolute path under
// root, or fails. The filename is checked syntactically before any
// filesystem access, so traversal attempts never touch the disk, and the
// final path is canonicalized and checked for containment so symlinks
// inside root cannot lead outside it.
func Resolve(root, name string) (string, error) {
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrCatalogMissing, root)
	}

	candidate := filepath.Join(root, name)
	if _, err := os.Stat(candidate); err != nil {
		candidate, err = matchIgnoreCase(root, name)
		if err != nil {
			return "", err
		}
	}

	resolvedRoot, err := canonical(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrCatalogMissing, root)
	}
	resolved, err := canonical(candidate)
	if err != nil {
		return "", fmt.Errorf("docs: resolving %s: %w", name, err)
	}

	if resolved != resolvedRoot && !strings.HasPrefix(resolved, resolvedRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrAccessDenied, name)
	}

	fi, err := os.Stat(resolved)
	if err != nil || !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, name)
	}
	return resolved, nil
}

// matchIgnoreCase scans root's direct entries for a file whose name equals
// the requested one ignoring case. Zero matches fail with ErrNotFound
// listing what is available; more than one match is an explicit error
// rather than an arbitrary pick.
func matchIgnoreCase(root, name string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrCatalogMissing, root)
	}

	var available []string
	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		available = append(available, e.Name())
		if strings.EqualFold(e.Name(), name) {
			matches = append(matches, e.Name())
		}
	}

	switch len(matches) {
	case 0:
		sort.Strings(available)
		return "", fmt.Errorf("%w: %s (available: %s)",
			ErrNotFound, name, strings.Join(available, ", "))
	case 1:
		return filepath.Join(root, matches[0]), nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%w: %s matches %s",
			ErrAmbiguousName, name, strings.Join(matches, ", "))
	}
}

// canonical resolves symlinks and returns an absolute path.
func canonical(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}
