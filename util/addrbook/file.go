package addrbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
)

// DefaultPath is ~/.assoc/addressbook.json.
func DefaultPath() string {
	usr, err := user.Current()
	if err != nil {
		return ""
	}
	return filepath.Join(usr.HomeDir, ".assoc", "addressbook.json")
}

// Load reads a JSON object of address to label. A missing file is an empty
// book.
func Load(path string) (Map, error) {
	if path == "" {
		return Map{}, nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Map{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading address book %s: %w", path, err)
	}
	m := Map{}
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("parsing address book %s: %w", path, err)
	}
	return m, nil
}

// Default is the address book at DefaultPath, or an empty one when it cannot
// be read.
func Default() AddressResolver {
	m, err := Load(DefaultPath())
	if err != nil {
		return Map{}
	}
	return m
}
