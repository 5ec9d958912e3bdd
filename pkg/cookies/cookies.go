// Package cookies looks up named values in a locally stored cookie file.
package cookies

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = fmt.Errorf("cookie not found")

// Store looks up named cookie values.
type Store interface {
	Lookup(name string) (string, error)
}

// FileStore reads cookies from a YAML file shaped as an ordered list of
// single-entry mappings:
//
//	cookie:
//	  - sessionId: abc
//	  - token: xyz
//
// Duplicate keys may appear in separate entries; the first match wins.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Lookup returns the value of the first entry containing name. It returns
// ErrNotFound when no entry contains the key, and a harder error when the
// file is missing, unreadable or malformed.
func (s *FileStore) Lookup(name string) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read cookie file for %q: %w", name, err)
	}
	var doc struct {
		Cookie []map[string]string `yaml:"cookie"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to parse cookie file for %q: %w", name, err)
	}
	for _, entry := range doc.Cookie {
		if value, ok := entry[name]; ok {
			return value, nil
		}
	}
	return "", ErrNotFound
}
