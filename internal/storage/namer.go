package storage

import (
	"strings"

	"github.com/google/uuid"
)

const maxFilenameComponent = 100

// ObjectKeyNamer builds storage keys for uploaded files.
//
// Keys have the form "<prefix><uuidv7>_<sanitized filename>". The UUIDv7
// component makes keys collision-free and time-sortable; the filename
// component keeps keys recognizable when inspecting the bucket directly.
// The filename never influences key uniqueness.
type ObjectKeyNamer struct {
	prefix string
}

// NewObjectKeyNamer creates a namer that prefixes every key with prefix.
func NewObjectKeyNamer(prefix string) *ObjectKeyNamer {
	return &ObjectKeyNamer{prefix: prefix}
}

// NewObjectKey generates a fresh storage key for the given filename.
func (n *ObjectKeyNamer) NewObjectKey(filename string) string {
	id := uuid.Must(uuid.NewV7()).String()
	return n.prefix + id + "_" + sanitizeFilename(filename)
}

// Prefix returns the key prefix shared by every generated key.
func (n *ObjectKeyNamer) Prefix() string {
	return n.prefix
}

// sanitizeFilename reduces a user-supplied filename to characters that are
// safe inside an object key. Path separators, dot sequences and control
// characters never survive, so a hostile filename cannot escape the prefix.
func sanitizeFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	s := b.String()
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", "_")
	}
	s = strings.Trim(s, ".")
	if s == "" {
		s = "unnamed"
	}
	if len(s) > maxFilenameComponent {
		s = s[:maxFilenameComponent]
	}
	return s
}
