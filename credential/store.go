package credential

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/devlinkhq/devlink-go/internal/errors"
)

// Store persists a single credential slot. Save overwrites any prior value,
// Load reports absence via the bool, and Clear is idempotent.
type Store interface {
	Save(cred Credential) error
	Load() (Credential, bool, error)
	Clear() error
}

// MemoryStore is an in-process credential slot. It backs ephemeral sessions
// when file storage is unavailable, and test fixtures.
type MemoryStore struct {
	cred Credential
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(cred Credential) error {
	s.cred = cred
	return nil
}

func (s *MemoryStore) Load() (Credential, bool, error) {
	if s.cred.IsZero() {
		return "", false, nil
	}
	return s.cred, true, nil
}

func (s *MemoryStore) Clear() error {
	s.cred = ""
	return nil
}

// storedCredential is the on-disk JSON envelope.
type storedCredential struct {
	Origin     string `json:"origin"`
	Credential string `json:"credential"`
}

// FileStore persists the credential as a JSON file scoped to one backend
// origin, mirroring origin-scoped browser storage. Files are written with
// owner-only permissions via write-then-rename so a crashed write never
// leaves a truncated credential behind.
type FileStore struct {
	path   string
	origin string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir for the given backend origin.
// The directory is created on first use.
func NewFileStore(dir, origin string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "create storage dir %q: %v", dir, err)
	}
	return &FileStore{
		path:   filepath.Join(dir, originFileName(origin)),
		origin: origin,
	}, nil
}

func (s *FileStore) Save(cred Credential) error {
	data, err := json.Marshal(storedCredential{
		Origin:     s.origin,
		Credential: string(cred),
	})
	if err != nil {
		return errors.Wrapf(err, "marshal credential")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(errors.ErrStorageUnavailable, "write credential file: %v", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrapf(errors.ErrStorageUnavailable, "replace credential file: %v", err)
	}
	return nil
}

func (s *FileStore) Load() (Credential, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(errors.ErrStorageUnavailable, "read credential file: %v", err)
	}

	var stored storedCredential
	if err := json.Unmarshal(data, &stored); err != nil {
		// An unreadable file is the same as no credential.
		return "", false, nil
	}
	if stored.Credential == "" {
		return "", false, nil
	}
	return Credential(stored.Credential), true, nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrStorageUnavailable, "remove credential file: %v", err)
	}
	return nil
}

// originFileName maps an origin like "https://api.devlink.dev" onto a stable
// file name.
func originFileName(origin string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		name = "default"
	}
	return name + ".json"
}
