package configstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const (
	// DefaultFileNameConstant is the file name of the configuration inside the user's home directory.
	DefaultFileNameConstant = ".git-toolbelt-config.json"

	jsonIndentConstant             = "  "
	configurationFilePermissions   = 0o644
	configurationDirectoryPerms    = 0o755
	corruptMessageTemplate         = "%s: %s: %s"
	readFailureTemplate            = "unable to read configuration %s: %w"
	writeFailureTemplate           = "unable to write configuration %s: %w"
	removeFailureTemplate          = "unable to remove configuration %s: %w"
	encodeFailureTemplate          = "unable to encode configuration: %w"
	createDirectoryFailureTemplate = "unable to create configuration directory %s: %w"
)

// ErrConfigCorrupt indicates that the configuration file exists but cannot be decoded.
var ErrConfigCorrupt = errors.New("configuration file is corrupt")

// ConfigCorruptError describes an undecodable configuration file.
type ConfigCorruptError struct {
	Path  string
	Cause error
}

// Error describes the corrupt file.
func (corruptError ConfigCorruptError) Error() string {
	return fmt.Sprintf(corruptMessageTemplate, ErrConfigCorrupt.Error(), corruptError.Path, corruptError.Cause)
}

// Is matches ErrConfigCorrupt.
func (corruptError ConfigCorruptError) Is(target error) bool {
	return target == ErrConfigCorrupt
}

// Unwrap exposes the decoding failure.
func (corruptError ConfigCorruptError) Unwrap() error {
	return corruptError.Cause
}

// Store loads, saves, and resets the toolbelt configuration.
type Store interface {
	Load() (Configuration, error)
	Save(configuration Configuration) error
	Reset() (bool, error)
}

// FileStore keeps the configuration in a single JSON file.
type FileStore struct {
	fileSystem afero.Fs
	path       string
}

// NewFileStore constructs a FileStore. A nil filesystem selects the operating system filesystem.
func NewFileStore(fileSystem afero.Fs, path string) *FileStore {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &FileStore{fileSystem: fileSystem, path: path}
}

// Path returns the location of the configuration file.
func (store *FileStore) Path() string {
	return store.path
}

// Load returns the stored configuration or an empty record when the file is absent.
func (store *FileStore) Load() (Configuration, error) {
	contents, readError := afero.ReadFile(store.fileSystem, store.path)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return Configuration{}, nil
		}
		return Configuration{}, fmt.Errorf(readFailureTemplate, store.path, readError)
	}

	if len(bytes.TrimSpace(contents)) == 0 {
		return Configuration{}, ConfigCorruptError{Path: store.path, Cause: errEmptyDocument}
	}

	var configuration Configuration
	if decodeError := json.Unmarshal(contents, &configuration); decodeError != nil {
		return Configuration{}, ConfigCorruptError{Path: store.path, Cause: decodeError}
	}

	return configuration, nil
}

// Save overwrites the configuration file with the provided record.
func (store *FileStore) Save(configuration Configuration) error {
	encoded, encodeError := json.MarshalIndent(configuration, "", jsonIndentConstant)
	if encodeError != nil {
		return fmt.Errorf(encodeFailureTemplate, encodeError)
	}

	directory := filepath.Dir(store.path)
	if mkdirError := store.fileSystem.MkdirAll(directory, configurationDirectoryPerms); mkdirError != nil {
		return fmt.Errorf(createDirectoryFailureTemplate, directory, mkdirError)
	}

	if writeError := afero.WriteFile(store.fileSystem, store.path, encoded, configurationFilePermissions); writeError != nil {
		return fmt.Errorf(writeFailureTemplate, store.path, writeError)
	}

	return nil
}

// Reset removes the configuration file and reports whether one existed.
func (store *FileStore) Reset() (bool, error) {
	exists, existsError := afero.Exists(store.fileSystem, store.path)
	if existsError != nil {
		return false, fmt.Errorf(removeFailureTemplate, store.path, existsError)
	}
	if !exists {
		return false, nil
	}

	if removeError := store.fileSystem.Remove(store.path); removeError != nil {
		if errors.Is(removeError, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(removeFailureTemplate, store.path, removeError)
	}

	return true, nil
}

var errEmptyDocument = errors.New("empty document")

// MemoryStore keeps the configuration in memory.
type MemoryStore struct {
	mutex         sync.Mutex
	configuration *Configuration
}

// NewMemoryStore constructs a MemoryStore optionally seeded with a configuration.
func NewMemoryStore(initial *Configuration) *MemoryStore {
	store := &MemoryStore{}
	if initial != nil {
		copied := *initial
		store.configuration = &copied
	}
	return store
}

// Load returns the stored configuration or an empty record.
func (store *MemoryStore) Load() (Configuration, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	if store.configuration == nil {
		return Configuration{}, nil
	}
	return *store.configuration, nil
}

// Save replaces the stored configuration.
func (store *MemoryStore) Save(configuration Configuration) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	copied := configuration
	store.configuration = &copied
	return nil
}

// Reset clears the stored configuration and reports whether one existed.
func (store *MemoryStore) Reset() (bool, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	existed := store.configuration != nil
	store.configuration = nil
	return existed, nil
}
