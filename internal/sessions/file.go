package sessions

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type storeFile struct {
	Version   string            `yaml:"version"`
	Timestamp time.Time         `yaml:"timestamp"`
	Values    map[string]string `yaml:"values"`
}

// FileStore keeps values in a YAML file readable only by the owner.
type FileStore struct {
	lock sync.Mutex
	path string
	data storeFile
}

func NewFileStore(path string) (*FileStore, error) {

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	s := &FileStore{
		path: path,
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	value, ok := s.data.Values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *FileStore) Set(key string, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data.Values[key] = value
	return s.commit()
}

func (s *FileStore) Remove(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.data.Values[key]; !ok {
		return nil
	}
	delete(s.data.Values, key)
	return s.commit()
}

func (s *FileStore) Close() error {
	return nil
}

// Load re-reads the file from disk. A missing, empty or unparsable file
// yields an empty store.
func (s *FileStore) Load() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data = newStoreFile()

	file, err := s.open()
	if err != nil {
		return err
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return err
	}

	if fileInfo.Size() == 0 {
		return nil
	}

	var stored storeFile
	if err := yaml.NewDecoder(file).Decode(&stored); err != nil {
		logrus.WithError(err).WithField("path", s.path).Errorln("Failed to parse session file, reinitializing")
		return nil
	}

	if stored.Values == nil {
		stored.Values = make(map[string]string)
	}
	s.data = stored

	return nil
}

// commit writes the current values. Caller holds the lock.
func (s *FileStore) commit() error {

	file, err := s.open()
	if err != nil {
		return err
	}
	defer file.Close()

	// Truncate the file to ensure clean write
	if err := file.Truncate(0); err != nil {
		return err
	}

	if _, err := file.Seek(0, 0); err != nil {
		return err
	}

	s.data.Timestamp = time.Now().UTC()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(s.data)
}

func (s *FileStore) open() (*os.File, error) {
	// Only allow read/write access to the owner
	file, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	return file, nil
}

func newStoreFile() storeFile {
	return storeFile{
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Values:    make(map[string]string),
	}
}
