// Package store persists the last imported snapshot and the file staged for import.
package store

import (
	"bytes"
	"errors"
	"os"

	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/filesystem"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/snapshot"
	"github.com/cinelist-cli/cinelist/where"
	"github.com/spf13/afero"
)

// Store reads and writes the two files a run depends on.
type Store struct {
	fs           afero.Fs
	snapshotPath string
	payloadPath  string
}

// New returns a Store over the given filesystem and paths.
func New(fs afero.Fs, snapshotPath, payloadPath string) *Store {
	return &Store{fs: fs, snapshotPath: snapshotPath, payloadPath: payloadPath}
}

// Default returns a Store at the standard data locations.
func Default() *Store {
	return New(filesystem.API(), where.Snapshot(), where.Payload())
}

// SnapshotPath returns where the snapshot lives.
func (s *Store) SnapshotPath() string {
	return s.snapshotPath
}

// PayloadPath returns where the import payload is staged.
func (s *Store) PayloadPath() string {
	return s.payloadPath
}

// Load reads the persisted snapshot.
// A missing file is a first run and yields an empty snapshot.
func (s *Store) Load() (*snapshot.Snapshot, error) {
	data, err := afero.ReadFile(s.fs, s.snapshotPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("no snapshot at %s, starting from an empty one", s.snapshotPath)
		return snapshot.New(nil), nil
	}
	if err != nil {
		return nil, err
	}

	films, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return snapshot.New(films), nil
}

// Save atomically replaces the persisted snapshot.
func (s *Store) Save(snap *snapshot.Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, snap.Films, true); err != nil {
		return err
	}

	if err := filesystem.WriteAtomic(s.fs, s.snapshotPath, buf.Bytes()); err != nil {
		return err
	}

	log.Infof("saved %d films to %s", snap.Len(), s.snapshotPath)
	return nil
}

// Stage writes films, without their ids, to the payload file and returns its path.
func (s *Store) Stage(films []film.Film) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, films, false); err != nil {
		return "", err
	}

	if err := filesystem.WriteAtomic(s.fs, s.payloadPath, buf.Bytes()); err != nil {
		return "", err
	}

	log.Infof("staged %d films in %s", len(films), s.payloadPath)
	return s.payloadPath, nil
}

// Unstage removes the payload file. Removing a missing file is not an error.
func (s *Store) Unstage() error {
	err := s.fs.Remove(s.payloadPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Staged reports whether a payload file is present.
func (s *Store) Staged() bool {
	exists, err := afero.Exists(s.fs, s.payloadPath)
	return err == nil && exists
}
