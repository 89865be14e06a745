// Package playerdata reads and writes the per-account JSON files under <data_dir>/players/<uid>/.
package playerdata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/xtding233/waves-rank/internal/gacha"
	"github.com/xtding233/waves-rank/internal/gear"
)

const (
	GachaLogFile = "gacha_logs.json"
	RoleFile     = "rawData.json"
	ScoreFile    = "charListData.json"
	SlashFile    = "slashData.json"
)

// ErrNotFound is returned when a player has no file of the requested kind.
var ErrNotFound = errors.New("player file not found")

var uidRe = regexp.MustCompile(`^[0-9A-Za-z]+$`)

type Store struct {
	root string
}

func New(dataDir string) *Store {
	return &Store{root: filepath.Join(dataDir, "players")}
}

// Path returns the file path for uid. uids are restricted to alphanumerics so they
// cannot escape the players directory.
func (s *Store) Path(uid, name string) (string, error) {
	if !uidRe.MatchString(uid) {
		return "", errors.Newf("invalid uid %q", uid)
	}
	return filepath.Join(s.root, uid, name), nil
}

func (s *Store) readJSON(uid, name string, v any) error {
	p, err := s.Path(uid, name)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(ErrNotFound, "%s/%s", uid, name)
		}
		return errors.Wrapf(err, "read %s", p)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "decode %s", p)
	}
	return nil
}

// WriteJSON encodes v and replaces the file atomically.
func (s *Store) WriteJSON(uid, name string, v any) error {
	p, err := s.Path(uid, name)
	if err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", p)
	}
	return WriteFileAtomic(p, b)
}

// WriteFileAtomic writes to a temp file in the target directory and renames it over
// path, so readers see either the old or the new content. Concurrent writers race
// with last-rename-wins.
func WriteFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(name)
		return errors.Wrapf(err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return errors.Wrapf(err, "close %s", name)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return errors.Wrapf(err, "rename to %s", path)
	}
	return nil
}

// Roles reads rawData.json.
func (s *Store) Roles(uid string) (gear.RoleDocument, error) {
	var doc gear.RoleDocument
	if err := s.readJSON(uid, RoleFile, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) SaveRoles(uid string, doc gear.RoleDocument) error {
	return s.WriteJSON(uid, RoleFile, doc)
}

// GachaLog reads gacha_logs.json.
func (s *Store) GachaLog(uid string) (*gacha.LogFile, error) {
	var lf gacha.LogFile
	if err := s.readJSON(uid, GachaLogFile, &lf); err != nil {
		return nil, err
	}
	return &lf, nil
}

func (s *Store) SaveGachaLog(uid string, lf *gacha.LogFile) error {
	return s.WriteJSON(uid, GachaLogFile, lf)
}

// Slash reads slashData.json.
func (s *Store) Slash(uid string) (*SlashDetail, error) {
	var sd SlashDetail
	if err := s.readJSON(uid, SlashFile, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

func (s *Store) SaveSlash(uid string, sd *SlashDetail) error {
	return s.WriteJSON(uid, SlashFile, sd)
}
