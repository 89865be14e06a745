// Package rankcache memoizes per-player gear scores in charListData.json.
package rankcache

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/xtding233/waves-rank/internal/metrics"
	"github.com/xtding233/waves-rank/internal/playerdata"
)

// Scores maps character id to gear score.
type Scores map[string]float64

// Store never surfaces I/O errors: a failed read is a miss and a failed write is skipped.
type Store struct {
	files   *playerdata.Store
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(files *playerdata.Store, log *zap.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{files: files, log: log.Named("rankcache"), metrics: m}
}

// Load returns the cached mapping, or false when the file is missing, unreadable
// or not a JSON object. An empty object is a hit.
func (s *Store) Load(uid string) (Scores, bool) {
	sc, err := s.load(uid)
	if err != nil {
		s.log.Debug("rank cache miss", zap.String("uid", uid), zap.Error(err))
		s.metrics.CacheLookup("rank", false)
		return nil, false
	}
	s.metrics.CacheLookup("rank", true)
	return sc, true
}

func (s *Store) load(uid string) (Scores, error) {
	p, err := s.files.Path(uid, playerdata.ScoreFile)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var sc Scores
	if err := json.Unmarshal(b, &sc); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, os.ErrNotExist
	}
	return sc, nil
}

// Save replaces the whole mapping.
func (s *Store) Save(uid string, sc Scores) {
	if err := s.files.WriteJSON(uid, playerdata.ScoreFile, sc); err != nil {
		s.log.Debug("rank cache write skipped", zap.String("uid", uid), zap.Error(err))
	}
}
