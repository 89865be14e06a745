package rank

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/waves-rank/internal/bind"
	"github.com/xtding233/waves-rank/internal/config"
	"github.com/xtding233/waves-rank/internal/gacha"
	"github.com/xtding233/waves-rank/internal/gear"
	"github.com/xtding233/waves-rank/internal/playerdata"
	"github.com/xtding233/waves-rank/internal/rankcache"
)

// ErrNoData means the group has no bound players, or none of them has usable data.
var ErrNoData = errors.New("no ranking data")

// ConfigSource hands out the current config snapshot.
type ConfigSource interface {
	Get() *config.Config
}

// Service builds the group leaderboards.
type Service struct {
	Binds  bind.Store
	Files  *playerdata.Store
	Cache  *rankcache.Store
	Calc   gear.Calculator
	Config ConfigSource
	Log    *zap.Logger
}

func NewService(binds bind.Store, files *playerdata.Store, cache *rankcache.Store, calc gear.Calculator, cfg ConfigSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Binds: binds, Files: files, Cache: cache, Calc: calc, Config: cfg, Log: log.Named("rank")}
}

// Caller identifies who asked, for the self row.
type Caller struct {
	GroupID string
	UserID  string
	BotID   string
}

type account struct {
	userID string
	uid    string
}

func (s *Service) accounts(ctx context.Context, groupID string) ([]account, error) {
	binds, err := s.Binds.GetGroupAllUID(ctx, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "load group binds")
	}
	var out []account
	for _, b := range binds {
		if b.UserID == "" {
			continue
		}
		for _, uid := range b.UIDs() {
			out = append(out, account{userID: b.UserID, uid: uid})
		}
	}
	return out, nil
}

// collect runs load for every account with bounded concurrency and returns the
// successful results in account order.
func collect[T any](ctx context.Context, limit int, accts []account, load func(account) (T, bool)) []T {
	type slot struct {
		v  T
		ok bool
	}
	slots := make([]slot, len(accts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, a := range accts {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			v, ok := load(a)
			slots[i] = slot{v, ok}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]T, 0, len(accts))
	for _, sl := range slots {
		if sl.ok {
			out = append(out, sl.v)
		}
	}
	return out
}

func (s *Service) selfUID(ctx context.Context, c Caller) string {
	uid, err := s.Binds.GetUIDByGame(ctx, c.UserID, c.BotID)
	if err != nil {
		s.Log.Debug("self uid lookup failed", zap.String("user", c.UserID), zap.Error(err))
		return ""
	}
	return uid
}

// Board is a windowed leaderboard.
type Board[T any] struct {
	GroupID string
	SelfUID string
	Total   int // ranked entries before windowing
	Rows    []Ranked[T]
}

func newBoard[T any](c Caller, selfUID string, sorted []T, limit int, key func(T) (string, string)) *Board[T] {
	isSelf := func(e T) bool {
		user, uid := key(e)
		return selfUID != "" && uid == selfUID && user == c.UserID
	}
	return &Board[T]{
		GroupID: c.GroupID,
		SelfUID: selfUID,
		Total:   len(sorted),
		Rows:    Window(Number(sorted), limit, isSelf),
	}
}

// GachaBoard adds the ordering and pull floor used.
type GachaBoard struct {
	*Board[GachaRankEntry]
	MinPulls int
	Reverse  bool
}

// GachaRank ranks the group by Weighted. reverse puts the unluckiest first.
func (s *Service) GachaRank(ctx context.Context, c Caller, reverse bool) (*GachaBoard, error) {
	cfg := s.Config.Get()
	accts, err := s.accounts(ctx, c.GroupID)
	if err != nil {
		return nil, err
	}
	if len(accts) == 0 {
		return nil, errors.Wrapf(ErrNoData, "group %s has no binds", c.GroupID)
	}
	up := gacha.NewStandardPool(cfg.Pools.StandardCharacters, cfg.Pools.StandardWeapons)

	entries := collect(ctx, cfg.Rank.Concurrency, accts, func(a account) (GachaRankEntry, bool) {
		lf, err := s.Files.GachaLog(a.uid)
		if err != nil {
			s.Log.Debug("skip gacha rank player", zap.String("uid", a.uid), zap.Error(err))
			return GachaRankEntry{}, false
		}
		stats := lf.Stats(up)
		if len(stats) == 0 {
			return GachaRankEntry{}, false
		}
		return NewGachaRankEntry(a.userID, a.uid, stats), true
	})
	entries = FilterMinPulls(entries, cfg.GachaRankMin)
	if len(entries) == 0 {
		return nil, errors.Wrapf(ErrNoData, "group %s has no gacha data", c.GroupID)
	}

	sorted := SortGacha(entries, reverse)
	board := newBoard(c, s.selfUID(ctx, c), sorted, cfg.Rank.DisplayLimit, func(e GachaRankEntry) (string, string) {
		return e.UserID, e.UID
	})
	return &GachaBoard{Board: board, MinPulls: cfg.GachaRankMin, Reverse: reverse}, nil
}

// PracticeBoard adds the threshold and each displayed row's best roles.
type PracticeBoard struct {
	*Board[PracticeRankEntry]
	Threshold int
	Label     string
	TopRoles  [][]RoleScore // parallel to Rows
}

// PracticeRank ranks the group by the sum of gear scores at or above threshold.
// A player's cached scores are used when present; otherwise every role is scored,
// the full mapping is cached and then filtered.
func (s *Service) PracticeRank(ctx context.Context, c Caller, threshold int) (*PracticeBoard, error) {
	cfg := s.Config.Get()
	accts, err := s.accounts(ctx, c.GroupID)
	if err != nil {
		return nil, err
	}
	if len(accts) == 0 {
		return nil, errors.Wrapf(ErrNoData, "group %s has no binds", c.GroupID)
	}

	entries := collect(ctx, cfg.Rank.Concurrency, accts, func(a account) (PracticeRankEntry, bool) {
		return s.practiceEntry(a, threshold)
	})
	if len(entries) == 0 {
		return nil, errors.Wrapf(ErrNoData, "group %s has no practice data", c.GroupID)
	}

	sorted := SortPractice(entries)
	board := newBoard(c, s.selfUID(ctx, c), sorted, cfg.Rank.DisplayLimit, func(e PracticeRankEntry) (string, string) {
		return e.UserID, e.UID
	})
	top := make([][]RoleScore, len(board.Rows))
	for i, r := range board.Rows {
		top[i] = r.Entry.TopRoles(s.Calc, cfg.Rank.PracticeTopRoles)
	}
	return &PracticeBoard{Board: board, Threshold: threshold, Label: ThresholdLabel(threshold), TopRoles: top}, nil
}

func (s *Service) practiceEntry(a account, threshold int) (PracticeRankEntry, bool) {
	log := s.Log.With(zap.String("uid", a.uid))

	if scores, ok := s.Cache.Load(a.uid); ok && len(scores) > 0 {
		total, valid := qualifying(scores, threshold)
		if total == 0 {
			return PracticeRankEntry{}, false
		}
		roles, err := s.Files.Roles(a.uid)
		if err != nil {
			log.Debug("skip practice rank player", zap.Error(err))
			return PracticeRankEntry{}, false
		}
		return PracticeRankEntry{UserID: a.userID, UID: a.uid, TotalScore: total, Roles: pick(roles, valid)}, true
	}

	roles, err := s.Files.Roles(a.uid)
	if err != nil {
		log.Debug("skip practice rank player", zap.Error(err))
		return PracticeRankEntry{}, false
	}
	if len(roles) == 0 {
		return PracticeRankEntry{}, false
	}
	scores := s.Calc.ScoreAll(roles)
	s.Cache.Save(a.uid, rankcache.Scores(scores))

	total, valid := qualifying(scores, threshold)
	if total == 0 {
		return PracticeRankEntry{}, false
	}
	return PracticeRankEntry{UserID: a.userID, UID: a.uid, TotalScore: total, Roles: pick(roles, valid)}, true
}

func pick(roles gear.RoleDocument, valid map[string]bool) []gear.RoleRecord {
	var out []gear.RoleRecord
	for _, r := range roles {
		if valid[gear.CharID(r.Role.RoleID)] {
			out = append(out, r)
		}
	}
	return out
}

// SlashRank ranks the group by the local endless-tower score.
func (s *Service) SlashRank(ctx context.Context, c Caller) (*Board[SlashRankEntry], error) {
	cfg := s.Config.Get()
	accts, err := s.accounts(ctx, c.GroupID)
	if err != nil {
		return nil, err
	}
	if len(accts) == 0 {
		return nil, errors.Wrapf(ErrNoData, "group %s has no binds", c.GroupID)
	}

	entries := collect(ctx, cfg.Rank.Concurrency, accts, func(a account) (SlashRankEntry, bool) {
		sd, err := s.Files.Slash(a.uid)
		if err != nil {
			s.Log.Debug("skip slash rank player", zap.String("uid", a.uid), zap.Error(err))
			return SlashRankEntry{}, false
		}
		if !sd.IsUnlock || sd.Score() <= 0 {
			return SlashRankEntry{}, false
		}
		roles, err := s.Files.Roles(a.uid)
		if err != nil {
			s.Log.Debug("slash rank without chain data", zap.String("uid", a.uid), zap.Error(err))
		}
		return NewSlashRankEntry(a.userID, a.uid, sd, roles), true
	})
	if len(entries) == 0 {
		return nil, errors.Wrapf(ErrNoData, "group %s has no slash data", c.GroupID)
	}

	sorted := SortSlash(entries)
	return newBoard(c, s.selfUID(ctx, c), sorted, cfg.Rank.DisplayLimit, func(e SlashRankEntry) (string, string) {
		return e.UserID, e.UID
	}), nil
}
