// Package bind stores which game uids a chat user has bound, per bot and group.
package bind

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/xtding233/waves-rank/internal/config"
)

// UIDSep joins multiple bound uids in one row; the first is the active account.
const UIDSep = "_"

type Bind struct {
	UserID  string
	BotID   string
	GroupID string
	UID     string
}

// UIDs splits the joined uid column, dropping empty parts.
func (b Bind) UIDs() []string {
	var out []string
	for _, u := range strings.Split(b.UID, UIDSep) {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Store is the binding lookup the ranking commands consume.
type Store interface {
	// GetUIDByGame returns the active uid, or "" when the user has none.
	GetUIDByGame(ctx context.Context, userID, botID string) (string, error)
	GetGroupAllUID(ctx context.Context, groupID string) ([]Bind, error)
	Upsert(ctx context.Context, b Bind) error
}

// SQLStore implements Store on database/sql for sqlite and postgres.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

const table = "waves_bind"

// Open connects with the configured driver and creates the table when missing.
func Open(ctx context.Context, cfg config.BindConfig) (*SQLStore, error) {
	var (
		driver = cfg.Driver
		ph     sq.PlaceholderFormat
	)
	switch cfg.Driver {
	case "sqlite":
		ph = sq.Question
		if cfg.DSN != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
				return nil, errors.Wrap(err, "create bind db dir")
			}
		}
	case "postgres":
		ph = sq.Dollar
	default:
		return nil, errors.Newf("unsupported bind driver %q", cfg.Driver)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	s := &SQLStore{db: db, builder: sq.StatementBuilder.PlaceholderFormat(ph)}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s", driver)
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS waves_bind (
	user_id    TEXT NOT NULL,
	bot_id     TEXT NOT NULL,
	group_id   TEXT NOT NULL DEFAULT '',
	uid        TEXT NOT NULL DEFAULT '',
	updated_at BIGINT NOT NULL,
	PRIMARY KEY (user_id, bot_id)
)`)
	if err != nil {
		return errors.Wrap(err, "create waves_bind")
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_waves_bind_group ON waves_bind (group_id)`); err != nil {
		return errors.Wrap(err, "create waves_bind index")
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) GetUIDByGame(ctx context.Context, userID, botID string) (string, error) {
	query, args, err := s.builder.
		Select("uid").
		From(table).
		Where(sq.Eq{"user_id": userID, "bot_id": botID}).
		ToSql()
	if err != nil {
		return "", err
	}
	var joined string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&joined); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", errors.Wrap(err, "query uid")
	}
	uids := Bind{UID: joined}.UIDs()
	if len(uids) == 0 {
		return "", nil
	}
	return uids[0], nil
}

func (s *SQLStore) GetGroupAllUID(ctx context.Context, groupID string) ([]Bind, error) {
	query, args, err := s.builder.
		Select("user_id", "bot_id", "group_id", "uid").
		From(table).
		Where(sq.Eq{"group_id": groupID}).
		Where(sq.NotEq{"uid": ""}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query group binds")
	}
	defer rows.Close()

	var out []Bind
	for rows.Next() {
		var b Bind
		if err := rows.Scan(&b.UserID, &b.BotID, &b.GroupID, &b.UID); err != nil {
			return nil, errors.Wrap(err, "scan bind")
		}
		out = append(out, b)
	}
	return out, errors.Wrap(rows.Err(), "iterate binds")
}

// Upsert inserts or replaces the row for (user, bot). An empty GroupID keeps the
// stored group.
func (s *SQLStore) Upsert(ctx context.Context, b Bind) error {
	query, args, err := s.builder.
		Insert(table).
		Columns("user_id", "bot_id", "group_id", "uid", "updated_at").
		Values(b.UserID, b.BotID, b.GroupID, b.UID, time.Now().Unix()).
		Suffix("ON CONFLICT (user_id, bot_id) DO UPDATE SET group_id = COALESCE(NULLIF(EXCLUDED.group_id, ''), " + table + ".group_id), uid = EXCLUDED.uid, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "upsert bind")
	}
	return nil
}
