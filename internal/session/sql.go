package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// dialect captures the differences between the supported databases.
type dialect struct {
	name        string
	driver      string
	goose       string
	dollarBinds bool
}

var (
	dialectSQLite   = dialect{name: "sqlite", driver: "sqlite", goose: "sqlite3"}
	dialectPostgres = dialect{name: "postgres", driver: "pgx", goose: "postgres", dollarBinds: true}
)

// rebind rewrites ? placeholders to $N for databases that need it.
func (d dialect) rebind(query string) string {
	if !d.dollarBinds {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const sessionColumns = `id, shop, state, is_online, scope, expires, access_token, user_id, updated_at`

// sqlStore implements Store on database/sql. Concrete stores embed it and
// only differ in how they open the connection.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
	now     func() time.Time
}

func newSQLStore(db *sql.DB, d dialect, logger *slog.Logger) *sqlStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &sqlStore{db: db, dialect: d, logger: logger, now: time.Now}
}

var errNotOpened = errors.New("session store not opened")

func (s *sqlStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	return s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Debug("closing session store", "dialect", s.dialect.name)
	return s.db.Close()
}

// Store inserts the session or replaces the one with the same id.
func (s *sqlStore) Store(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if sess.Shop == "" {
		return fmt.Errorf("session shop is required")
	}

	sess.UpdatedAt = s.now().UTC().Truncate(time.Second)

	var expires sql.NullInt64
	if sess.Expires != nil {
		expires = sql.NullInt64{Int64: sess.Expires.Unix(), Valid: true}
	}
	var userID sql.NullInt64
	if sess.UserID != nil {
		userID = sql.NullInt64{Int64: *sess.UserID, Valid: true}
	}
	online := 0
	if sess.IsOnline {
		online = 1
	}

	_, err := s.exec(ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   shop = excluded.shop,
		   state = excluded.state,
		   is_online = excluded.is_online,
		   scope = excluded.scope,
		   expires = excluded.expires,
		   access_token = excluded.access_token,
		   user_id = excluded.user_id,
		   updated_at = excluded.updated_at`,
		sess.ID, sess.Shop, sess.State, online, sess.Scope, expires, sess.AccessToken, userID, sess.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store session %s: %w", sess.ID, err)
	}
	return nil
}

// Load retrieves a session by id. It returns ErrNotFound if none exists.
func (s *sqlStore) Load(ctx context.Context, id string) (*Session, error) {
	sessions, err := s.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sessions[0], nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *sqlStore) Delete(ctx context.Context, id string) error {
	if _, err := s.exec(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// DeleteMany removes all the given sessions in one statement.
func (s *sqlStore) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	//nolint:gosec // only placeholders are interpolated
	if _, err := s.exec(ctx, `DELETE FROM sessions WHERE id IN (`+marks+`)`, args...); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// FindByShop returns every session for a shop.
func (s *sqlStore) FindByShop(ctx context.Context, shop string) ([]*Session, error) {
	return s.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE shop = ? ORDER BY id`, shop)
}

// FindByAccessToken returns the sessions holding a token.
func (s *sqlStore) FindByAccessToken(ctx context.Context, token string) ([]*Session, error) {
	return s.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE access_token = ? ORDER BY id`, token)
}

// FindByScope returns the sessions granted exactly the given scope string.
func (s *sqlStore) FindByScope(ctx context.Context, scope string) ([]*Session, error) {
	return s.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE scope = ? ORDER BY id`, scope)
}

// List returns all sessions ordered by shop and id.
func (s *sqlStore) List(ctx context.Context) ([]*Session, error) {
	return s.query(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY shop, id`)
}

func (s *sqlStore) query(ctx context.Context, query string, args ...any) ([]*Session, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*Session
	for rows.Next() {
		var (
			sess      Session
			online    int64
			expires   sql.NullInt64
			userID    sql.NullInt64
			updatedAt int64
		)
		if err := rows.Scan(&sess.ID, &sess.Shop, &sess.State, &online, &sess.Scope, &expires, &sess.AccessToken, &userID, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.IsOnline = online != 0
		if expires.Valid {
			t := time.Unix(expires.Int64, 0).UTC()
			sess.Expires = &t
		}
		if userID.Valid {
			id := userID.Int64
			sess.UserID = &id
		}
		sess.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		out = append(out, &sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return out, nil
}
