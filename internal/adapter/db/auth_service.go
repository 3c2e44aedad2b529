package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const mysqlDuplicateEntry = 1062

// AuthService implements email/password accounts with opaque session
// tokens stored in the sessions table.
type AuthService struct {
	db     *sqlx.DB
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu           sync.Mutex
	listeners    map[int]ports.AuthListener
	nextListener int
}

var _ ports.Auth = (*AuthService)(nil)

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

type sessionRow struct {
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	UserID    string    `db:"user_id"`
	Email     string    `db:"email"`
	Username  string    `db:"username"`
}

func NewAuthService(db *sqlx.DB, ttl time.Duration, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.L()
	}
	return &AuthService{
		db:        db,
		ttl:       ttl,
		now:       utcNow,
		logger:    logger,
		listeners: make(map[int]ports.AuthListener),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the account and its profile and signs the user in.
func (a *AuthService) SignUp(ctx context.Context, email, password, username string) (domain.Session, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Session{}, err
	}

	user := domain.User{ID: uuid.NewString(), Email: email, Username: strings.TrimSpace(username)}
	err = WithTx(ctx, a.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, username, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
			user.ID, user.Email, user.Username, string(hash), a.now(),
		)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (id, username, theme_color) VALUES (?, ?, ?)`,
			user.ID, user.Username, domain.DefaultThemeColor,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Session{}, domain.ErrEmailTaken
		}
		return domain.Session{}, err
	}

	a.logger.Info("account created", zap.String("user_id", user.ID))
	return a.startSession(ctx, user)
}

func (a *AuthService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var row userRow
	err := a.db.GetContext(ctx, &row,
		`SELECT id, email, username, password_hash FROM users WHERE email = ?`, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	return a.startSession(ctx, domain.User{ID: row.ID, Email: row.Email, Username: row.Username})
}

func (a *AuthService) startSession(ctx context.Context, user domain.User) (domain.Session, error) {
	now := a.now()
	session := domain.Session{
		Token:     strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
		User:      user,
		ExpiresAt: now.Add(a.ttl),
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		session.Token, user.ID, session.ExpiresAt, now,
	)
	if err != nil {
		return domain.Session{}, err
	}

	a.notify(domain.AuthEventSignedIn, &session)
	return session, nil
}

// SignOut deletes the session. Unknown tokens are not an error.
func (a *AuthService) SignOut(ctx context.Context, token string) error {
	session, err := a.lookup(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil && !errors.Is(err, domain.ErrSessionExpired) {
		return err
	}

	if _, err := a.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return err
	}
	a.notify(domain.AuthEventSignedOut, &session)
	return nil
}

// GetSession resolves a token. Expired sessions are deleted.
func (a *AuthService) GetSession(ctx context.Context, token string) (domain.Session, error) {
	session, err := a.lookup(ctx, token)
	if errors.Is(err, domain.ErrSessionExpired) {
		if _, delErr := a.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); delErr != nil {
			a.logger.Warn("failed to purge expired session", zap.Error(delErr))
		}
	}
	return session, err
}

func (a *AuthService) lookup(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	var row sessionRow
	err := a.db.GetContext(ctx, &row,
		`SELECT s.token, s.expires_at, u.id AS user_id, u.email, u.username
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	session := domain.Session{
		Token:     row.Token,
		User:      domain.User{ID: row.UserID, Email: row.Email, Username: row.Username},
		ExpiresAt: row.ExpiresAt.UTC(),
	}
	if !a.now().Before(session.ExpiresAt) {
		return session, domain.ErrSessionExpired
	}
	return session, nil
}

func (a *AuthService) OnAuthStateChange(fn ports.AuthListener) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextListener
	a.nextListener++
	a.listeners[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

func (a *AuthService) notify(event domain.AuthEvent, session *domain.Session) {
	a.mu.Lock()
	listeners := make([]ports.AuthListener, 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(event, session)
	}
}

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
