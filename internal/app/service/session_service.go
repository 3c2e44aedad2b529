// Package service keeps one live dashboard store per signed-in session and
// exposes the advisory features on top of it.
package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"crystalos/internal/app/insight"
	"crystalos/internal/app/store"
	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const defaultBootstrapTimeout = 15 * time.Second

// SnapshotProvider returns the snapshot blob of a user.
type SnapshotProvider func(userID string) ports.SnapshotStore

type Config struct {
	Location         *time.Location
	FullRefetch      bool
	AI               domain.AISettings
	BootstrapTimeout time.Duration
	// StoreOptions are appended to the options every session store is built with.
	StoreOptions []store.Option
}

type session struct {
	session domain.Session
	store   *store.Store
}

type SessionService struct {
	auth      ports.Auth
	gateway   ports.Gateway
	snapshots SnapshotProvider
	insights  *insight.Service
	conf      Config
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
	opening  singleflight.Group
	stop     func()
}

var (
	_ ports.SessionService   = (*SessionService)(nil)
	_ ports.AssistantService = (*SessionService)(nil)
)

// NewSessionService wires the registry to auth state changes: a sign-in
// bootstraps the session's store and a sign-out drops it.
func NewSessionService(
	auth ports.Auth,
	gateway ports.Gateway,
	snapshots SnapshotProvider,
	insights *insight.Service,
	conf Config,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.L()
	}
	if conf.Location == nil {
		conf.Location = time.Local
	}
	if conf.BootstrapTimeout <= 0 {
		conf.BootstrapTimeout = defaultBootstrapTimeout
	}
	if insights == nil {
		insights = insight.NewService(nil, logger)
	}

	s := &SessionService{
		auth:      auth,
		gateway:   gateway,
		snapshots: snapshots,
		insights:  insights,
		conf:      conf,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
	s.stop = auth.OnAuthStateChange(s.handleAuthEvent)
	return s
}

func (s *SessionService) handleAuthEvent(event domain.AuthEvent, sess *domain.Session) {
	if sess == nil {
		return
	}
	switch event {
	case domain.AuthEventSignedIn:
		ctx, cancel := context.WithTimeout(context.Background(), s.conf.BootstrapTimeout)
		defer cancel()
		if _, err := s.open(ctx, *sess); err != nil {
			s.logger.Error("failed to open session store", zap.String("user_id", sess.User.ID), zap.Error(err))
		}
	case domain.AuthEventSignedOut:
		s.drop(sess.Token)
	}
}

func (s *SessionService) SignUp(ctx context.Context, email, password, username string) (domain.Session, error) {
	return s.auth.SignUp(ctx, email, password, username)
}

func (s *SessionService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	return s.auth.SignIn(ctx, email, password)
}

// SignOut logs the session's store out, which signs out remotely and deletes
// the local snapshot. Tokens this process does not hold are signed out
// remotely only.
func (s *SessionService) SignOut(ctx context.Context, token string) error {
	s.mu.RLock()
	entry := s.sessions[token]
	s.mu.RUnlock()

	if entry == nil {
		return s.auth.SignOut(ctx, token)
	}
	err := entry.store.Logout(ctx)
	s.drop(token)
	return err
}

func (s *SessionService) Resolve(ctx context.Context, token string) (domain.Session, ports.Dashboard, error) {
	entry, err := s.lookup(ctx, token)
	if err != nil {
		return domain.Session{}, nil, err
	}
	return entry.session, entry.store, nil
}

// Store returns the live store of token. It is used by callers that need more
// than the Dashboard port, such as the realtime stream.
func (s *SessionService) Store(ctx context.Context, token string) (*store.Store, error) {
	entry, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return entry.store, nil
}

func (s *SessionService) lookup(ctx context.Context, token string) (*session, error) {
	s.mu.RLock()
	entry := s.sessions[token]
	s.mu.RUnlock()

	if entry != nil {
		if !s.now().Before(entry.session.ExpiresAt) {
			s.drop(token)
			return nil, domain.ErrSessionExpired
		}
		if _, err := entry.store.DailyReset(ctx); err != nil {
			s.logger.Warn("daily reset failed", zap.String("user_id", entry.session.User.ID), zap.Error(err))
		}
		return entry, nil
	}

	sess, err := s.auth.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, sess)
}

// open builds and bootstraps the store of sess once, however many callers
// race for it.
func (s *SessionService) open(ctx context.Context, sess domain.Session) (*session, error) {
	v, err, _ := s.opening.Do(sess.Token, func() (any, error) {
		s.mu.RLock()
		entry := s.sessions[sess.Token]
		s.mu.RUnlock()
		if entry != nil {
			return entry, nil
		}

		st := s.newStore(sess.User.ID)
		st.SetSession(&sess)
		s.bootstrap(ctx, st, sess.User.ID)

		entry = &session{session: sess, store: st}
		s.mu.Lock()
		s.sessions[sess.Token] = entry
		s.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*session), nil
}

func (s *SessionService) newStore(userID string) *store.Store {
	opts := []store.Option{
		store.WithAuth(s.auth),
		store.WithLogger(s.logger.With(zap.String("user_id", userID))),
		store.WithLocation(s.conf.Location),
		store.WithFullRefetch(s.conf.FullRefetch),
		store.WithAISettings(s.conf.AI),
		store.WithClock(s.now),
	}
	if s.snapshots != nil {
		opts = append(opts, store.WithSnapshotStore(s.snapshots(userID)))
	}
	return store.New(s.gateway, append(opts, s.conf.StoreOptions...)...)
}

// bootstrap runs the sign-in sequence: snapshot placeholder, first fetch,
// daily reset and realtime subscription. Each step is best effort.
func (s *SessionService) bootstrap(ctx context.Context, st *store.Store, userID string) {
	log := s.logger.With(zap.String("user_id", userID))

	if _, err := st.Hydrate(ctx); err != nil {
		log.Warn("failed to hydrate snapshot", zap.Error(err))
	}
	if err := st.FetchData(ctx); err != nil {
		log.Warn("initial fetch failed", zap.Error(err))
	}
	if _, err := st.DailyReset(ctx); err != nil {
		log.Warn("daily reset failed", zap.Error(err))
	}
	if err := st.Subscribe(context.Background()); err != nil {
		log.Warn("failed to subscribe to changes", zap.Error(err))
	}
}

func (s *SessionService) drop(token string) {
	s.mu.Lock()
	entry := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if entry != nil {
		entry.store.Unsubscribe()
	}
}

// Sessions returns the number of live session stores.
func (s *SessionService) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close detaches from auth events and closes every realtime subscription.
func (s *SessionService) Close() {
	if s.stop != nil {
		s.stop()
	}

	s.mu.Lock()
	entries := make([]*session, 0, len(s.sessions))
	for token, entry := range s.sessions {
		entries = append(entries, entry)
		delete(s.sessions, token)
	}
	s.mu.Unlock()

	for _, entry := range entries {
		entry.store.Unsubscribe()
	}
}
