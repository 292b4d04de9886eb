package controllers

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/events"
	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/roble"
	"github.com/SAP-F-2025/courseware-service/internal/session"
	"github.com/SAP-F-2025/courseware-service/internal/state"
)

// AuthState is the authentication snapshot observed by consumers.
type AuthState struct {
	IsLoading bool
	Err       string
	Session   *models.Session
}

// AuthController drives the sign-in lifecycle against the Roble auth API
// and persists the session through the session store.
type AuthController struct {
	store    *state.Store[AuthState]
	client   *roble.Client
	sessions session.Store
	bus      *events.Bus
	logger   *slog.Logger
}

func NewAuthController(client *roble.Client, sessions session.Store, bus *events.Bus, logger *slog.Logger) *AuthController {
	return &AuthController{
		store:    state.NewStore("auth", AuthState{}, logger),
		client:   client,
		sessions: sessions,
		bus:      bus,
		logger:   logger,
	}
}

func (c *AuthController) Subscribe(fn state.Listener[AuthState]) func() {
	return c.store.Subscribe(fn)
}

func (c *AuthController) Snapshot() AuthState {
	return c.store.Snapshot()
}

// Login authenticates with Roble, persists the session, and returns it.
// Failures are both returned and folded into the state's Err field.
func (c *AuthController) Login(ctx context.Context, email, password string, keepLoggedIn bool) (*models.Session, error) {
	c.begin()

	resp, err := c.client.Login(ctx, email, password)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	sess := &models.Session{
		User:         resp.User,
		Tokens:       resp.Tokens,
		KeepLoggedIn: keepLoggedIn,
		CreatedAt:    time.Now().UTC(),
	}
	if err := c.sessions.Save(ctx, sess); err != nil {
		c.logger.Warn("Failed to persist session", "user_id", sess.User.ID, "error", err)
	}

	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{Session: sess}
	})
	return sess, nil
}

// Signup registers a new account. The user still has to verify their email
// and log in afterwards.
func (c *AuthController) Signup(ctx context.Context, req roble.SignupRequest) (*models.User, error) {
	c.begin()

	user, err := c.client.Signup(ctx, req)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{Session: s.Session}
	})
	return user, nil
}

func (c *AuthController) VerifyEmail(ctx context.Context, email, code string) error {
	c.begin()

	if err := c.client.VerifyEmail(ctx, email, code); err != nil {
		c.fail(err)
		return err
	}

	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{Session: s.Session}
	})
	return nil
}

// Refresh exchanges the stored refresh token for a new token pair. When
// the refresh token itself is rejected the session is cleared and a
// SessionExpiredEvent goes out so other controllers can drop their state.
func (c *AuthController) Refresh(ctx context.Context) error {
	sess := c.store.Snapshot().Session
	if sess == nil {
		c.store.Mutate(func(s AuthState) AuthState {
			return AuthState{Err: ErrUnauthorized.Error()}
		})
		return ErrUnauthorized
	}

	c.begin()

	tokens, err := c.client.RefreshToken(ctx, sess.Tokens.RefreshToken)
	if err != nil {
		if roble.IsUnauthorized(err) {
			c.expire(ctx, sess.User.ID)
			return ErrUnauthorized
		}
		c.fail(err)
		return err
	}

	updated := *sess
	updated.Tokens = *tokens
	if err := c.sessions.Save(ctx, &updated); err != nil {
		c.logger.Warn("Failed to persist refreshed session", "user_id", updated.User.ID, "error", err)
	}

	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{Session: &updated}
	})
	return nil
}

func (c *AuthController) Logout(ctx context.Context) error {
	sess := c.store.Snapshot().Session
	c.begin()

	if sess != nil {
		if err := c.client.Logout(roble.WithToken(ctx, sess.Tokens.AccessToken)); err != nil {
			// Logout failures are not fatal: the local session is cleared
			// regardless.
			c.logger.Warn("Remote logout failed", "error", err)
		}
		if err := c.sessions.Clear(ctx, sess.User.ID); err != nil {
			c.logger.Warn("Failed to clear stored session", "error", err)
		}
	}

	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{}
	})
	return nil
}

// Restore loads a persisted session (app relaunch) and verifies its access
// token with Roble before trusting it.
func (c *AuthController) Restore(ctx context.Context, userID string) (*models.Session, error) {
	c.begin()

	sess, err := c.sessions.Load(ctx, userID)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	if _, err := c.client.VerifyToken(roble.WithToken(ctx, sess.Tokens.AccessToken)); err != nil {
		if roble.IsUnauthorized(err) {
			c.expire(ctx, userID)
			return nil, ErrUnauthorized
		}
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{Session: sess}
	})
	return sess, nil
}

func (c *AuthController) begin() {
	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{IsLoading: true, Session: s.Session}
	})
}

func (c *AuthController) fail(err error) {
	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{Err: errMessage(err), Session: s.Session}
	})
}

func (c *AuthController) expire(ctx context.Context, userID string) {
	if err := c.sessions.Clear(ctx, userID); err != nil {
		c.logger.Warn("Failed to clear expired session", "user_id", userID, "error", err)
	}
	c.store.Mutate(func(s AuthState) AuthState {
		return AuthState{Err: ErrUnauthorized.Error()}
	})
	c.bus.Publish(events.SessionExpiredEvent{UserID: userID})
}
