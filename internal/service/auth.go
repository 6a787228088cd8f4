package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/firebase"
	"github.com/noah-isme/accomnote/internal/models"
	"github.com/noah-isme/accomnote/internal/observability"
	"github.com/noah-isme/accomnote/internal/session"
	"github.com/noah-isme/accomnote/internal/store"
)

// ErrMetadataNotFound is returned when the identity provider accepted the
// credentials but no metadata record exists under users/{uid}. Registration
// and sign-in are only eventually consistent; the login is rejected and the
// user has to retry, nothing is retried here.
var ErrMetadataNotFound = errors.New("user metadata not found")

// IdentityProvider is the subset of the identity client the auth service uses.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (firebase.Credentials, error)
	SignUp(ctx context.Context, email, password string) (string, error)
}

// AuthService establishes and tears down authenticated sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (session.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	identity IdentityProvider
	db       firebase.Database
	sessions session.Store
	logger   zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(identity IdentityProvider, db firebase.Database, sessions session.Store, logger zerolog.Logger) AuthService {
	return &authService{
		identity: identity,
		db:       db,
		sessions: sessions,
		logger:   logger.With().Str("component", "auth_service").Logger(),
	}
}

// Login delegates credential verification to the identity provider, resolves
// the user's role from the metadata record and stores a fresh session.
func (s *authService) Login(ctx context.Context, email, password string) (session.Session, error) {
	creds, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		observability.LoginAttempts().WithLabelValues("rejected").Inc()
		return session.Session{}, err
	}

	userPath, err := store.UserPath(creds.UID)
	if err != nil {
		return session.Session{}, fmt.Errorf("build user path: %w", err)
	}

	var meta models.UserRecord
	if err := s.db.Get(ctx, userPath, &meta); err != nil {
		return session.Session{}, err
	}

	if meta == (models.UserRecord{}) {
		observability.LoginAttempts().WithLabelValues("no_metadata").Inc()
		s.logger.Warn().Str("uid", creds.UID).Msg("login rejected: metadata record missing")
		return session.Session{}, ErrMetadataNotFound
	}

	sess := session.Session{
		ID:              session.NewID(),
		UID:             creds.UID,
		IDToken:         creds.IDToken,
		RefreshToken:    creds.RefreshToken,
		Role:            models.ParseRole(meta.Role),
		AssignedClass:   meta.AssignedClass,
		AssignedSection: meta.AssignedSection,
		Username:        meta.Username,
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		return session.Session{}, err
	}

	observability.LoginAttempts().WithLabelValues("success").Inc()
	s.logger.Info().Str("uid", sess.UID).Str("role", sess.Role.String()).Msg("session established")

	return sess, nil
}

// Logout removes the whole session record, not just the auth fields.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
