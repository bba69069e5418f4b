// Package session holds the admin credential and mediates every catalog
// mutation.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/models"
)

var (
	// ErrUnauthorized is returned when the server rejects the password or
	// the stored credential. The credential is kept.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotLoggedIn is returned for mutations attempted without a credential.
	ErrNotLoggedIn = errors.New("not logged in")
)

// Catalog is the remote catalog surface the session drives.
type Catalog interface {
	Login(ctx context.Context, password string) (string, error)
	CreateMessage(ctx context.Context, token string, m models.Message) (*models.Message, error)
	UpdateMessage(ctx context.Context, token, id string, patch models.MessagePatch) (*models.Message, error)
	DeleteMessage(ctx context.Context, token, id string) error
}

// statusError is implemented by transport errors that carry an HTTP status.
type statusError interface {
	HTTPStatus() int
}

// Session is the admin session: at most one bearer credential, loaded from
// and persisted to a CredentialStore.
type Session struct {
	catalog Catalog
	creds   CredentialStore
	logger  zerolog.Logger

	mu    sync.Mutex
	token string
}

// New returns a session restored from creds.
func New(catalog Catalog, creds CredentialStore, logger zerolog.Logger) (*Session, error) {
	token, err := creds.Load()
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	return &Session{catalog: catalog, creds: creds, logger: logger, token: token}, nil
}

// LoggedIn reports whether a credential is held.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Token returns the held credential, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login submits password and stores the returned credential. A rejected
// password leaves any previous credential in place.
func (s *Session) Login(ctx context.Context, password string) error {
	token, err := s.catalog.Login(ctx, password)
	if err != nil {
		return classify(err)
	}

	if err := s.creds.Save(token); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info().Msg("admin logged in")
	return nil
}

// Logout clears the credential unconditionally.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Save creates m when its id is empty and updates it otherwise. Audio links
// are normalized before anything is sent.
func (s *Session) Save(ctx context.Context, m models.Message) (*models.Message, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}

	m = NormalizeMessage(m)

	var saved *models.Message
	if m.ID == "" {
		saved, err = s.catalog.CreateMessage(ctx, token, m)
	} else {
		saved, err = s.catalog.UpdateMessage(ctx, token, m.ID, models.PatchFrom(m))
	}
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info().Str("id", saved.ID).Msg("message saved")
	return saved, nil
}

// Delete removes the message with the given id.
func (s *Session) Delete(ctx context.Context, id string) error {
	token, err := s.requireToken()
	if err != nil {
		return err
	}

	if err := s.catalog.DeleteMessage(ctx, token, id); err != nil {
		return classify(err)
	}

	s.logger.Info().Str("id", id).Msg("message deleted")
	return nil
}

func (s *Session) requireToken() (string, error) {
	token := s.Token()
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

func classify(err error) error {
	var se statusError
	if errors.As(err, &se) && se.HTTPStatus() == http.StatusUnauthorized {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return err
}
