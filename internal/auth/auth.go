// Package auth is a thin client for the account API. It keeps the session
// token locally and treats the remote service as the source of truth for
// credentials.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/snapshot"
)

// User is the account profile returned by the account API.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup payload.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Session is the persisted auth state: the bearer token plus the profile
// it was issued for.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Service manages the local session against the remote account API.
type Service interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Register(ctx context.Context, reg Registration) (*Session, error)
	Logout(ctx context.Context) error
	Session() (Session, bool)
	Authenticated() bool
}

type service struct {
	baseURL string
	http    *http.Client
	store   snapshot.Store
	logg    *logger.Logger

	mu      sync.Mutex
	session *Session
	now     func() time.Time
}

// ServiceParams groups the auth service dependencies.
type ServiceParams struct {
	Config config.AuthConfig
	Store  snapshot.Store
	Logger *logger.Logger
}

// NewService builds the auth client and restores a persisted session if
// one exists. An expired persisted token is dropped on restore.
func NewService(ctx context.Context, params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	timeout := params.Config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &service{
		baseURL: strings.TrimRight(params.Config.APIBaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   params.Store,
		logg:    params.Logger,
		now:     time.Now,
	}
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	return s.authenticate(ctx, "/auth/login", creds)
}

func (s *service) Register(ctx context.Context, reg Registration) (*Session, error) {
	return s.authenticate(ctx, "/auth/register", reg)
}

// Logout clears the local session. The token is not revoked remotely; it
// simply ages out.
func (s *service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, snapshot.KeyAuth); err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear auth snapshot")
	}
	return nil
}

// Session returns the current session and whether one is active.
func (s *service) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Authenticated reports whether a session exists with an unexpired token.
// The signature is not verified here: the account API is the verifier,
// this check only avoids presenting a token that is already dead.
func (s *service) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && !tokenExpired(s.session.Token, s.now())
}

func (s *service) authenticate(ctx context.Context, path string, payload any) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode auth request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build auth request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "account api unreachable")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read account api response")
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid credentials")
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("account api returned status %d", res.StatusCode))
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSchema, err, "decode account api response")
	}
	if session.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeSchema, "account api response missing token")
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()
	s.persist(ctx)
	return &session, nil
}

func (s *service) persist(ctx context.Context) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()
	if session == nil {
		return
	}

	payload, err := json.Marshal(session)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "marshal auth snapshot", err)
		}
		return
	}
	if err := s.store.Save(ctx, snapshot.KeyAuth, payload); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithSnapshotKey(ctx, snapshot.KeyAuth), "persist auth snapshot", err)
	}
}

func (s *service) restore(ctx context.Context) error {
	payload, err := s.store.Load(ctx, snapshot.KeyAuth)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restore auth snapshot: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return fmt.Errorf("decode auth snapshot: %w", err)
	}
	if session.Token == "" || tokenExpired(session.Token, s.now()) {
		if err := s.store.Delete(ctx, snapshot.KeyAuth); err != nil && !errors.Is(err, snapshot.ErrNotFound) {
			return fmt.Errorf("drop stale auth snapshot: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()
	return nil
}

// tokenExpired decodes the exp claim without verifying the signature. A
// token that cannot be parsed, or carries no exp, counts as expired.
func tokenExpired(token string, at time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(at)
}
