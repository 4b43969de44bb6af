package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"appship/internal/domain"
	"appship/internal/infra/credentials"
	"appship/internal/infra/remote"
)

// Account backs the login, logout and whoami commands.
type Account struct {
	store  *credentials.Store
	client *remote.Client
	logger *zap.Logger
}

type LoginResult struct {
	Email string
	Path  string
}

type LogoutResult struct {
	Removed bool
	Path    string
	// EnvOverride is set when APPSHIP_API_KEY keeps a credential active.
	EnvOverride bool
}

// Status describes the active credential and, when reachable, the account behind it.
type Status struct {
	LoggedIn            bool   `json:"loggedIn"`
	Source              string `json:"source"`
	Email               string `json:"email,omitempty"`
	Credits             *int   `json:"credits,omitempty"`
	HasAppleCredentials *bool  `json:"hasAppleCredentials,omitempty"`
	// Verified is false when the account could not be fetched and the
	// stored email is shown instead.
	Verified bool `json:"verified"`
}

// Login checks the key format, validates it remotely and persists it.
func (a *Account) Login(ctx context.Context, key string) (LoginResult, error) {
	key = strings.TrimSpace(key)
	if err := domain.CheckCredentialFormat(key); err != nil {
		return LoginResult{}, err
	}
	validation := a.client.ValidateKey(ctx, key)
	if !validation.Valid {
		return LoginResult{}, domain.E(domain.CodeUnauthenticated, "login", "Invalid API key. Please check and try again.", domain.ErrNotAuthenticated)
	}
	cred := domain.Credential{SecretKey: key, Email: validation.Email}
	if err := a.store.Persist(cred); err != nil {
		return LoginResult{}, domain.Wrap(domain.CodeUnexpected, "login", err)
	}
	a.logger.Debug("credential saved", zap.String("path", a.store.Path()))
	return LoginResult{Email: validation.Email, Path: a.store.Path()}, nil
}

func (a *Account) Logout() (LogoutResult, error) {
	result := LogoutResult{
		Path:        a.store.Path(),
		EnvOverride: a.store.Source() == domain.CredentialSourceEnvironment,
	}
	removed, err := a.store.Erase()
	if err != nil {
		return result, domain.E(domain.CodeUnexpected, "logout", "Failed to remove credentials.", err)
	}
	result.Removed = removed
	return result, nil
}

// Status fetches the account for the active credential. It only fails when
// the account is unreachable and no email was stored at login.
func (a *Account) Status(ctx context.Context) (Status, error) {
	source := a.store.Source()
	if source == domain.CredentialSourceNone {
		return Status{Source: source.Label()}, nil
	}
	status := Status{LoggedIn: true, Source: source.Label()}

	info, err := a.client.UserInfo(ctx)
	if err == nil {
		status.Email = info.Email
		status.Credits = &info.Credits
		status.HasAppleCredentials = &info.HasAppleCredentials
		status.Verified = true
		return status, nil
	}

	a.logger.Debug("account fetch failed", zap.Error(err))
	if stored, ok := a.store.Stored(); ok && stored.Email != "" {
		status.Email = stored.Email
		return status, nil
	}
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeUnexpected
	}
	return Status{}, domain.E(code, "whoami", "Could not verify credentials.", err)
}
