package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"appship/internal/domain"
)

const (
	dirMode  fs.FileMode = 0o700
	fileMode fs.FileMode = 0o600
)

// Options configures a Store. EnvKey is the session-only override and is
// never written to disk.
type Options struct {
	Path   string
	EnvKey string
}

type Store struct {
	path   string
	envKey string
	logger *zap.Logger
}

// storedCredential mirrors the on-disk record. apiKey is the legacy field name.
type storedCredential struct {
	SecretKey string `json:"secretKey,omitempty"`
	APIKey    string `json:"apiKey,omitempty"`
	Email     string `json:"email,omitempty"`
}

func NewStore(opts Options, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   opts.Path,
		envKey: strings.TrimSpace(opts.EnvKey),
		logger: logger.Named("credentials"),
	}
}

// DefaultPath returns ~/.appship/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, domain.ConfigDirName, domain.CredentialsFileName), nil
}

func (s *Store) Path() string {
	return s.path
}

// Resolve returns the active credential: the environment override if set,
// otherwise the persisted file.
func (s *Store) Resolve() (domain.Credential, bool) {
	if s.envKey != "" {
		return domain.Credential{SecretKey: s.envKey}, true
	}
	return s.Stored()
}

func (s *Store) Source() domain.CredentialSource {
	if s.envKey != "" {
		return domain.CredentialSourceEnvironment
	}
	if _, ok := s.Stored(); ok {
		return domain.CredentialSourceFile
	}
	return domain.CredentialSourceNone
}

// Stored reads the persisted credential only. Missing, unreadable and
// malformed files all read as absent.
func (s *Store) Stored() (domain.Credential, bool) {
	if s.path == "" {
		return domain.Credential{}, false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("read credentials failed", zap.String("path", s.path), zap.Error(err))
		}
		return domain.Credential{}, false
	}
	var raw storedCredential
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Debug("decode credentials failed", zap.String("path", s.path), zap.Error(err))
		return domain.Credential{}, false
	}
	secret := raw.SecretKey
	if secret == "" {
		secret = raw.APIKey
	}
	cred := domain.Credential{SecretKey: secret, Email: raw.Email}
	if cred.IsZero() {
		return domain.Credential{}, false
	}
	return cred, true
}

// Persist replaces the credentials file with cred.
func (s *Store) Persist(cred domain.Credential) error {
	if s.path == "" {
		return errors.New("credentials path is required")
	}
	if cred.IsZero() {
		return errors.New("credential secret is required")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("ensure credentials dir: %w", err)
	}
	data, err := json.MarshalIndent(storedCredential{SecretKey: cred.SecretKey, Email: cred.Email}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, fileMode); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(s.path, fileMode); err != nil {
		return fmt.Errorf("chmod credentials: %w", err)
	}
	s.logger.Debug("credentials saved", zap.String("path", s.path))
	return nil
}

// Erase removes the credentials file and reports whether one was removed.
// Nothing is removed while the environment override is active.
func (s *Store) Erase() (bool, error) {
	if s.envKey != "" || s.path == "" {
		return false, nil
	}
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove credentials: %w", err)
	}
	s.logger.Debug("credentials removed", zap.String("path", s.path))
	return true, nil
}
