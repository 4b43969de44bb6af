package credentials

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appship/internal/domain"
)

func newTestStore(t *testing.T, envKey string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".appship", "credentials.json")
	return NewStore(Options{Path: path, EnvKey: envKey}, zap.NewNop()), path
}

func TestStore_PersistThenResolve(t *testing.T) {
	store, _ := newTestStore(t, "")
	cred := domain.Credential{SecretKey: "as_live_abc", Email: "dev@example.com"}

	require.NoError(t, store.Persist(cred))

	got, ok := store.Resolve()
	require.True(t, ok)
	if diff := cmp.Diff(cred, got); diff != "" {
		t.Fatalf("credential mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, domain.CredentialSourceFile, store.Source())
}

func TestStore_PersistWithoutEmail(t *testing.T) {
	store, path := newTestStore(t, "")
	require.NoError(t, store.Persist(domain.Credential{SecretKey: "as_live_abc"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"secretKey":"as_live_abc"}`, string(data))
}

func TestStore_PersistOverwrites(t *testing.T) {
	store, _ := newTestStore(t, "")
	require.NoError(t, store.Persist(domain.Credential{SecretKey: "as_live_old", Email: "old@example.com"}))
	require.NoError(t, store.Persist(domain.Credential{SecretKey: "as_live_new"}))

	got, ok := store.Resolve()
	require.True(t, ok)
	require.Equal(t, domain.Credential{SecretKey: "as_live_new"}, got)
}

func TestStore_PersistPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	store, path := newTestStore(t, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	require.NoError(t, store.Persist(domain.Credential{SecretKey: "as_live_abc"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestStore_PersistCreatesDirOwnerOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	store, path := newTestStore(t, "")
	require.NoError(t, store.Persist(domain.Credential{SecretKey: "as_live_abc"}))

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestStore_PersistRejectsEmptySecret(t *testing.T) {
	store, _ := newTestStore(t, "")
	require.Error(t, store.Persist(domain.Credential{Email: "dev@example.com"}))
}

func TestStore_ResolveMissingFile(t *testing.T) {
	store, _ := newTestStore(t, "")
	_, ok := store.Resolve()
	require.False(t, ok)
	require.Equal(t, domain.CredentialSourceNone, store.Source())
}

func TestStore_ResolveMalformedFile(t *testing.T) {
	cases := map[string]string{
		"not json":     "{secretKey:",
		"empty object": "{}",
		"wrong type":   `{"secretKey": 42}`,
		"blank secret": `{"secretKey": "   "}`,
		"json array":   `["as_live_abc"]`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			store, path := newTestStore(t, "")
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			_, ok := store.Resolve()
			require.False(t, ok)
		})
	}
}

func TestStore_ResolveLegacyAPIKeyField(t *testing.T) {
	store, path := newTestStore(t, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(`{"apiKey":"as_live_legacy","email":"dev@example.com"}`), 0o600))

	got, ok := store.Resolve()
	require.True(t, ok)
	require.Equal(t, domain.Credential{SecretKey: "as_live_legacy", Email: "dev@example.com"}, got)
}

func TestStore_EnvironmentOverrideWins(t *testing.T) {
	store, _ := newTestStore(t, "as_live_env")
	require.NoError(t, store.Persist(domain.Credential{SecretKey: "as_live_file", Email: "file@example.com"}))

	got, ok := store.Resolve()
	require.True(t, ok)
	require.Equal(t, domain.Credential{SecretKey: "as_live_env"}, got)
	require.Equal(t, domain.CredentialSourceEnvironment, store.Source())

	stored, ok := store.Stored()
	require.True(t, ok)
	require.Equal(t, "as_live_file", stored.SecretKey)
}

func TestStore_BlankOverrideIgnored(t *testing.T) {
	store, _ := newTestStore(t, "  ")
	_, ok := store.Resolve()
	require.False(t, ok)
}

func TestStore_EraseAfterPersist(t *testing.T) {
	store, path := newTestStore(t, "")
	require.NoError(t, store.Persist(domain.Credential{SecretKey: "as_live_abc"}))

	removed, err := store.Erase()
	require.NoError(t, err)
	require.True(t, removed)

	_, ok := store.Resolve()
	require.False(t, ok)
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_EraseNothingPersisted(t *testing.T) {
	store, _ := newTestStore(t, "")
	removed, err := store.Erase()
	require.NoError(t, err)
	require.False(t, removed)
}

func TestStore_EraseKeepsFileWhenOverrideActive(t *testing.T) {
	fileStore, path := newTestStore(t, "")
	require.NoError(t, fileStore.Persist(domain.Credential{SecretKey: "as_live_file"}))

	envStore := NewStore(Options{Path: path, EnvKey: "as_live_env"}, nil)
	removed, err := envStore.Erase()
	require.NoError(t, err)
	require.False(t, removed)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
