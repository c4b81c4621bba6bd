package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookieDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cookies-linkedin.json"), []byte(`[
		{"name":"li_at","value":"abc","domain":".linkedin.com","path":"/","expires":1900000000,"httpOnly":true,"secure":true,"sameSite":"None"},
		{"name":"","value":"skipped","domain":".linkedin.com"}
	]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cookies-indeed.json"), []byte(`[
		{"name":"CTK","value":"xyz","domain":".indeed.com","sameSite":"Lax"}
	]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`not cookies`), 0o644))

	cookies, err := LoadCookieDir(dir)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	// files are read in name order
	assert.Equal(t, "CTK", cookies[0].Name)
	assert.Equal(t, "/", *cookies[0].Path)
	assert.Equal(t, playwright.SameSiteAttributeLax, cookies[0].SameSite)
	assert.Nil(t, cookies[0].Expires)

	assert.Equal(t, "li_at", cookies[1].Name)
	assert.Equal(t, ".linkedin.com", *cookies[1].Domain)
	assert.True(t, *cookies[1].HttpOnly)
	assert.True(t, *cookies[1].Secure)
	assert.Equal(t, playwright.SameSiteAttributeNone, cookies[1].SameSite)
}

func TestLoadCookieDir_MissingDir(t *testing.T) {
	cookies, err := LoadCookieDir(filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestLoadCookieDir_BadFileStillReturnsOthers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cookies-a.json"), []byte(`{broken`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cookies-b.json"), []byte(`[{"name":"n","value":"v","domain":"d"}]`), 0o644))

	cookies, err := LoadCookieDir(dir)
	assert.Error(t, err)
	assert.Len(t, cookies, 1)
}
