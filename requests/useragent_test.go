package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeUserAgent(t *testing.T) {
	table, pool, err := userAgents()
	require.NoError(t, err)
	require.NotEmpty(t, pool)

	for _, b := range Browsers() {
		ua, err := FakeUserAgent(b)
		require.NoError(t, err)
		assert.Contains(t, table.Browsers[b], ua)
	}

	ua, err := FakeUserAgent("")
	require.NoError(t, err)
	assert.NotEmpty(t, ua)

	_, err = FakeUserAgent("netscape")
	assert.ErrorIs(t, err, ErrUnknownBrowser)
}

func TestBrowsers(t *testing.T) {
	assert.Equal(t, []Browser{
		BrowserChrome,
		BrowserFirefox,
		BrowserInternetExplorer,
		BrowserOpera,
		BrowserSafari,
	}, Browsers())
}

func TestRandomizeReferencesKnownBrowsers(t *testing.T) {
	table, pool, err := userAgents()
	require.NoError(t, err)
	for _, b := range pool {
		assert.NotEmpty(t, table.Browsers[b], "randomize names %q", b)
	}
}
