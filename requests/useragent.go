package requests

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/goccy/go-json"
)

// Browser names a family in the User-Agent table.
type Browser string

const (
	BrowserChrome           Browser = "chrome"
	BrowserOpera            Browser = "opera"
	BrowserFirefox          Browser = "firefox"
	BrowserSafari           Browser = "safari"
	BrowserInternetExplorer Browser = "internetexplorer"
)

// ErrUnknownBrowser is returned for a browser missing from the table.
var ErrUnknownBrowser = errors.New("unknown browser")

//go:embed fake_user_agent.json
var fakeUserAgentJSON []byte

// userAgentTable is the decoded fake_user_agent.json.
type userAgentTable struct {
	Browsers map[Browser][]string `json:"browsers"`
	// Randomize lists browser names, repeated to weight how often each
	// family is picked when no browser is requested.
	Randomize map[string]Browser `json:"randomize"`
}

var (
	uaOnce  sync.Once
	uaTable userAgentTable
	uaPool  []Browser
	uaErr   error
)

func userAgents() (*userAgentTable, []Browser, error) {
	uaOnce.Do(func() {
		if err := json.Unmarshal(fakeUserAgentJSON, &uaTable); err != nil {
			uaErr = fmt.Errorf("failed to decode user agent table: %w", err)
			return
		}
		for _, b := range uaTable.Randomize {
			uaPool = append(uaPool, b)
		}
		slices.Sort(uaPool)
	})
	return &uaTable, uaPool, uaErr
}

// FakeUserAgent returns a random User-Agent string for browser, or for a
// weighted-random browser when browser is empty.
func FakeUserAgent(browser Browser) (string, error) {
	table, pool, err := userAgents()
	if err != nil {
		return "", err
	}

	if browser == "" {
		if len(pool) == 0 {
			return "", fmt.Errorf("%w: user agent table has no browsers", ErrUnknownBrowser)
		}
		browser = pool[rand.IntN(len(pool))]
	}

	agents := table.Browsers[browser]
	if len(agents) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownBrowser, browser)
	}
	return agents[rand.IntN(len(agents))], nil
}

// Browsers lists the browsers FakeUserAgent knows, sorted.
func Browsers() []Browser {
	table, _, err := userAgents()
	if err != nil {
		return nil
	}
	out := make([]Browser, 0, len(table.Browsers))
	for b := range table.Browsers {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}
