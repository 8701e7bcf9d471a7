package wiki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWiki serves the two MediaWiki API shapes the client speaks.
func fakeWiki(t *testing.T, extract string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "query", q.Get("action"))
		require.Equal(t, "json", q.Get("format"))

		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("list") == "search":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"query": map[string]any{
					"search": []map[string]any{
						{"title": "Anvil", "snippet": "An <b>anvil</b> is required..."},
						{"title": "Forge", "snippet": "A forge turns bars..."},
					},
				},
			})
		case q.Get("prop") == "extracts":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"query": map[string]any{
					"pages": map[string]any{
						"42": map[string]any{"extract": extract},
					},
				},
			})
		default:
			http.Error(w, "unexpected request", http.StatusBadRequest)
		}
	}))
}

func TestClientSearch(t *testing.T) {
	srv := fakeWiki(t, "")
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Host: "df.example.org"})
	hits, err := c.Search(context.Background(), "anvil", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "Anvil", hits[0].Title)
	assert.Equal(t, "https://df.example.org/index.php/Anvil", hits[0].URL)
	assert.Contains(t, hits[0].Snippet, "anvil")
}

func TestClientPageSummary(t *testing.T) {
	srv := fakeWiki(t, "  An anvil is required before a forge can take work orders.  ")
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Host: "df.example.org"})
	summary, pageURL, err := c.PageSummary(context.Background(), "Anvil")
	require.NoError(t, err)
	assert.Equal(t, "An anvil is required before a forge can take work orders.", summary)
	assert.Equal(t, "https://df.example.org/index.php/Anvil", pageURL)
}

func TestClientSummaryTruncated(t *testing.T) {
	long := strings.Repeat("岩", summaryLimit+100)
	srv := fakeWiki(t, long)
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	summary, _, err := c.PageSummary(context.Background(), "Anvil")
	require.NoError(t, err)
	assert.Equal(t, summaryLimit, len([]rune(summary)), "summary must be capped in runes, not bytes")
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), "anvil", 1)
	assert.Error(t, err)
}

func TestClientContextCanceled(t *testing.T) {
	srv := fakeWiki(t, "")
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.Search(ctx, "anvil", 1)
	assert.Error(t, err)
}

func TestPageURLByMode(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		title string
		want  string
	}{
		{
			name:  "mediawiki default host",
			cfg:   Config{},
			title: "Water skin",
			want:  "https://dwarffortresswiki.org/index.php/Water_skin",
		},
		{
			name:  "mediawiki with path prefix",
			cfg:   Config{Host: "wiki.example.org", PathPrefix: "/w/"},
			title: "Anvil",
			want:  "https://wiki.example.org/w/index.php/Anvil",
		},
		{
			name:  "plain http",
			cfg:   Config{Host: "localhost:8080", PlainHTTP: true},
			title: "Anvil",
			want:  "http://localhost:8080/index.php/Anvil",
		},
		{
			name:  "wikipedia",
			cfg:   Config{Mode: ModeWikipedia, Lang: "de"},
			title: "Amboss",
			want:  "https://de.wikipedia.org/wiki/Amboss",
		},
		{
			name:  "fandom",
			cfg:   Config{Mode: ModeFandom, FandomSite: "dwarffortress"},
			title: "Anvil",
			want:  "https://dwarffortress.fandom.com/wiki/Anvil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.cfg)
			assert.Equal(t, tt.want, c.pageURL(tt.title))
		})
	}
}

func TestAPIURLByMode(t *testing.T) {
	assert.Equal(t, "https://en.wikipedia.org/w/api.php",
		New(Config{Mode: ModeWikipedia}).apiURL())
	assert.Equal(t, "https://dwarffortress.fandom.com/api.php",
		New(Config{Mode: ModeFandom, FandomSite: "dwarffortress"}).apiURL())
	assert.Equal(t, "https://dwarffortresswiki.org/api.php",
		New(Config{}).apiURL())
}
