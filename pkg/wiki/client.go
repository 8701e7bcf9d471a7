// Package wiki implements the external fallback search the caller invokes
// when catalog resolution yields no match: given a query, return a short
// text summary and a link. It speaks the MediaWiki query API in three
// flavors — a self-hosted MediaWiki site, a Fandom wiki, and Wikipedia —
// and never returns binary content.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guildhall/lorepack/pkg/errors"
)

// Mode selects which API flavor the client speaks.
type Mode string

const (
	// ModeMediaWiki targets a self-hosted MediaWiki site.
	ModeMediaWiki Mode = "mediawiki"
	// ModeFandom targets a fandom.com wiki.
	ModeFandom Mode = "fandom"
	// ModeWikipedia targets wikipedia.org.
	ModeWikipedia Mode = "wikipedia"
)

const (
	// summaryLimit caps returned summaries, in runes.
	summaryLimit = 900

	defaultHost    = "dwarffortresswiki.org"
	defaultLang    = "en"
	defaultTimeout = 10 * time.Second
)

// Config holds the client configuration.
type Config struct {
	// Mode selects the API flavor; empty means ModeMediaWiki.
	Mode Mode

	// Lang is the Wikipedia language subdomain (wikipedia mode only).
	Lang string

	// FandomSite is the fandom.com subdomain (fandom mode only).
	FandomSite string

	// Host is the MediaWiki host (mediawiki mode only).
	Host string

	// PathPrefix is an optional path under Host where the wiki lives,
	// e.g. "w" for sites serving api.php at /w/api.php.
	PathPrefix string

	// PlainHTTP disables TLS for mediawiki mode.
	PlainHTTP bool

	// BaseURL overrides the derived api.php endpoint; page links are
	// still built from the mode settings. Used by tests.
	BaseURL string

	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
}

// Result is one search hit: a page title, its canonical URL, the search
// snippet, and (when fetched) the intro summary.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Summary string
}

// Client is a MediaWiki-compatible search client.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client, filling config defaults.
func New(cfg Config) *Client {
	if cfg.Mode == "" {
		cfg.Mode = ModeMediaWiki
	}
	if cfg.Lang == "" {
		cfg.Lang = defaultLang
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	cfg.PathPrefix = strings.Trim(cfg.PathPrefix, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Search runs a full-text search and returns up to limit results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 3
	}

	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
		"format":   {"json"},
	}

	var decoded struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &decoded); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(decoded.Query.Search))
	for _, hit := range decoded.Query.Search {
		results = append(results, Result{
			Title:   hit.Title,
			URL:     c.pageURL(hit.Title),
			Snippet: hit.Snippet,
		})
	}
	return results, nil
}

// PageSummary fetches the plain-text intro of a page, truncated to the
// summary limit, plus the page's canonical URL.
func (c *Client) PageSummary(ctx context.Context, title string) (string, string, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"titles":      {title},
		"format":      {"json"},
	}

	var decoded struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &decoded); err != nil {
		return "", c.pageURL(title), err
	}

	for _, page := range decoded.Query.Pages {
		return truncate(strings.TrimSpace(page.Extract)), c.pageURL(title), nil
	}
	return "", c.pageURL(title), nil
}

// get performs one API call and decodes the JSON response.
func (c *Client) get(ctx context.Context, params url.Values, into any) error {
	endpoint := c.apiURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapSource(c.site(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.NewSourceError(c.site(), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapSource(c.site(), err)
	}
	return errors.WrapParse("json", c.site(), json.Unmarshal(body, into))
}

// apiURL returns the api.php endpoint for the configured mode.
func (c *Client) apiURL() string {
	if c.cfg.BaseURL != "" {
		return strings.TrimSuffix(c.cfg.BaseURL, "/")
	}
	switch c.cfg.Mode {
	case ModeWikipedia:
		return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", c.cfg.Lang)
	case ModeFandom:
		return fmt.Sprintf("https://%s/api.php", c.fandomHost())
	default:
		return fmt.Sprintf("%s://%s/%sapi.php", c.scheme(), c.cfg.Host, c.prefix())
	}
}

// pageURL builds the canonical link for a page title.
func (c *Client) pageURL(title string) string {
	escaped := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	switch c.cfg.Mode {
	case ModeWikipedia:
		return fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", c.cfg.Lang, escaped)
	case ModeFandom:
		return fmt.Sprintf("https://%s/wiki/%s", c.fandomHost(), escaped)
	default:
		return fmt.Sprintf("%s://%s/%sindex.php/%s", c.scheme(), c.cfg.Host, c.prefix(), escaped)
	}
}

// site names the target in errors.
func (c *Client) site() string {
	switch c.cfg.Mode {
	case ModeWikipedia:
		return c.cfg.Lang + ".wikipedia.org"
	case ModeFandom:
		return c.fandomHost()
	default:
		return c.cfg.Host
	}
}

func (c *Client) fandomHost() string {
	sub := c.cfg.FandomSite
	if sub == "" {
		sub = "www"
	}
	return sub + ".fandom.com"
}

func (c *Client) scheme() string {
	if c.cfg.PlainHTTP {
		return "http"
	}
	return "https"
}

func (c *Client) prefix() string {
	if c.cfg.PathPrefix == "" {
		return ""
	}
	return c.cfg.PathPrefix + "/"
}

// truncate caps a summary at the rune limit.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryLimit {
		return s
	}
	return string(runes[:summaryLimit])
}
