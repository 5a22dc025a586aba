package confluence

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when Confluence answers 404.
var ErrNotFound = errors.New("confluence: not found")

// BaseURL builds the address of a Confluence site from an organisation name.
// A name containing a dot is a host name of its own; anything else is an
// Atlassian cloud site.
func BaseURL(orgName string, useSSL bool) string {
	var u string
	if strings.Contains(orgName, ".") {
		u = "https://" + orgName
	} else {
		u = fmt.Sprintf("https://%s.atlassian.net/wiki", orgName)
	}
	if !useSSL {
		u = "http://" + strings.TrimPrefix(u, "https://")
	}
	return u
}

func NewAPI(orgName string, useSSL bool, spaceKey string, username string, token string) (*API, error) {
	if orgName == "" {
		return &API{}, fmt.Errorf("confluence: configure your Confluence organisation name with --orgname")
	}
	if username == "" && token == "" {
		return &API{}, fmt.Errorf("confluence: configure your Confluence username with --auth-username")
	}
	if token == "" {
		return &API{}, fmt.Errorf("confluence: API key is empty, set --api-key or --auth-token-cmd")
	}

	// The trailing slash lets endpoints resolve below the site path.
	u, err := url.ParseRequestURI(BaseURL(orgName, useSSL) + "/")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI:  u,
		SpaceKey: spaceKey,
		Retries:  5,
		token:    token,
		username: username,
		limiter:  rate.NewLimiter(rate.Limit(10), 5),
	}
	a.Client = &http.Client{Timeout: 60 * time.Second}

	return a, nil
}

type API struct {
	// Site root, e.g. https://ORG.atlassian.net/wiki/
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Space that pages are looked up in and created in.
	SpaceKey string

	// How often idempotent requests are retried on 429 and 5xx answers.
	Retries int

	Logger *log.Logger

	// Auth info
	username, token string

	limiter *rate.Limiter

	restOnce sync.Once
	rest     *resty.Client

	spaceMu sync.Mutex
	space   *Space
}

// URL is the site root without trailing slash, as used in page links.
func (api *API) URL() string {
	return strings.TrimSuffix(api.BaseURI.String(), "/")
}

func (api *API) logger() *log.Logger {
	if api.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return api.Logger
}
