package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/oauth2"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
)

// Provider is one identity provider's authorization-code flow. FetchProfile
// exchanges the code and returns a normalized profile whose preferred email
// comes first.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*entity.Profile, error)
}

// Option adjusts a provider; tests use it to point at fake servers.
type Option func(*base)

func WithEndpoint(ep oauth2.Endpoint) Option { return func(b *base) { b.cfg.Endpoint = ep } }
func WithAPIURL(u string) Option             { return func(b *base) { b.apiURL = u } }
func WithHTTPTimeout(d time.Duration) Option { return func(b *base) { b.timeout = d } }

type base struct {
	cfg     *oauth2.Config
	apiURL  string
	timeout time.Duration
}

func newBase(cfg *oauth2.Config, apiURL string, opts []Option) base {
	b := base{cfg: cfg, apiURL: apiURL, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) AuthCodeURL(state string) string {
	return b.cfg.AuthCodeURL(state)
}

// withTimeout bounds the whole exchange plus profile calls. The client
// built by oauth2.Config.Client does not keep the exchange client's Timeout.
func (b *base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

// client exchanges code for a token and returns a client that sends it.
func (b *base) client(ctx context.Context, code string) (*http.Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: b.timeout})
	tok, err := b.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return b.cfg.Client(ctx, tok), nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return &StatusError{URL: url, Code: res.StatusCode}
	}
	return json.NewDecoder(res.Body).Decode(dst)
}

// StatusError is a provider API answer other than 200.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// isAccessDenied reports whether err is the API refusing the resource,
// e.g. because the user did not grant the scope.
func isAccessDenied(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusForbidden || se.Code == http.StatusNotFound
}

// Registry holds the configured providers by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
