package oauth

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
)

const ProviderGitHub = "github"

type GitHub struct {
	base
}

func NewGitHub(clientID, clientSecret, callbackURL string, opts ...Option) *GitHub {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Scopes:       []string{"user:email"},
		Endpoint:     github.Endpoint,
	}
	return &GitHub{base: newBase(cfg, "https://api.github.com", opts)}
}

func (g *GitHub) Name() string { return ProviderGitHub }

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) FetchProfile(ctx context.Context, code string) (*entity.Profile, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	client, err := g.client(ctx, code)
	if err != nil {
		return nil, err
	}

	var u githubUser
	if err := getJSON(ctx, client, g.apiURL+"/user", &u); err != nil {
		return nil, fmt.Errorf("github user: %w", err)
	}

	p := &entity.Profile{
		Provider:       ProviderGitHub,
		ProviderUserID: strconv.FormatInt(u.ID, 10),
		DisplayName:    u.Name,
		Username:       u.Login,
	}
	if u.AvatarURL != "" {
		p.Photos = []entity.ProfilePhoto{{Value: u.AvatarURL}}
	}

	var emails []githubEmail
	if err := getJSON(ctx, client, g.apiURL+"/user/emails", &emails); err != nil {
		if !isAccessDenied(err) {
			return nil, fmt.Errorf("github emails: %w", err)
		}
		// Scope not granted: only the public address is known, and GitHub
		// shows it publicly only once verified.
		if u.Email != "" {
			p.Emails = []entity.ProfileEmail{{Value: u.Email, Primary: true, Verified: true}}
		}
		return p, nil
	}
	p.Emails = orderGitHubEmails(emails)
	return p, nil
}

// orderGitHubEmails keeps verified addresses only, primary first.
func orderGitHubEmails(in []githubEmail) []entity.ProfileEmail {
	out := make([]entity.ProfileEmail, 0, len(in))
	for _, e := range in {
		if e.Verified && e.Primary && e.Email != "" {
			out = append(out, entity.ProfileEmail{Value: e.Email, Primary: true, Verified: true})
		}
	}
	for _, e := range in {
		if e.Verified && !e.Primary && e.Email != "" {
			out = append(out, entity.ProfileEmail{Value: e.Email, Verified: true})
		}
	}
	return out
}
