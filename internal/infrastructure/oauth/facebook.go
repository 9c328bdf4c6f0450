package oauth

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
)

const ProviderFacebook = "facebook"

type Facebook struct {
	base
}

func NewFacebook(appID, appSecret, callbackURL string, opts ...Option) *Facebook {
	cfg := &oauth2.Config{
		ClientID:     appID,
		ClientSecret: appSecret,
		RedirectURL:  callbackURL,
		Scopes:       []string{"email"},
		Endpoint:     facebook.Endpoint,
	}
	return &Facebook{base: newBase(cfg, "https://graph.facebook.com/v19.0", opts)}
}

func (f *Facebook) Name() string { return ProviderFacebook }

type facebookUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// FetchProfile asks the Graph API for id, name, email and picture. The
// email is absent when the user declined the scope or has none confirmed.
func (f *Facebook) FetchProfile(ctx context.Context, code string) (*entity.Profile, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	client, err := f.client(ctx, code)
	if err != nil {
		return nil, err
	}

	q := url.Values{"fields": {"id,name,email,picture.type(large)"}}
	var u facebookUser
	if err := getJSON(ctx, client, f.apiURL+"/me?"+q.Encode(), &u); err != nil {
		return nil, fmt.Errorf("facebook me: %w", err)
	}

	p := &entity.Profile{
		Provider:       ProviderFacebook,
		ProviderUserID: u.ID,
		DisplayName:    u.Name,
	}
	if u.Email != "" {
		p.Emails = []entity.ProfileEmail{{Value: u.Email, Primary: true, Verified: true}}
	}
	if u.Picture.Data.URL != "" {
		p.Photos = []entity.ProfilePhoto{{Value: u.Picture.Data.URL}}
	}
	return p, nil
}
