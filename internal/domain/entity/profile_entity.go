package entity

// ProfileEmail is one address reported by an identity provider.
type ProfileEmail struct {
	Value    string
	Primary  bool
	Verified bool
}

// ProfilePhoto is one picture URL reported by an identity provider.
type ProfilePhoto struct {
	Value string
}

// Profile is the provider-neutral shape every OAuth adapter produces.
// Adapters order Emails so the preferred address comes first.
type Profile struct {
	Provider       string
	ProviderUserID string
	DisplayName    string
	Username       string
	Emails         []ProfileEmail
	Photos         []ProfilePhoto
}

// PrimaryEmail returns the first email, or "" if none was shared.
func (p *Profile) PrimaryEmail() string {
	if p == nil || len(p.Emails) == 0 {
		return ""
	}
	return p.Emails[0].Value
}

// Name prefers the display name over the username.
func (p *Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}

// PhotoURL returns the first photo, or "".
func (p *Profile) PhotoURL() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0].Value
}
