package api

import (
	"context"
	"net/http"
)

// CurrentUser fetches the authenticated user's profile. The call is bounded
// by the client's request timeout so a stalled backend cannot hang a UI
// waiting on its own identity.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var user User
	if err := c.authedJSON(ctx, http.MethodGet, "/api/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateTechnologies replaces the profile's technology list.
func (c *Client) UpdateTechnologies(ctx context.Context, technologies []string) error {
	body := struct {
		Technologies []string `json:"technologies"`
	}{Technologies: technologies}
	return c.authedJSON(ctx, http.MethodPut, "/api/user/technologies", body, nil)
}

// UpdateProfession sets the profile's professional title.
func (c *Client) UpdateProfession(ctx context.Context, profession string) error {
	body := struct {
		Profession string `json:"profession"`
	}{Profession: profession}
	return c.authedJSON(ctx, http.MethodPut, "/api/user/profession", body, nil)
}

// UpdateSocialLinks replaces the profile's external links.
func (c *Client) UpdateSocialLinks(ctx context.Context, links SocialLinks) error {
	return c.authedJSON(ctx, http.MethodPut, "/api/user/social-links", links, nil)
}
