package flickr

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/signature"
	"github.com/bcnelson/flickrkit/internal/validation"
)

// AuthGetFrob requests a frob for the desktop handshake. The session token
// is not changed.
func (c *Client) AuthGetFrob(ctx context.Context) (string, error) {
	frob, err := invoke[domain.Frob](ctx, c, "flickr.auth.getFrob", nil, true)
	if err != nil {
		return "", err
	}
	return frob.Value, nil
}

// AuthCalcURL returns the URL the user visits to grant perm for frob. The
// signature covers api_key, frob and perms in that order.
func (c *Client) AuthCalcURL(frob string, perm domain.Permission) (string, error) {
	if err := c.requireSigning(); err != nil {
		return "", err
	}
	if err := validation.ValidateFrob(frob); err != nil {
		return "", err
	}
	args := signature.Params{}.
		Add("frob", frob).
		Add("perms", perm.String())
	return c.loginURL(c.authURL, args)
}

// AuthCalcWebURL returns the web login URL for perm. The remote service
// redirects to the application's callback with a frob once the user agrees.
func (c *Client) AuthCalcWebURL(perm domain.Permission) (string, error) {
	if err := c.requireSigning(); err != nil {
		return "", err
	}
	return c.loginURL(c.authURL, signature.Params{}.Add("perms", perm.String()))
}

// AuthCalcMobileURL is AuthCalcWebURL against the mobile host.
func (c *Client) AuthCalcMobileURL(perm domain.Permission) (string, error) {
	if err := c.requireSigning(); err != nil {
		return "", err
	}
	base, err := mobileURL(c.authURL)
	if err != nil {
		return "", err
	}
	return c.loginURL(base, signature.Params{}.Add("perms", perm.String()))
}

// AuthGetToken exchanges a frob for a token and makes it the session token.
func (c *Client) AuthGetToken(ctx context.Context, frob string) (*domain.Auth, error) {
	auth, err := invoke[domain.Auth](ctx, c, "flickr.auth.getToken",
		signature.Params{}.Add("frob", frob), true)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return auth, nil
}

// AuthCheckToken returns the auth details of token. The session token is
// not changed.
func (c *Client) AuthCheckToken(ctx context.Context, token string) (*domain.Auth, error) {
	return invoke[domain.Auth](ctx, c, "flickr.auth.checkToken",
		signature.Params{}.Add("auth_token", token), true)
}

// AuthGetFullToken exchanges a mini token such as "123-456-789" for a full
// token and makes it the session token.
func (c *Client) AuthGetFullToken(ctx context.Context, miniToken string) (*domain.Auth, error) {
	if err := validation.ValidateMiniToken(miniToken); err != nil {
		return nil, err
	}
	auth, err := invoke[domain.Auth](ctx, c, "flickr.auth.getFullToken",
		signature.Params{}.Add("mini_token", validation.NormalizeMiniToken(miniToken)), true)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return auth, nil
}

func (c *Client) requireSigning() error {
	if c.creds.APIKey() == "" {
		return domain.ErrAPIKeyMissing
	}
	if !c.creds.CanSign() {
		return domain.ErrSignatureUnavailable
	}
	return nil
}

// loginURL renders base?api_key=..&<args>&api_sig=.. with args in order.
func (c *Client) loginURL(base string, args signature.Params) (string, error) {
	sig, err := signature.Sign(c.creds.SharedSecret(), c.creds.APIKey(), args)
	if err != nil {
		return "", err
	}
	query := signature.Params{{Key: "api_key", Value: c.creds.APIKey()}}
	query = append(query, args...)
	query = query.Add("api_sig", sig)
	return base + "?" + query.Encode(), nil
}

// mobileURL swaps a leading "www." in the host of base for "m.".
func mobileURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: auth url %q: %v", domain.ErrInvalidInput, base, err)
	}
	if host, ok := strings.CutPrefix(u.Host, "www."); ok {
		u.Host = "m." + host
	}
	return u.String(), nil
}
