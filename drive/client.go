package drive

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Drive API client for the backup document. The
// token source refreshes the access token silently when a refresh token
// is present.
type Client struct {
	service     *drive.Service
	tokenSource oauth2.TokenSource
}

type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewClient creates a Drive client from an already-obtained OAuth token.
// The consent flow itself happens outside this process.
func NewClient(ctx context.Context, creds Credentials, token *oauth2.Token) (*Client, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURL,
		Scopes:       []string{drive.DriveFileScope},
		Endpoint:     google.Endpoint,
	}

	tokenSource := oauthConfig.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return &Client{
		service:     srv,
		tokenSource: tokenSource,
	}, nil
}

// CurrentToken returns the current (possibly refreshed) OAuth token.
func (c *Client) CurrentToken() (*oauth2.Token, error) {
	return c.tokenSource.Token()
}

// Service returns the underlying Drive service.
func (c *Client) Service() *drive.Service {
	return c.service
}
