package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"github.com/inboop/inboop_server/config"
)

const defaultGraphBaseURL = "https://graph.facebook.com"

// MetaPage is a Facebook page the user manages, with its linked Instagram
// business account when one exists.
type MetaPage struct {
	ID                       string            `json:"id"`
	Name                     string            `json:"name"`
	AccessToken              string            `json:"access_token"`
	InstagramBusinessAccount *InstagramAccount `json:"instagram_business_account,omitempty"`
}

type InstagramAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type MetaOAuth struct {
	config       *oauth2.Config
	configID     string
	graphVersion string
	graphBaseURL string
}

func NewMetaOAuth(cfg config.MetaOAuthConfig) *MetaOAuth {
	endpoint := facebook.Endpoint
	if cfg.GraphVersion != "" {
		endpoint = oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("https://www.facebook.com/%s/dialog/oauth", cfg.GraphVersion),
			TokenURL: fmt.Sprintf("%s/%s/oauth/access_token", defaultGraphBaseURL, cfg.GraphVersion),
		}
	}

	return &MetaOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		configID:     cfg.ConfigID,
		graphVersion: cfg.GraphVersion,
		graphBaseURL: defaultGraphBaseURL,
	}
}

// WithGraphBaseURL points Graph API and token calls at another host.
func (m *MetaOAuth) WithGraphBaseURL(base string) *MetaOAuth {
	m.graphBaseURL = base
	m.config.Endpoint.TokenURL = fmt.Sprintf("%s/%s/oauth/access_token", base, m.graphVersion)
	return m
}

// GetAuthURL builds the Facebook Login for Business dialog URL. Declined
// permissions are asked for again on reconnect.
func (m *MetaOAuth) GetAuthURL(state string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("auth_type", "rerequest"),
		oauth2.SetAuthURLParam("override_default_response_type", "true"),
	}
	if m.configID != "" {
		opts = append(opts, oauth2.SetAuthURLParam("config_id", m.configID))
	}
	return m.config.AuthCodeURL(state, opts...)
}

func (m *MetaOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return m.config.Exchange(ctx, code)
}

func (m *MetaOAuth) ListPages(ctx context.Context, token *oauth2.Token) ([]MetaPage, error) {
	var body struct {
		Data []MetaPage `json:"data"`
	}
	params := url.Values{"fields": {"id,name,access_token,instagram_business_account{id,username}"}}
	if err := m.get(ctx, token, "/me/accounts", params, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

func (m *MetaOAuth) get(ctx context.Context, token *oauth2.Token, path string, params url.Values, out interface{}) error {
	client := m.config.Client(ctx, token)

	u := fmt.Sprintf("%s/%s%s?%s", m.graphBaseURL, m.graphVersion, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("graph request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph api error on %s: %s", path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
