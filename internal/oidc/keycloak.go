package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ranwtech/site/internal/config"
	"github.com/ranwtech/site/pkg/logger"
	"github.com/ranwtech/site/pkg/middleware"
)

// ErrNotConfigured is returned when KEYCLOAK_URL or KEYCLOAK_REALM is unset.
var ErrNotConfigured = errors.New("keycloak not configured")

// TokenResponse is the subset of the token endpoint reply we use.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

// Keycloak talks to a realm's token endpoint and verifies the returned ID tokens.
type Keycloak struct {
	cfg           config.KeycloakConfig
	allowInsecure bool
	httpClient    *http.Client

	mu  sync.Mutex
	ver *Verifier
}

func NewKeycloak(cfg config.KeycloakConfig, allowInsecure bool) *Keycloak {
	return &Keycloak{cfg: cfg, allowInsecure: allowInsecure, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

func (k *Keycloak) Configured() bool {
	return k != nil && k.cfg.URL != "" && k.cfg.Realm != ""
}

func (k *Keycloak) Issuer() string {
	return strings.TrimRight(k.cfg.URL, "/") + "/realms/" + k.cfg.Realm
}

func (k *Keycloak) tokenURL() string {
	return k.Issuer() + "/protocol/openid-connect/token"
}

// PasswordGrant exchanges admin credentials for tokens.
func (k *Keycloak) PasswordGrant(ctx context.Context, username, password string) (*TokenResponse, error) {
	if !k.Configured() {
		return nil, ErrNotConfigured
	}
	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {k.cfg.ClientID},
		"client_secret": {k.cfg.ClientSecret},
		"username":      {username},
		"password":      {password},
		"scope":         {"openid email profile"},
	}
	resp, err := k.post(ctx, form, false)
	if err != nil {
		return nil, err
	}
	return decodeToken(resp)
}

// ExchangeCode redeems an authorization code. A 401 with the secret in the form body is
// retried once with HTTP Basic client auth; a "Code not valid" reply is retried once.
func (k *Keycloak) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	if !k.Configured() {
		return nil, ErrNotConfigured
	}
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {k.cfg.ClientID},
		"client_secret": {k.cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	}
	logger.Debugf("keycloak code exchange: code length=%d redirect_uri=%s", len(code), redirectURI)
	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		resp, err := k.post(ctx, form, false)
		if err == nil && resp.StatusCode == http.StatusUnauthorized && k.cfg.ClientSecret != "" {
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			logger.Warnf("keycloak code exchange returned 401 (%s); retrying with basic auth", strings.TrimSpace(string(body)))
			resp, err = k.post(ctx, form, true)
		}
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusBadRequest && attempt == 1 {
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if strings.Contains(string(body), "Code not valid") {
				lastErr = fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
				time.Sleep(150 * time.Millisecond)
				continue
			}
			return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
		}
		return decodeToken(resp)
	}
	return nil, fmt.Errorf("token exchange failed after retries: %w", lastErr)
}

func (k *Keycloak) post(ctx context.Context, form url.Values, basic bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if basic {
		req.SetBasicAuth(k.cfg.ClientID, k.cfg.ClientSecret)
	}
	return k.httpClient.Do(req)
}

func decodeToken(resp *http.Response) (*TokenResponse, error) {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(b))
	}
	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	if tr.IDToken == "" {
		return nil, errors.New("token endpoint returned no id_token")
	}
	return &tr, nil
}

// verifier runs discovery once and caches the result; failures are retried on the
// next login.
func (k *Keycloak) verifier(ctx context.Context) (*Verifier, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.ver != nil {
		return k.ver, nil
	}
	v, err := NewVerifier(ctx, k.httpClient, k.Issuer(), k.cfg.ClientID)
	if err != nil {
		return nil, err
	}
	k.ver = v
	return v, nil
}

// Claims verifies idToken against the realm and returns its claims. When discovery
// fails and insecure tokens are allowed, the payload is decoded unverified.
func (k *Keycloak) Claims(ctx context.Context, idToken string) (map[string]interface{}, error) {
	var ver middleware.Verifier
	v, err := k.verifier(ctx)
	switch {
	case err == nil:
		ver = v
	case k.allowInsecure:
		logger.Warnf("OIDC discovery failed (%v); decoding id_token without verification", err)
		ver = NewInsecureVerifier()
	default:
		return nil, err
	}
	tok, err := ver.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		return nil, err
	}
	return claims, nil
}
