// Package oidc is the optional Keycloak login for the back office: the realm's token
// endpoint plus ID-token verification.
package oidc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/ranwtech/site/pkg/middleware"
)

// Verifier checks ID tokens against the realm's published signing keys.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier runs discovery against issuer using client for the HTTP calls.
func NewVerifier(ctx context.Context, client *http.Client, issuer, clientID string) (*Verifier, error) {
	if client != nil {
		ctx = oidc.ClientContext(ctx, client)
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", issuer, err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	tok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return tok, nil
}
