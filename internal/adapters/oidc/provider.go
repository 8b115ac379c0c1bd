package oidc

// Package oidc provides the OIDC/OAuth authentication adapter for the
// shopfront system. It maps provider claims, including the role and
// customer-id metadata, into the domain Identity.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
	"github.com/target/shopfront-ui-api/internal/ports"
	"golang.org/x/oauth2"
)

// Provider implements the AuthProvider interface using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	logoutURL  string
	httpClient *http.Client
	roles      ports.RoleMapper

	// claim expressions (JMESPath) for role and customer-id metadata
	roleExpr        string
	customerIDsExpr string

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string

	// RoleClaim and CustomerIDsClaim are JMESPath expressions evaluated
	// against the ID token claims. Defaults: "role" and "customerids".
	RoleClaim        string
	CustomerIDsClaim string

	Roles      ports.RoleMapper
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}
	if config.Roles == nil {
		return nil, errors.New("role mapper is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	roleExpr := config.RoleClaim
	if roleExpr == "" {
		roleExpr = "role"
	}
	idsExpr := config.CustomerIDsClaim
	if idsExpr == "" {
		idsExpr = "customerids"
	}
	// Validate expressions up front so a config typo fails at startup,
	// not on the first login.
	if _, err := jmespath.Compile(roleExpr); err != nil {
		return nil, fmt.Errorf("compile role claim expression: %w", err)
	}
	if _, err := jmespath.Compile(idsExpr); err != nil {
		return nil, fmt.Errorf("compile customer ids claim expression: %w", err)
	}

	p := &Provider{
		logoutURL:       config.LogoutURL,
		httpClient:      httpClient,
		roles:           config.Roles,
		roleExpr:        roleExpr,
		customerIDsExpr: idsExpr,
	}

	// Initialize go-oidc provider and verifier (single discovery fetch)
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	endpoint := op.Endpoint()
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(config.Scope),
		Endpoint:     endpoint,
	}

	return p, nil
}

// Begin returns the provider auth URL plus cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := randomURLSafeString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomURLSafeString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
	)

	return authURL, state, nonce, nil
}

// Exchange completes the code exchange and maps verified claims into an Identity.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, err := idTokenFromToken(token)
	if err != nil {
		return domainauth.Identity{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != in.Nonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}

	var claims map[string]any
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	identity := p.mapClaims(claims)
	identity.ExpiresAt = expiresAt
	return identity, nil
}

// mapClaims maps raw ID token claims into an Identity. Missing or malformed
// role/customer metadata yields RoleNone and no customer ids: the identity
// fails closed instead of erroring the login.
func (p *Provider) mapClaims(claims map[string]any) domainauth.Identity {
	return domainauth.Identity{
		UserID:      stringClaim(claims, "sub"),
		FirstName:   stringClaim(claims, "given_name"),
		LastName:    stringClaim(claims, "family_name"),
		Email:       stringClaim(claims, "email"),
		Role:        p.roles.Map(searchString(p.roleExpr, claims)),
		CustomerIDs: searchStringSlice(p.customerIDsExpr, claims),
	}
}

func stringClaim(claims map[string]any, name string) string {
	s, _ := claims[name].(string)
	return s
}

// searchString evaluates a JMESPath expression and returns the result when it
// is a string, or "" otherwise.
func searchString(expr string, data any) string {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// searchStringSlice evaluates a JMESPath expression and returns the result as
// a deduplicated string slice, preserving order. Non-string elements are
// skipped.
func searchStringSlice(expr string, data any) []string {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	seen := make(map[string]struct{}, len(raw))
	for _, e := range raw {
		s, isString := e.(string)
		if !isString || s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// randomURLSafeString generates a cryptographically secure URL-safe random
// string of exact length.
func randomURLSafeString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}

// idTokenFromToken extracts the id_token from oauth2.Token.
func idTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
