package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// TokenRefreshError represents a token refresh failure
type TokenRefreshError struct {
	Cause error
}

func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Cause)
}

func (e *TokenRefreshError) Unwrap() error {
	return e.Cause
}

// OAuth2Auth implements the Handler interface for OAuth 2.0 authentication.
// Tokens are fetched lazily on first use and refreshed before expiry.
type OAuth2Auth struct {
	// Configuration
	TokenURL      string            // OAuth2 token endpoint URL
	ClientID      string            // OAuth2 client ID
	ClientSecret  string            // OAuth2 client secret
	Scope         string            // Optional scope for the token
	ExtraParams   map[string]string // Extra parameters for token requests
	RefreshBefore int               // Seconds before expiry to refresh token

	// Token state
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	mutex        sync.Mutex

	// Single-flight refresh control
	refreshInProgress bool
	refreshCond       *sync.Cond
}

// TokenResponse represents the response from the OAuth2 token endpoint
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// NewOAuth2Auth creates a new OAuth2 auth handler
func NewOAuth2Auth(tokenURL, clientID, clientSecret, scope string, extraParams map[string]string, refreshBefore int) (*OAuth2Auth, error) {
	if tokenURL == "" {
		return nil, fmt.Errorf("token URL is required for OAuth2")
	}
	if clientID == "" {
		return nil, fmt.Errorf("client ID is required for OAuth2")
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("client secret is required for OAuth2")
	}

	a := &OAuth2Auth{
		TokenURL:      tokenURL,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		Scope:         scope,
		ExtraParams:   extraParams,
		RefreshBefore: refreshBefore,
	}
	a.refreshCond = sync.NewCond(&a.mutex)

	return a, nil
}

// ApplyAuth adds the OAuth2 token to the request
func (o *OAuth2Auth) ApplyAuth(req *http.Request) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	refreshBefore := 60
	if o.RefreshBefore > 0 {
		refreshBefore = o.RefreshBefore
	}

	// Zero expiresAt means we have never fetched a token
	if o.expiresAt.IsZero() {
		if err := o.refreshAccessToken(); err != nil {
			return &TokenRefreshError{Cause: err}
		}
		req.Header.Set("Authorization", "Bearer "+o.accessToken)
		return nil
	}

	timeUntilExpiry := time.Until(o.expiresAt)
	if timeUntilExpiry <= time.Duration(refreshBefore)*time.Second {
		if err := o.refreshAccessToken(); err != nil {
			// If it really has expired, bubble up TokenRefreshError
			if time.Now().After(o.expiresAt) {
				return &TokenRefreshError{Cause: err}
			}
			return fmt.Errorf("failed to get OAuth2 token: %w", err)
		}
	}

	req.Header.Set("Authorization", "Bearer "+o.accessToken)
	return nil
}

// refreshAccessToken gets a new access token, using the refresh token when
// one was issued and the client credentials grant otherwise. Callers hold
// o.mutex; concurrent refreshes wait on the condition instead of stampeding.
func (o *OAuth2Auth) refreshAccessToken() error {
	for o.refreshInProgress {
		o.refreshCond.Wait()
	}

	refreshBefore := 60
	if o.RefreshBefore > 0 {
		refreshBefore = o.RefreshBefore
	}

	// Token may have been refreshed while we were waiting
	timeUntilExpiry := time.Until(o.expiresAt)
	if o.accessToken != "" && timeUntilExpiry > time.Duration(refreshBefore)*time.Second {
		return nil
	}

	o.refreshInProgress = true
	defer func() {
		o.refreshInProgress = false
		o.refreshCond.Broadcast()
	}()

	data := url.Values{}
	if o.refreshToken != "" {
		data.Set("grant_type", "refresh_token")
		data.Set("refresh_token", o.refreshToken)
	} else {
		data.Set("grant_type", "client_credentials")
	}

	data.Set("client_id", o.ClientID)
	data.Set("client_secret", o.ClientSecret)

	if o.Scope != "" {
		data.Set("scope", o.Scope)
	}

	for key, value := range o.ExtraParams {
		data.Set(key, value)
	}

	req, err := http.NewRequest("POST", o.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("token request returned status %d: %s", resp.StatusCode, body)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	o.accessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		o.refreshToken = tokenResp.RefreshToken
	}

	// Store the actual expiry; the refresh margin is applied at check time
	if tokenResp.ExpiresIn > 0 {
		o.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	} else {
		// No expiry provided, default to 1 hour
		o.expiresAt = time.Now().Add(1 * time.Hour)
	}

	return nil
}

// String returns a string representation of this auth method
func (o *OAuth2Auth) String() string {
	return fmt.Sprintf("OAuth2Auth(client_id: %s, url: %s)", o.ClientID, o.TokenURL)
}
