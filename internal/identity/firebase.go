package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultSecureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// FirebaseClient talks to the Identity Toolkit and Secure Token REST APIs.
type FirebaseClient struct {
	apiKey     string
	toolkitURL string
	tokenURL   string
	httpClient *http.Client
}

type Option func(*FirebaseClient)

// WithBaseURLs points the client at other endpoints (emulator, tests).
func WithBaseURLs(toolkitURL, tokenURL string) Option {
	return func(c *FirebaseClient) {
		c.toolkitURL = strings.TrimRight(toolkitURL, "/")
		c.tokenURL = strings.TrimRight(tokenURL, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *FirebaseClient) { c.httpClient = hc }
}

func NewFirebaseClient(apiKey string, opts ...Option) *FirebaseClient {
	c := &FirebaseClient{
		apiKey:     apiKey,
		toolkitURL: DefaultIdentityToolkitURL,
		tokenURL:   DefaultSecureTokenURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type passwordRequest struct {
	Email             string `json:"email,omitempty"`
	Password          string `json:"password"`
	IDToken           string `json:"idToken,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

func (r *accountResponse) tokens() *Tokens {
	return &Tokens{
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
		LocalID:      r.LocalID,
		Email:        r.Email,
	}
}

func (c *FirebaseClient) SignUp(ctx context.Context, email, password string) (*Tokens, error) {
	var out accountResponse
	req := passwordRequest{Email: email, Password: password, ReturnSecureToken: true}
	if err := c.post(ctx, c.toolkitURL+"/accounts:signUp", req, &out); err != nil {
		return nil, err
	}
	return out.tokens(), nil
}

func (c *FirebaseClient) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	var out accountResponse
	req := passwordRequest{Email: email, Password: password, ReturnSecureToken: true}
	if err := c.post(ctx, c.toolkitURL+"/accounts:signInWithPassword", req, &out); err != nil {
		return nil, err
	}
	return out.tokens(), nil
}

func (c *FirebaseClient) UpdatePassword(ctx context.Context, idToken, password string) (*Tokens, error) {
	var out accountResponse
	req := passwordRequest{IDToken: idToken, Password: password, ReturnSecureToken: true}
	if err := c.post(ctx, c.toolkitURL+"/accounts:update", req, &out); err != nil {
		return nil, err
	}
	return out.tokens(), nil
}

// Refresh exchanges a refresh token. The Secure Token API answers in snake_case.
func (c *FirebaseClient) Refresh(ctx context.Context, grantType, refreshToken string) (*Tokens, error) {
	var out struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
		UserID       string `json:"user_id"`
	}
	req := map[string]string{"grant_type": grantType, "refresh_token": refreshToken}
	if err := c.post(ctx, c.tokenURL+"/token", req, &out); err != nil {
		return nil, err
	}
	return &Tokens{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
		LocalID:      out.UserID,
	}, nil
}

func (c *FirebaseClient) Lookup(ctx context.Context, idToken string) (*Account, error) {
	var out struct {
		Users []struct {
			LocalID       string `json:"localId"`
			Email         string `json:"email"`
			EmailVerified bool   `json:"emailVerified"`
		} `json:"users"`
	}
	if err := c.post(ctx, c.toolkitURL+"/accounts:lookup", map[string]string{"idToken": idToken}, &out); err != nil {
		return nil, err
	}
	if len(out.Users) == 0 {
		return nil, rejected(CodeUserNotFound)
	}
	u := out.Users[0]
	return &Account{
		LocalID:       u.LocalID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
	}, nil
}

// Subject resolves a token with an accounts:lookup round trip.
func (c *FirebaseClient) Subject(ctx context.Context, idToken string) (string, error) {
	acct, err := c.Lookup(ctx, idToken)
	if err != nil {
		return "", err
	}
	return acct.LocalID, nil
}

type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *FirebaseClient) post(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return unavailable(err)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return unavailable(err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return unavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return unavailable(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error.Message != "" {
			return rejected(eb.Error.Message)
		}
		return unavailable(fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return unavailable(err)
	}
	return nil
}
