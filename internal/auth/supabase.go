package auth

import (
	"bytes"
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

	"moim-app-go/internal/config"
	apperrors "moim-app-go/pkg/errors"
)

const defaultAuthTimeout = 5 * time.Second

// SupabaseClient talks to the Supabase GoTrue REST API and keeps the
// current session in memory.
type SupabaseClient struct {
	baseURL     string
	apiKey      string
	redirectURL string
	client      *http.Client
	now         func() time.Time

	mu        sync.Mutex
	session   *Session
	listeners map[int]Listener
	nextID    int
}

func NewSupabaseClient(cfg config.SupabaseConfig) *SupabaseClient {
	timeout := cfg.AuthTimeout
	if timeout == 0 {
		timeout = defaultAuthTimeout
	}

	return &SupabaseClient{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		apiKey:      cfg.PublishableKey,
		redirectURL: cfg.RedirectURL,
		client:      &http.Client{Timeout: timeout},
		now:         time.Now,
		listeners:   make(map[int]Listener),
	}
}

type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	User         *userResponse `json:"user"`

	// Signup without auto-confirm answers with the bare user object.
	userResponse
}

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Sub          string                 `json:"sub"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *SupabaseClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var payload tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", credentials{Email: email, Password: password}, &payload)
	if err != nil {
		return nil, err
	}

	session := c.sessionFromToken(payload)
	c.setSession(EventSignedIn, session)
	return session, nil
}

func (c *SupabaseClient) SignInWithOAuth(ctx context.Context, provider OAuthProvider) (string, error) {
	if _, err := ParseOAuthProvider(string(provider)); err != nil {
		return "", apperrors.Wrap(apperrors.CodeValidation, err, err.Error())
	}
	if c.baseURL == "" {
		return "", errNotConfigured
	}

	query := url.Values{}
	query.Set("provider", string(provider))
	if c.redirectURL != "" {
		query.Set("redirect_to", c.redirectURL)
	}
	return c.baseURL + "/auth/v1/authorize?" + query.Encode(), nil
}

func (c *SupabaseClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var payload tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", credentials{Email: email, Password: password}, &payload); err != nil {
		return nil, err
	}

	session := c.sessionFromToken(payload)
	if session.AccessToken != "" {
		c.setSession(EventSignedIn, session)
	} else {
		c.emit(EventUserUpdated, session)
	}
	return session, nil
}

func (c *SupabaseClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	current := c.session
	c.mu.Unlock()

	if current != nil && current.AccessToken != "" {
		if err := c.do(ctx, http.MethodPost, "/auth/v1/logout", current.AccessToken, nil, nil); err != nil {
			return err
		}
	}

	c.setSession(EventSignedOut, nil)
	return nil
}

// GetSession returns the held session, refreshing it first when the access
// token has expired. A failed refresh signs the client out.
func (c *SupabaseClient) GetSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	current := c.session
	c.mu.Unlock()

	if current == nil {
		return nil, nil
	}
	if !current.Expired(c.now()) || current.RefreshToken == "" {
		return current, nil
	}

	var payload tokenResponse
	body := map[string]string{"refresh_token": current.RefreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body, &payload); err != nil {
		c.setSession(EventSignedOut, nil)
		return nil, err
	}

	session := c.sessionFromToken(payload)
	c.setSession(EventTokenRefreshed, session)
	return session, nil
}

func (c *SupabaseClient) OnAuthStateChange(listener Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// SetSession installs the tokens an OAuth redirect hands back. The access
// token is checked against GoTrue before the session replaces the held one.
func (c *SupabaseClient) SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	if accessToken == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "access token is required")
	}
	principal, err := c.VerifyToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	session := &Session{AccessToken: accessToken, RefreshToken: refreshToken, User: principal}
	c.setSession(EventSignedIn, session)
	return session, nil
}

// VerifyToken asks GoTrue who owns the access token.
func (c *SupabaseClient) VerifyToken(ctx context.Context, token string) (Principal, error) {
	var payload userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, &payload); err != nil {
		return Principal{}, err
	}
	principal := principalFromUser(payload)
	if principal.ID == "" {
		return Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "invalid token")
	}
	return principal, nil
}

var errNotConfigured = apperrors.New(apperrors.CodeInternal, "auth not configured")

func (c *SupabaseClient) do(ctx context.Context, method, path, bearer string, body, out any) error {
	if c.baseURL == "" || c.apiKey == "" {
		return errNotConfigured
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode auth request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyAPIError(decodeAPIError(resp))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Wrap(apperrors.CodeDependency, err, "invalid auth response")
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = firstNonEmpty(payload.ErrorDescription, payload.Msg, payload.Message, payload.Error)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func classifyAPIError(apiErr *APIError) error {
	code := apperrors.CodeUnauthenticated
	if apiErr.Status >= http.StatusInternalServerError {
		code = apperrors.CodeDependency
	}
	return apperrors.Wrap(code, apiErr, apiErr.Message)
}

func (c *SupabaseClient) sessionFromToken(payload tokenResponse) *Session {
	user := payload.userResponse
	if payload.User != nil {
		user = *payload.User
	}

	session := &Session{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		User:         principalFromUser(user),
	}
	switch {
	case payload.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(payload.ExpiresAt, 0)
	case payload.ExpiresIn > 0:
		session.ExpiresAt = c.now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	return session
}

func (c *SupabaseClient) setSession(event Event, session *Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	c.emit(event, session)
}

func (c *SupabaseClient) emit(event Event, session *Session) {
	c.mu.Lock()
	listeners := make([]Listener, 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if listener, ok := c.listeners[id]; ok {
			listeners = append(listeners, listener)
		}
	}
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(event, session)
	}
}

func principalFromUser(user userResponse) Principal {
	return Principal{
		ID:        firstNonEmpty(user.ID, user.Sub),
		Email:     user.Email,
		Name:      firstNonEmpty(stringFromMap(user.UserMetadata, "name"), stringFromMap(user.UserMetadata, "full_name")),
		AvatarURL: stringFromMap(user.UserMetadata, "avatar_url"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key]
	if !ok {
		return ""
	}
	parsed, ok := value.(string)
	if !ok {
		return ""
	}
	return parsed
}
