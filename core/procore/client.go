package procore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// API is the surface of the Procore client the inventory feature consumes.
type API interface {
	// ListPurchaseOrders returns every purchase order for a project.
	ListPurchaseOrders(ctx context.Context, projectID string) ([]PurchaseOrder, error)
	// ListLineItems returns the line items of a purchase order.
	ListLineItems(ctx context.Context, purchaseOrderID int64) ([]LineItem, error)
	// GetInventory returns the persisted inventory collection for a project.
	GetInventory(ctx context.Context, projectID string) (json.RawMessage, error)
	// ReplaceInventory replaces the persisted inventory collection for a project.
	ReplaceInventory(ctx context.Context, projectID string, payload json.RawMessage) error
}

// Client is the HTTP implementation of API.
type Client struct {
	cfg    Config
	http   *http.Client
	store  SessionStore
	logger *zap.Logger

	mu      sync.Mutex
	session *Session
}

// NewClient creates a Procore API client. The session is loaded lazily from
// the store before the first authenticated request.
func NewClient(cfg Config, store SessionStore, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Strict transport timeouts so a stalled vendor call never hangs a
	// reconciliation run.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Transport: transport, Timeout: timeoutDuration},
		store:  store,
		logger: logger,
	}
}

// tokenResponse is the OAuth token endpoint payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	CreatedAt    int64  `json:"created_at"`
}

// Exchange trades an authorization code for a session and persists it.
func (c *Client) Exchange(ctx context.Context, code string) error {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.cfg.RedirectURI},
	}

	sess, err := c.requestToken(ctx, form)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	if err := c.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// refreshLocked refreshes the current session. c.mu must be held.
func (c *Client) refreshLocked(ctx context.Context) error {
	if c.session == nil || c.session.RefreshToken == "" {
		return ErrAuthenticationFailed
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.session.RefreshToken},
	}

	sess, err := c.requestToken(ctx, form)
	if err != nil {
		return err
	}
	c.session = sess

	if err := c.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// requestToken calls the OAuth token endpoint with the given grant.
func (c *Client) requestToken(ctx context.Context, form url.Values) (*Session, error) {
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: token endpoint returned %d: %s",
			ErrAuthenticationFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("%w: invalid token response: %v", ErrAuthenticationFailed, err)
	}

	return &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}, nil
}

// currentSession returns a usable session, loading it from the store and
// refreshing it if expired.
func (c *Client) currentSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		sess, err := c.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		c.session = sess
	}

	if c.session.Expired() {
		if err := c.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}

	cp := *c.session
	return &cp, nil
}

// forceRefresh refreshes the session after an authorization failure.
func (c *Client) forceRefresh(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refreshLocked(ctx); err != nil {
		return nil, err
	}
	cp := *c.session
	return &cp, nil
}

// do performs an authenticated JSON request. A single 401 triggers one
// refresh-and-retry; every other failure maps to ErrUpstreamUnavailable.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, method, path, query, body, sess)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		if sess, err = c.forceRefresh(ctx); err != nil {
			return err
		}
		if resp, err = c.send(ctx, method, path, query, body, sess); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s returned %d: %s",
			ErrUpstreamUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, sess *Session) (*http.Response, error) {
	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	if c.cfg.CompanyID != "" {
		req.Header.Set("Procore-Company-Id", c.cfg.CompanyID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

// ListPurchaseOrders returns every purchase order for a project.
func (c *Client) ListPurchaseOrders(ctx context.Context, projectID string) ([]PurchaseOrder, error) {
	var orders []PurchaseOrder
	query := url.Values{"project_id": {projectID}}
	if err := c.do(ctx, http.MethodGet, "/rest/v1.0/purchase_order_contracts", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListLineItems returns the line items of a purchase order.
func (c *Client) ListLineItems(ctx context.Context, purchaseOrderID int64) ([]LineItem, error) {
	var items []LineItem
	path := fmt.Sprintf("/rest/v1.0/purchase_order_contracts/%d/line_items", purchaseOrderID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetInventory returns the persisted inventory collection for a project.
func (c *Client) GetInventory(ctx context.Context, projectID string) (json.RawMessage, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/rest/v1.0/projects/%s/inventory", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ReplaceInventory replaces the persisted inventory collection for a project.
func (c *Client) ReplaceInventory(ctx context.Context, projectID string, payload json.RawMessage) error {
	path := fmt.Sprintf("/rest/v1.0/projects/%s/inventory", url.PathEscape(projectID))
	return c.do(ctx, http.MethodPut, path, nil, payload, nil)
}
