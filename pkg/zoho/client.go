package zoho

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

	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/pkg/config"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

const (
	// South African VAT.
	vatRatePercent   = 15
	shipmentLeadDays = 7
	dateLayout       = "2006-01-02"
	defaultTimeout   = 10 * time.Second
)

// ErrMissingCredentials is returned when the client is asked to call Zoho
// without a complete credential set. Callers translate it to a validation
// error; no partial requests are attempted.
var ErrMissingCredentials = errors.New("zoho credentials not configured")

// Client talks to the Zoho Inventory REST API using a refresh-token grant.
type Client struct {
	httpClient  *http.Client
	cfg         config.ZohoConfig
	tokenSource *tokenSource
	now         func() time.Time
}

// Item is the subset of a Zoho inventory item the platform tracks.
type Item struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	SKU    string `json:"sku"`
}

// SalesOrder is the subset of a created sales order the platform tracks.
type SalesOrder struct {
	SalesOrderID     string `json:"salesorder_id"`
	SalesOrderNumber string `json:"salesorder_number"`
}

// CreateItemParams describes a new inventory item mirroring a product variant.
type CreateItemParams struct {
	Name         string
	SKU          string
	Rate         decimal.Decimal
	InitialStock int
}

// SalesOrderLine is one line of a sales order, matched to Zoho by SKU.
type SalesOrderLine struct {
	SKU      string
	Rate     decimal.Decimal
	Quantity int
}

// CreateSalesOrderParams describes a sales order for a submitted platform order.
type CreateSalesOrderParams struct {
	CustomerName    string
	CustomerEmail   string
	ReferenceNumber string
	LineItems       []SalesOrderLine
}

func NewClient(cfg config.ZohoConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("zoho base url is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	c := &Client{
		httpClient: httpClient,
		cfg:        cfg,
		now:        time.Now,
	}
	c.tokenSource = &tokenSource{fetch: c.fetchAccessToken}

	if logg != nil && !cfg.Complete() {
		logg.Warn(context.Background(), "zoho credentials incomplete, inventory sync disabled")
	}

	return c, nil
}

// CreateItem registers an inventory item with the configured VAT treatment.
func (c *Client) CreateItem(ctx context.Context, params CreateItemParams) (*Item, error) {
	if !c.cfg.Complete() {
		return nil, ErrMissingCredentials
	}
	if params.Name == "" || params.SKU == "" {
		return nil, errors.New("item name and sku are required")
	}

	rate, _ := params.Rate.Float64()
	body := map[string]any{
		"name":               params.Name,
		"sku":                params.SKU,
		"rate":               rate,
		"account_id":         c.cfg.SalesAccountID,
		"tax_id":             c.cfg.TaxID,
		"item_type":          "inventory",
		"product_type":       "goods",
		"is_taxable":         true,
		"tax_percentage":     vatRatePercent,
		"initial_stock":      params.InitialStock,
		"initial_stock_rate": rate,
	}

	var resp struct {
		Item Item `json:"item"`
	}
	if err := c.post(ctx, "/items", body, &resp); err != nil {
		return nil, fmt.Errorf("creating zoho item: %w", err)
	}
	return &resp.Item, nil
}

// CreateSalesOrder finds or creates the customer, then books the order with
// a shipment date one week out.
func (c *Client) CreateSalesOrder(ctx context.Context, params CreateSalesOrderParams) (*SalesOrder, error) {
	if !c.cfg.Complete() {
		return nil, ErrMissingCredentials
	}
	if params.CustomerName == "" {
		return nil, errors.New("customer name is required")
	}
	if len(params.LineItems) == 0 {
		return nil, errors.New("at least one line item is required")
	}

	customerID, err := c.ensureCustomer(ctx, params.CustomerName, params.CustomerEmail)
	if err != nil {
		return nil, err
	}

	now := c.now()
	lines := make([]map[string]any, 0, len(params.LineItems))
	for _, line := range params.LineItems {
		rate, _ := line.Rate.Float64()
		lines = append(lines, map[string]any{
			"sku":      line.SKU,
			"rate":     rate,
			"quantity": line.Quantity,
		})
	}
	body := map[string]any{
		"customer_id":      customerID,
		"date":             now.Format(dateLayout),
		"shipment_date":    now.AddDate(0, 0, shipmentLeadDays).Format(dateLayout),
		"reference_number": params.ReferenceNumber,
		"line_items":       lines,
	}

	var resp struct {
		SalesOrder SalesOrder `json:"salesorder"`
	}
	if err := c.post(ctx, "/salesorders", body, &resp); err != nil {
		return nil, fmt.Errorf("creating zoho sales order: %w", err)
	}
	return &resp.SalesOrder, nil
}

// Ping verifies credentials by exchanging the refresh token.
func (c *Client) Ping(ctx context.Context) error {
	if !c.cfg.Complete() {
		return ErrMissingCredentials
	}
	_, err := c.tokenSource.Token(ctx)
	return err
}

func (c *Client) ensureCustomer(ctx context.Context, name, email string) (string, error) {
	body := map[string]any{
		"contact_name": name,
		"contact_type": "customer",
	}
	if email != "" {
		body["email"] = email
	}

	var created struct {
		Contact struct {
			ContactID string `json:"contact_id"`
		} `json:"contact"`
	}
	err := c.post(ctx, "/contacts", body, &created)
	if err == nil && created.Contact.ContactID != "" {
		return created.Contact.ContactID, nil
	}

	// Creation can fail when the contact already exists; fall back to lookup.
	var found struct {
		Contacts []struct {
			ContactID string `json:"contact_id"`
		} `json:"contacts"`
	}
	query := url.Values{"contact_name": {name}}
	if searchErr := c.get(ctx, "/contacts", query, &found); searchErr == nil && len(found.Contacts) > 0 {
		return found.Contacts[0].ContactID, nil
	}
	if err != nil {
		return "", fmt.Errorf("finding or creating zoho customer: %w", err)
	}
	return "", errors.New("finding or creating zoho customer: empty contact id")
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(payload), out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, out any) error {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("organization_id", c.cfg.OrganizationID)
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("zoho %s %s returned %s: %s", method, path, resp.Status, strings.TrimSpace(string(b)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) fetchAccessToken(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("refresh_token", c.cfg.RefreshToken)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "refresh_token")

	endpoint := strings.TrimRight(c.cfg.AccountsURL, "/") + "/oauth/v2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("zoho token endpoint returned %s", resp.Status)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", time.Time{}, err
	}
	if tokenResp.AccessToken == "" {
		return "", time.Time{}, errors.New("zoho token endpoint returned empty access token")
	}

	return tokenResp.AccessToken, time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second), nil
}

type tokenSource struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
	fetch  func(context.Context) (string, time.Time, error)
}

func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Until(t.expiry) > time.Minute {
		return t.token, nil
	}

	token, expiry, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	t.token = token
	t.expiry = expiry
	return token, nil
}
