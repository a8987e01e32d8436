package grocery

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
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
	"github.com/Apurer/grocery-store-client/internal/domains/items/ports"
)

// DefaultTimeout applies when NewClient is given no http.Client.
const DefaultTimeout = 10 * time.Second

// Client talks to the Grocery Store item API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// ItemPayload is the wire shape of an item.
type ItemPayload struct {
	ID       string  `json:"_id,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// createResponse accepts both {"id": ...} and an echoed item carrying "_id".
type createResponse struct {
	ID       string `json:"id"`
	ObjectID string `json:"_id"`
}

// NewClient validates the base URL and wraps httpClient, which may be nil.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("grocery store base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse grocery store base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("grocery store base URL must be http or https, got %q", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// List fetches every item in store order.
func (c *Client) List(ctx context.Context) ([]domain.Item, error) {
	const op = "list items"
	res, err := c.do(ctx, op, http.MethodGet, "/items", nil, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var payload []ItemPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, &Error{Op: op, Kind: ports.ErrServer, StatusCode: res.StatusCode, Detail: "malformed item list", Err: err}
	}
	items := make([]domain.Item, 0, len(payload))
	for i, p := range payload {
		if p.ID == "" {
			return nil, &Error{Op: op, Kind: ports.ErrServer, StatusCode: res.StatusCode, Detail: fmt.Sprintf("item at index %d has no _id", i)}
		}
		items = append(items, domain.Item{ID: p.ID, Name: p.Name, Price: p.Price, Quantity: p.Quantity})
	}
	return items, nil
}

// Create forwards the draft exactly as typed; validation belongs to the store.
func (c *Client) Create(ctx context.Context, fields domain.Fields) (string, error) {
	const op = "create item"
	res, err := c.do(ctx, op, http.MethodPost, "/items", nil, toPayload(fields))
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	// The item exists once the store answered 2xx; an unreadable echo only loses the id.
	var created createResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxErrorBody)).Decode(&created); err != nil {
		return "", nil
	}
	if created.ID != "" {
		return created.ID, nil
	}
	return created.ObjectID, nil
}

// Update replaces the stored record for id with fields.
func (c *Client) Update(ctx context.Context, id string, fields domain.Fields) error {
	const op = "update item"
	path, err := itemPath(id)
	if err != nil {
		return err
	}
	return c.exec(ctx, op, http.MethodPut, path, nil, toPayload(fields))
}

// Delete removes the item; a repeated delete surfaces ports.ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) error {
	const op = "delete item"
	path, err := itemPath(id)
	if err != nil {
		return err
	}
	return c.exec(ctx, op, http.MethodDelete, path, nil, nil)
}

// AdjustQuantity asks the store to move the quantity by one in the given direction.
func (c *Client) AdjustQuantity(ctx context.Context, id string, direction domain.Direction) error {
	const op = "adjust quantity"
	if !direction.Valid() {
		return domain.ErrInvalidDirection
	}
	path, err := itemPath(id)
	if err != nil {
		return err
	}
	query := url.Values{"action": []string{direction.Action()}}
	return c.exec(ctx, op, http.MethodPut, path+"/quantity", query, nil)
}

func (c *Client) exec(ctx context.Context, op, method, path string, query url.Values, body any) error {
	res, err := c.do(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxErrorBody))
	return res.Body.Close()
}

// do returns the response only for 2xx statuses; any other outcome is an *Error.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any) (*http.Response, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("grocery client not configured")
	}
	target, err := c.resolve(path)
	if err != nil {
		return nil, fmt.Errorf("%s: build url: %w", op, err)
	}
	target.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		defer res.Body.Close()
		return nil, responseError(op, res)
	}
	return res, nil
}

// resolve appends an escaped path to the base path verbatim. Dot segments are
// not collapsed, so an id never climbs out of its collection.
func (c *Client) resolve(escapedPath string) (*url.URL, error) {
	target := *c.baseURL
	raw := strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + escapedPath
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return nil, err
	}
	target.Path = unescaped
	target.RawPath = raw
	return &target, nil
}

// itemPath renders /items/{id} with the id encoded in OpenAPI simple style.
func itemPath(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", domain.ErrEmptyID
	}
	if id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	param, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("encode item id: %w", err)
	}
	return "/items/" + param, nil
}

func toPayload(fields domain.Fields) ItemPayload {
	return ItemPayload{Name: fields.Name, Price: fields.Price, Quantity: fields.Quantity}
}

var _ ports.Repository = (*Client)(nil)
