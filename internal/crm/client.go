package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the CRM provisioning API with a static agency API key.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a Client for the given API endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Location is a CRM sub-account. One is created per onboarded site.
type Location struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Website    string `json:"website,omitempty"`
}

// CreateLocationRequest is the payload for creating a sub-account.
type CreateLocationRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Website    string `json:"website,omitempty"`
}

// User is a CRM user scoped to one location.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CreateUserRequest creates an admin user on a location.
type CreateUserRequest struct {
	LocationID string `json:"locationId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// CustomField is a location-scoped contact field.
type CustomField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

// Contact is a CRM contact on a location.
type Contact struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// UpsertContactRequest creates or updates a contact, matched by email or
// phone on the CRM side.
type UpsertContactRequest struct {
	LocationID string   `json:"locationId"`
	FirstName  string   `json:"firstName,omitempty"`
	LastName   string   `json:"lastName,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// CreateLocation creates a sub-account and returns its id.
func (c *Client) CreateLocation(ctx context.Context, req CreateLocationRequest) (*Location, error) {
	if req.Name == "" {
		return nil, &Error{Kind: KindValidation, Op: "create location", Message: "name is required"}
	}

	var resp struct {
		Location Location `json:"location"`
	}
	if err := c.post(ctx, "create location", "/locations", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Location, nil
}

// CreateUser creates an admin user on a location.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if req.LocationID == "" || req.Email == "" {
		return nil, &Error{Kind: KindValidation, Op: "create user", Message: "locationId and email are required"}
	}

	var resp struct {
		User User `json:"user"`
	}
	if err := c.post(ctx, "create user", "/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CreateCustomField defines a contact custom field on a location.
func (c *Client) CreateCustomField(ctx context.Context, locationID, name, dataType string) (*CustomField, error) {
	if locationID == "" || name == "" {
		return nil, &Error{Kind: KindValidation, Op: "create custom field", Message: "locationId and name are required"}
	}

	payload := map[string]string{"name": name, "dataType": dataType}
	var resp struct {
		CustomField CustomField `json:"customField"`
	}
	path := fmt.Sprintf("/locations/%s/customFields", locationID)
	if err := c.post(ctx, "create custom field", path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp.CustomField, nil
}

// UpsertContact creates or updates a contact on a location.
func (c *Client) UpsertContact(ctx context.Context, req UpsertContactRequest) (*Contact, error) {
	if req.LocationID == "" {
		return nil, &Error{Kind: KindValidation, Op: "upsert contact", Message: "locationId is required"}
	}
	if req.Email == "" && req.Phone == "" {
		return nil, &Error{Kind: KindValidation, Op: "upsert contact", Message: "email or phone is required for matching"}
	}

	var resp struct {
		Contact Contact `json:"contact"`
	}
	if err := c.post(ctx, "upsert contact", "/contacts/upsert", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Contact, nil
}

func (c *Client) post(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: KindUpstream, Op: op, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &Error{Kind: KindUpstream, Op: op, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &Error{Kind: KindUpstream, Op: op, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUpstream, Op: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func apiError(op string, resp *http.Response) *Error {
	msg := readErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &Error{Kind: KindAuth, Op: op, Message: msg}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Op: op, Message: msg}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return &Error{Kind: KindValidation, Op: op, Message: msg}
	default:
		return &Error{Kind: KindUpstream, Op: op, Message: fmt.Sprintf("status %d: %s", resp.StatusCode, msg)}
	}
}

func readErrorMessage(body io.Reader) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "unreadable error body"
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	if len(raw) == 0 {
		return "no error detail"
	}
	return string(raw)
}
