package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/rootpulse/pulse-cli/internal/client/models"
)

// Credentials is the payload of a successful login or register call.
// RefreshToken is empty on register: the IAM service issues one only at
// login.
type Credentials struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

// Login authenticates with an identifier the backend accepts as one of
// email, username, or phone. No client-side format validation is performed.
func (c *Client) Login(ctx context.Context, identifier, password string) (*Credentials, error) {
	var out Credentials
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body: map[string]string{
			"identifier": identifier,
			"password":   password,
		},
		out:       &out,
		noRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterRequest carries a new account's fields. Uniqueness and password
// strength checks happen server-side.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Credentials, error) {
	var out Credentials
	err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/register",
		body:      req,
		out:       &out,
		noRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the server to invalidate the session. The response body is
// ignored; callers treat any error as advisory.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/logout",
		noRefresh: true,
	})
}

// Profile fetches the authenticated user's account.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var out models.User
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/users/me",
		out:    &out,
	})
	return out, err
}

// ProfileUpdate is a partial remote profile change. Nil fields are omitted
// from the request.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// UpdateProfile patches the authenticated user's account and returns the
// server's updated copy.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (models.User, error) {
	var out models.User
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/users/me",
		body:   upd,
		out:    &out,
	})
	return out, err
}

// ServiceCategories lists the portal's catalog verticals.
func (c *Client) ServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var out []models.ServiceCategory
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/services/categories",
		out:    &out,
	})
	return out, err
}

// Services lists catalog services, optionally filtered by category.
func (c *Client) Services(ctx context.Context, category models.ServiceCategory) ([]models.Service, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": []string{string(category)}}
	}

	var out []models.Service
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/services",
		query:  query,
		out:    &out,
	})
	return out, err
}

// RequestService files a concierge request for the given catalog service.
// An Idempotency-Key header guards against double submission.
func (c *Client) RequestService(ctx context.Context, serviceID, notes string) (models.ServiceRequest, error) {
	body := map[string]string{}
	if notes != "" {
		body["notes"] = notes
	}

	var out models.ServiceRequest
	err := c.do(ctx, call{
		method:         http.MethodPost,
		path:           "/services/" + url.PathEscape(serviceID) + "/request",
		body:           body,
		out:            &out,
		idempotencyKey: uuid.NewString(),
	})
	return out, err
}

// MyRequests lists the authenticated user's service requests.
func (c *Client) MyRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	var out []models.ServiceRequest
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/services/my-requests",
		out:    &out,
	})
	return out, err
}

// CurrentMembership fetches the authenticated user's active membership.
func (c *Client) CurrentMembership(ctx context.Context) (models.Membership, error) {
	var out models.Membership
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/membership/current",
		out:    &out,
	})
	return out, err
}

// Plans lists the purchasable membership plans.
func (c *Client) Plans(ctx context.Context) ([]models.MembershipPlan, error) {
	var out []models.MembershipPlan
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/membership/plans",
		out:    &out,
	})
	return out, err
}

// UpgradePlan switches the authenticated user to the given plan.
func (c *Client) UpgradePlan(ctx context.Context, planID string) (models.Membership, error) {
	var out models.Membership
	err := c.do(ctx, call{
		method:         http.MethodPost,
		path:           "/membership/upgrade/" + url.PathEscape(planID),
		out:            &out,
		idempotencyKey: uuid.NewString(),
	})
	return out, err
}
