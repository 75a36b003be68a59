package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

type UsersClient struct {
	gw *Gateway
}

func NewUsersClient(gw *Gateway) *UsersClient {
	return &UsersClient{gw: gw}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

// LoginResponse accepts both the session-id and the bearer-token login shapes.
type LoginResponse struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
}

func (r LoginResponse) Credential() string {
	if s := strings.TrimSpace(r.SessionID); s != "" {
		return s
	}
	return strings.TrimSpace(r.AccessToken)
}

type GuestResponse struct {
	SessionID   string             `json:"session_id"`
	AccountInfo model.GuestAccount `json:"account_info"`
}

type ProfilePatch struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type passwordChange struct {
	Current string `json:"current_password"`
	Next    string `json:"new_password"`
}

func (c *UsersClient) Register(ctx context.Context, in RegisterRequest) (model.UserProfile, error) {
	var out model.UserProfile
	err := c.gw.call(ctx, http.MethodPost, "/users/register", nil, in, &out, okCreated)
	return out, err
}

func (c *UsersClient) Login(ctx context.Context, mail, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.gw.call(ctx, http.MethodPost, "/users/login", nil, LoginRequest{Mail: mail, Password: password}, &out, okCreated)
	return out, err
}

func (c *UsersClient) Guest(ctx context.Context) (GuestResponse, error) {
	var out GuestResponse
	err := c.gw.call(ctx, http.MethodPost, "/users/guest", nil, nil, &out, okCreated)
	return out, err
}

// Me fetches the current profile. redirect controls the 401 navigation policy.
func (c *UsersClient) Me(ctx context.Context, redirect bool) (model.UserProfile, error) {
	var opts []RequestOption
	if redirect {
		opts = append(opts, RedirectOnUnauthorized())
	}
	var out model.UserProfile
	err := c.gw.call(ctx, http.MethodGet, "/users/me", nil, nil, &out, []int{http.StatusOK}, opts...)
	return out, err
}

func (c *UsersClient) UpdateMe(ctx context.Context, patch ProfilePatch) (model.UserProfile, error) {
	var out model.UserProfile
	err := c.gw.call(ctx, http.MethodPatch, "/users/me", nil, patch, &out, []int{http.StatusOK}, RedirectOnUnauthorized())
	return out, err
}

func (c *UsersClient) ChangePassword(ctx context.Context, current, next string) error {
	return c.gw.call(ctx, http.MethodPost, "/users/change-password", nil, passwordChange{Current: current, Next: next}, nil, ok2xx, RedirectOnUnauthorized())
}

func (c *UsersClient) Logout(ctx context.Context) error {
	return c.gw.call(ctx, http.MethodPost, "/users/logout", nil, nil, nil, ok2xx)
}
