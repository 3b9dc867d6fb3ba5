package api

import "context"

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration are the sign-up form fields.
type Registration struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var payload AuthResponse
	if err := c.do(ctx, "POST", "/login", nil, creds, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates an account and returns the same shape as Login.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	if reg.Role == "" {
		reg.Role = RoleUser
	}
	var payload AuthResponse
	if err := c.do(ctx, "POST", "/register", nil, reg, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Profile returns the identity behind the current token. A 401 here means the
// persisted token is stale and must be discarded.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var payload User
	if err := c.get(ctx, "/profile", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
