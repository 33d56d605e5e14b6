package domain

// LoginResult is what the browser keeps as its logged-in identity.
type LoginResult struct {
	UserID      ID              `json:"userId"`
	ClientID    ID              `json:"clientId"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	Preferences PreferenceLists `json:"preferences"`
}

// Credentials identifies the account a login attempt is for. The first
// non-empty field in the order UserID, Username, Email wins.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	UserID   ID     `json:"userId,omitempty"`
}

// HasIdentifier reports whether any identifying field is set.
func (c Credentials) HasIdentifier() bool {
	return c.UserID != 0 || c.Username != "" || c.Email != ""
}
