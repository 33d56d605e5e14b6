package domain

// TarsUser is an account belonging to a client.
type TarsUser struct {
	UserID     ID     `json:"userId"`
	ClientID   ID     `json:"clientId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Active     bool   `json:"active"`
	SignUpDate string `json:"signUpDate,omitempty"`
	LastLogin  string `json:"lastLogin,omitempty"`
}

// NewClientUser is the payload for creating a user under a client.
type NewClientUser struct {
	ClientID ID     `json:"clientId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
