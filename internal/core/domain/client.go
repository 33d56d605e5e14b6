package domain

// Client is an installation registered with the backend.
type Client struct {
	ClientID ID     `json:"clientId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}
