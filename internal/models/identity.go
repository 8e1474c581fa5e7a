package models

import "github.com/dgrijalva/jwt-go"

// Identity is the profile an OAuth provider returns for the signed-in user.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Claims is the payload of the bearer token handed to the storefront client.
type Claims struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Provider string `json:"provider"`
	Name     string `json:"name,omitempty"`
	jwt.StandardClaims
}
