// Package models - JwtToken thuộc domain auth.
package models

import "github.com/golang-jwt/jwt/v5"

// JwtToken chứa data được mã hóa trong JWT token.
type JwtToken struct {
	UserID       string `json:"userId"`
	Time         string `json:"time"`
	RandomNumber string `json:"randomNumber"`
	jwt.RegisteredClaims
}
