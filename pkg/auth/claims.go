package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	Name  string
	Role  enums.MemberRole
	JTI   string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	Email string           `json:"email"`
	Name  string           `json:"name"`
	Role  enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
