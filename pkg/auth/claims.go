package auth

import (
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// StaffTokenPayload captures the data available when minting a staff JWT.
type StaffTokenPayload struct {
	StaffID string
	Role    enums.StaffRole
}

// StaffClaims represents the typed JWT accepted on staff routes.
type StaffClaims struct {
	Role enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
