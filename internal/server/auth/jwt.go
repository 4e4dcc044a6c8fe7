// Package auth mints and verifies the HS256 bearer tokens used by the
// birthday wall API. A token identifies either a registered user or an
// invited guest who accepted an invitation.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
)

// Claims extends the registered JWT claims with the wall identity fields.
// UserID is zero for guest tokens; InvitationID is nil for user tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID       int64  `json:"uid,omitempty"`
	InvitationID *int64 `json:"inv,omitempty"`
	Name         string `json:"name,omitempty"`
}

// GenerateToken mints a token for a registered user.
func GenerateToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GenerateGuestToken mints a token for an invited guest. The guest carries
// no user account, only the invitation that admitted them and the display
// name they gave when accepting it.
func GenerateGuestToken(invitationID int64, name string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		InvitationID: &invitationID,
		Name:         name,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of a token and returns its
// claims. Expired or tampered tokens yield common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
