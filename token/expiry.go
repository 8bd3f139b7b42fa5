package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryFromJWT reads the exp claim of a JWT without verifying its
// signature. The client cannot verify tokens; it only uses exp when the
// server omitted expires_in.
func ExpiryFromJWT(rawToken string) (time.Time, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("token.ExpiryFromJWT parse: %w", err)
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("token.ExpiryFromJWT exp: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("token.ExpiryFromJWT: token has no exp claim")
	}
	return exp.Time, nil
}
