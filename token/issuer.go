package token

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/oauth2"
	"github.com/jrsteele09/go-dashboard/users"
)

// Claims are the verified contents of an access token issued by Issuer.
type Claims struct {
	UserID    int64
	Email     string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer creates and verifies the bearer tokens handed out by the
// development API server.
type Issuer struct {
	signer       Signer
	issuer       string
	revokedCache RevokedTokenCache // Cache for tokens replaced by a refresh
	tokenExpiry  time.Duration
	nowFunc      func() time.Time
}

type IssuerOption func(*Issuer)

func WithTokenExpiry(expiry time.Duration) IssuerOption {
	return func(i *Issuer) {
		i.tokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func WithIssuer(issuer string) IssuerOption {
	return func(i *Issuer) {
		i.issuer = issuer
	}
}

func WithRevokedTokenCache(cache RevokedTokenCache) IssuerOption {
	return func(i *Issuer) {
		i.revokedCache = cache
	}
}

func NewIssuer(signer Signer, options ...IssuerOption) *Issuer {
	i := &Issuer{
		signer:       signer,
		revokedCache: NewInMemoryRevokedTokenCache(), // Default implementation
	}

	for _, opt := range options {
		opt(i)
	}

	if i.tokenExpiry == 0 {
		i.tokenExpiry = time.Hour
	}
	if i.nowFunc == nil {
		i.nowFunc = time.Now
	}
	return i
}

// Issue signs a new access token for the user.
func (i *Issuer) Issue(user *users.User) (*oauth2.TokenResponse, error) {
	now := i.nowFunc()
	claims := jwt.MapClaims{
		"iss":   i.issuer,
		"sub":   strconv.FormatInt(user.ID, 10), // The subject, the user's ID
		"email": user.Email,
		"iat":   now.Unix(),                     // Issued At: the time at which the token was issued
		"exp":   now.Add(i.tokenExpiry).Unix(),  // Expiry: when the token will expire
		"jti":   uuid.New().String(),            // Unique token ID for revocation
	}

	signed, err := i.signer.Sign(claims)
	if err != nil {
		return nil, errors.Wrapf(err, "Issuer.Issue")
	}

	return &oauth2.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(i.tokenExpiry.Seconds()),
	}, nil
}

// Verify checks the signature, expiry and revocation state of rawToken.
func (i *Issuer) Verify(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.ErrInvalidToken
	}

	parsed, err := jwt.Parse(rawToken, i.signer.GetVerificationKey,
		jwt.WithTimeFunc(i.nowFunc),
		jwt.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.Wrapf(errors.ErrInvalidToken, "%v", err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.ErrInvalidToken
	}

	sub, _ := mapClaims.GetSubject()
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "subject %q", sub)
	}

	claims := &Claims{UserID: userID}
	claims.Email, _ = mapClaims["email"].(string)
	claims.JTI, _ = mapClaims["jti"].(string)
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.JTI != "" && i.revokedCache.IsRevoked(claims.JTI) {
		return nil, errors.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blocks the token identified by claims until it would have expired.
func (i *Issuer) Revoke(claims *Claims) error {
	if claims.JTI == "" {
		return errors.Wrapf(errors.ErrInvalidToken, "token missing jti claim")
	}
	i.revokedCache.Cleanup(i.nowFunc())
	return i.revokedCache.Add(claims.JTI, claims.ExpiresAt)
}

// TokenExpiry is the lifetime of issued tokens.
func (i *Issuer) TokenExpiry() time.Duration {
	return i.tokenExpiry
}
