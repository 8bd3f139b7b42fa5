package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer signs access tokens for the development API and hands back the key
// that verifies them.
type Signer interface {
	Sign(claims jwt.MapClaims) (string, error)
	GetVerificationKey(token *jwt.Token) (any, error)
	GetSigningMethod() jwt.SigningMethod
}

// HMACsigner signs with HS256 using a shared secret. The dev server is both
// issuer and verifier, so a symmetric key is all it needs.
type HMACsigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACsigner {
	return &HMACsigner{secret: []byte(secret)}
}

func (h *HMACsigner) Sign(claims jwt.MapClaims) (string, error) {
	if len(h.secret) == 0 {
		return "", errors.New("refusing to sign with an empty HMAC secret")
	}
	signed, err := jwt.NewWithClaims(h.GetSigningMethod(), claims).SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signed, nil
}

// GetVerificationKey only accepts tokens signed with the method Sign uses,
// so a token cannot downgrade itself to another HMAC size or to "none".
func (h *HMACsigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if token.Method.Alg() != h.GetSigningMethod().Alg() {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACsigner) GetSigningMethod() jwt.SigningMethod {
	return jwt.SigningMethodHS256
}
