// Package services provides external service integrations and technical concerns like operator tokens and price feeds
package services

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/theunseenchapter/constructai-sub000/config"
	"github.com/theunseenchapter/constructai-sub000/utils"
)

// Token service error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

const operatorTokenType = "operator"

// TokenService issues and validates the bearer tokens that guard pricing writes
type TokenService interface {
	GenerateOperatorToken(operator string) (token string, expiresAt time.Time, err error)
	ValidateOperatorToken(token string) (*OperatorClaims, error)
}

// OperatorClaims represents the claims in an operator JWT
type OperatorClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenServiceImpl implements TokenService
type TokenServiceImpl struct {
	ttl           time.Duration
	signingMethod jwt.SigningMethod
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	secretKey     []byte
	useRSAKeys    bool
	issuer        string
	audience      string
	now           func() time.Time
}

// NewTokenService creates a token service from the JWT configuration section
func NewTokenService(cfg config.JWTConfig) (TokenService, error) {
	s := &TokenServiceImpl{
		ttl:        cfg.OperatorTTL,
		useRSAKeys: cfg.UseRSAKeys,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		now:        utils.UTCNow,
	}

	if cfg.UseRSAKeys {
		var err error
		s.privateKey, s.publicKey, err = parseRSAKeys(cfg.PrivateKey, cfg.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA keys: %w", err)
		}
		s.signingMethod = jwt.SigningMethodRS256
	} else {
		if cfg.SecretKey == "" {
			return nil, fmt.Errorf("secret key is required when not using RSA keys")
		}
		s.secretKey = []byte(cfg.SecretKey)
		s.signingMethod = jwt.SigningMethodHS256
	}
	if s.ttl <= 0 {
		return nil, fmt.Errorf("operator token ttl must be positive")
	}

	return s, nil
}

// parseRSAKeys parses RSA private and public keys from PEM format
func parseRSAKeys(privateKeyPEM, publicKeyPEM string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	if privateKeyPEM == "" || publicKeyPEM == "" {
		return nil, nil, fmt.Errorf("both private and public keys are required")
	}

	privateKeyBlock, _ := pem.Decode([]byte(privateKeyPEM))
	if privateKeyBlock == nil {
		return nil, nil, fmt.Errorf("failed to decode private key")
	}
	privateKey, err := x509.ParsePKCS1PrivateKey(privateKeyBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicKeyBlock, _ := pem.Decode([]byte(publicKeyPEM))
	if publicKeyBlock == nil {
		return nil, nil, fmt.Errorf("failed to decode public key")
	}
	publicKey, err := x509.ParsePKIXPublicKey(publicKeyBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, nil, fmt.Errorf("public key is not RSA")
	}

	return privateKey, rsaPublicKey, nil
}

// GenerateOperatorToken signs a token that allows operator to change prices
func (s *TokenServiceImpl) GenerateOperatorToken(operator string) (string, time.Time, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return "", time.Time{}, fmt.Errorf("operator name is required")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := OperatorClaims{
		TokenType: operatorTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   operator,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(s.signingMethod, claims)
	var signed string
	var err error
	if s.useRSAKeys {
		signed, err = token.SignedString(s.privateKey)
	} else {
		signed, err = token.SignedString(s.secretKey)
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateOperatorToken checks signature, issuer, audience, expiry and token type
func (s *TokenServiceImpl) ValidateOperatorToken(token string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if s.useRSAKeys {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.publicKey, nil
		}
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid || claims.TokenType != operatorTokenType || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
