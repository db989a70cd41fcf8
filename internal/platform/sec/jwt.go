// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the security primitives behind the identity boundary:
// bcrypt password hashing, RS256 access tokens and the role hierarchy.
//
// Domain services never see tokens. They receive a [Caller] built from verified
// [AuthClaims] by the HTTP middleware.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("sec: invalid token")

// AuthClaims is the access token payload. The short JSON names keep the
// Authorization header small.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// # Token Service

// TokenService signs and verifies RS256 access tokens for one issuer.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

/*
NewTokenService loads a PEM key pair from disk.

Parameters:
  - privateKeyPath: PKCS#1 or PKCS#8 RSA private key
  - publicKeyPath: PKIX RSA public key
  - issuer: value of the "iss" claim to sign and require

Returns:
  - *TokenService: Ready to sign and verify
  - error: Unreadable or unparsable key files
*/
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privatePEM, err := readKeyFile(privateKeyPath)
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicPEM, err := readKeyFile(publicKeyPath)
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

func readKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read key %s: %w", path, err)
	}
	return data, nil
}

// NewTokenServiceFromKeys builds a TokenService from parsed keys.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{privateKey: privateKey, publicKey: publicKey, issuer: issuer}
}

// GenerateAccessToken signs a token for the user that expires after ttl.
func (service *TokenService) GenerateAccessToken(userID, username, role string, ttl time.Duration) (string, error) {
	issuedAt := time.Now()

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm, issuer and expiry.
// Every failure wraps [ErrInvalidToken].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return service.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims, nil
}
