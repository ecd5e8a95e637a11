// Package auth 基于 JWKS 的 Bearer 令牌校验
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
)

var (
	ErrNotConfigured   = apierr.NotConfigured("AUTH_NOT_CONFIGURED", "JWKS URL is not configured.")
	ErrMissingToken    = apierr.Unauthorized("MISSING_TOKEN", "Missing bearer token.")
	ErrInvalidToken    = apierr.Unauthorized("INVALID_TOKEN", "Invalid or expired token.")
	ErrMissingSubject  = apierr.Unauthorized("INVALID_TOKEN", "Token missing subject.")
	ErrSubjectMismatch = apierr.Forbidden("FORBIDDEN", "Token subject does not match requested user.")
)

// Claims 通过校验的令牌声明
type Claims struct {
	jwt.RegisteredClaims
}

// Verifier RS256 令牌校验器
type Verifier struct {
	jwks     *jwksCache
	issuer   string
	audience string
	log      *logger.Logger
}

// NewVerifier 创建校验器，JWKS URL 为空时所有校验返回 ErrNotConfigured
func NewVerifier(cfg config.AuthConfig, httpClient *http.Client, log *logger.Logger) *Verifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	v := &Verifier{
		issuer:   strings.TrimSpace(cfg.Issuer),
		audience: strings.TrimSpace(cfg.Audience),
		log:      log,
	}
	if url := strings.TrimSpace(cfg.JWKSURL); url != "" {
		v.jwks = newJWKSCache(httpClient, url)
	}
	return v
}

// Configured 是否配置了 JWKS
func (v *Verifier) Configured() bool {
	return v != nil && v.jwks != nil
}

// Verify 校验令牌签名及 sub/exp/iat，可选校验 iss/aud
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if !v.Configured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, errors.New("missing kid")
		}
		return v.jwks.getKey(ctx, kid)
	}, opts...)
	if err == nil && claims.IssuedAt == nil {
		err = errors.New("missing iat")
	}
	if err != nil {
		v.log.Warn("jwt verification failed", "error", err)
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSubject
	}
	return &Claims{RegisteredClaims: *claims}, nil
}

// BearerToken 从 Authorization 头提取令牌
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// RequireSubject 令牌主体必须与请求的用户一致
func RequireSubject(subject, userID string) error {
	if subject != userID {
		return fmt.Errorf("subject %q requested %q: %w", subject, userID, ErrSubjectMismatch)
	}
	return nil
}
