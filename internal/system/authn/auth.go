package authn

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthill-platform/profile-service/internal/system/constants"
	errors2 "github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/log"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the caller identity the rest of the service operates on.
// Token verification happens upstream; here the claims are only extracted.
type Principal struct {
	Gamespace string
	Account   string
	Scopes    []string
}

// Trusted reports whether the caller is a trusted server-side caller that
// bypasses field-level access checks.
func (p Principal) Trusted() bool {
	return p.HasScope(constants.ScopeProfilePrivate)
}

// HasScope reports whether the caller token carries the given scope.
func (p Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// PrincipalFromRequest extracts the caller identity from the Authorization
// header of the given request.
func PrincipalFromRequest(r *http.Request) (Principal, error) {

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Principal{}, unauthorizedError("Missing or invalid Authorization header")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := ParseJWTClaims(token)
	if err != nil {
		return Principal{}, unauthorizedError("Malformed access token")
	}

	if !validateClaims(claims) {
		return Principal{}, unauthorizedError("Invalid or expired access token")
	}

	principal := Principal{}
	if sub, ok := claims[constants.ClaimAccount].(string); ok {
		principal.Account = sub
	}
	if gamespace, ok := claims[constants.ClaimGamespace].(string); ok {
		principal.Gamespace = gamespace
	}
	if scope, ok := claims[constants.ClaimScope].(string); ok {
		principal.Scopes = strings.Fields(scope)
	}

	if principal.Account == "" || principal.Gamespace == "" {
		return Principal{}, unauthorizedError("Token is missing identity claims")
	}

	return principal, nil
}

// ParseJWTClaims parses claims from a JWT without verifying the signature.
// Signature verification is the responsibility of the upstream auth layer.
func ParseJWTClaims(tokenString string) (map[string]interface{}, error) {

	logger := log.GetLogger()
	claims := jwt.MapClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims)
	if err != nil {
		errMsg := "Error occurred when parsing claims from JWT token."
		logger.Debug(errMsg, log.Error(err))
		serverError := errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNMARSHAL_JSON.Code,
			Message:     errors2.UNMARSHAL_JSON.Message,
			Description: errMsg,
		}, err)
		return nil, serverError
	}
	return claims, nil
}

// validateClaims ensures the token has not expired.
func validateClaims(claims map[string]interface{}) bool {

	logger := log.GetLogger()
	expRaw, ok := claims["exp"]
	if !ok {
		logger.Debug("Token does not have an expiration time.")
		return false
	}
	expFloat, ok := expRaw.(float64)
	if !ok {
		logger.Debug("Token does not have a valid expiration time.", log.Any("exp", expRaw))
		return false
	}
	expUnix := int64(expFloat)
	if expUnix < time.Now().Unix() {
		logger.Debug("Token has expired.", log.String("exp", fmt.Sprint(time.Unix(expUnix, 0))))
		return false
	}
	return true
}

func unauthorizedError(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: description,
	}, http.StatusUnauthorized)
}
