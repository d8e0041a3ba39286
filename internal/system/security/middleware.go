package security

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/anthill-platform/profile-service/internal/system/config"
	"github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/log"
)

// AuthnWithAdminCredentials performs authentication using admin credentials
// from the request. The rule-administration endpoints are the only callers.
func AuthnWithAdminCredentials(r *http.Request) error {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Basic ") {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.UN_AUTHORIZED.Code,
			Message:     errors.UN_AUTHORIZED.Message,
			Description: "Missing or invalid Authorization header",
		}, http.StatusUnauthorized)
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Basic "))

	isValidAdmin, err := validateAdminCredentials(token)
	if err != nil || !isValidAdmin {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.UN_AUTHORIZED.Code,
			Message:     errors.UN_AUTHORIZED.Message,
			Description: "Invalid admin credentials",
		}, http.StatusUnauthorized)
	}

	return nil
}

func validateAdminCredentials(token string) (bool, error) {

	adminConfig := config.GetRuntime().Config.Admin
	username := strings.TrimSpace(adminConfig.Username)
	password := strings.TrimSpace(adminConfig.Password)
	if username == "" || password == "" || token == "" {
		return false, nil
	}

	creds := username + ":" + password
	expected := base64.StdEncoding.EncodeToString([]byte(creds))

	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1 {
		log.GetLogger().Debug("Admin credentials validated successfully.")
		return true, nil
	}

	return false, nil
}
