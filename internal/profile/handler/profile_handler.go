package handler

import (
	"encoding/json"
	"net/http"

	"github.com/anthill-platform/profile-service/internal/profile/model"
	"github.com/anthill-platform/profile-service/internal/profile/provider"
	"github.com/anthill-platform/profile-service/internal/profile/service"
	"github.com/anthill-platform/profile-service/internal/system/authn"
	"github.com/anthill-platform/profile-service/internal/system/constants"
	syscontext "github.com/anthill-platform/profile-service/internal/system/context"
	errors2 "github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/utils"
)

// ProfileHandler exposes the profile document endpoints.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {

	return &ProfileHandler{}
}

type writeProfileRequest struct {
	Data  model.Document `json:"data"`
	Merge *bool          `json:"merge"`
}

type bulkProfilesRequest struct {
	Action        string   `json:"action"`
	Accounts      []string `json:"accounts"`
	ProfileFields []string `json:"profile_fields"`
}

// GetOwnProfile handles an account reading its own profile.
func (ph *ProfileHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {

	principal, err := authn.PrincipalFromRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := requireScope(principal, constants.ScopeProfile); err != nil {
		utils.HandleError(w, err)
		return
	}

	path := utils.ParsePath(r.PathValue("path"))

	profileService := provider.NewProfilesProvider().GetProfileService()
	result, err := profileService.GetProfile(principal.Gamespace, principal.Account, path, service.ScopeSelf)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// UpdateOwnProfile handles an account writing its own profile. Callers
// holding the profile_private scope write as trusted, matching the
// server-to-server contract.
func (ph *ProfileHandler) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {

	principal, err := authn.PrincipalFromRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := requireScope(principal, constants.ScopeProfileWrite); err != nil {
		utils.HandleError(w, err)
		return
	}

	request, err := decodeWriteRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	scope := service.ScopeSelf
	if principal.Trusted() {
		scope = service.ScopeTrusted
	}

	path := utils.ParsePath(r.PathValue("path"))

	profileService := provider.NewProfilesProvider().GetProfileService()
	result, err := profileService.SetProfile(
		principal.Gamespace, principal.Account, request.Data, path, mergeFlag(request), scope)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// GetAccountProfile handles reading another account's profile. Ordinary
// callers see only public fields; trusted callers get the raw document.
func (ph *ProfileHandler) GetAccountProfile(w http.ResponseWriter, r *http.Request) {

	principal, err := authn.PrincipalFromRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := requireScope(principal, constants.ScopeProfile); err != nil {
		utils.HandleError(w, err)
		return
	}

	account := r.PathValue("account")
	path := utils.ParsePath(r.PathValue("path"))

	scope := service.ScopeOthers
	if principal.Trusted() {
		scope = service.ScopeTrusted
	}

	profileService := provider.NewProfilesProvider().GetProfileService()
	result, err := profileService.GetProfile(principal.Gamespace, account, path, scope)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// UpdateAccountProfile handles a trusted caller writing any account's profile.
func (ph *ProfileHandler) UpdateAccountProfile(w http.ResponseWriter, r *http.Request) {

	principal, err := authn.PrincipalFromRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := requireTrusted(principal); err != nil {
		utils.HandleError(w, err)
		return
	}

	request, err := decodeWriteRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	account := r.PathValue("account")
	path := utils.ParsePath(r.PathValue("path"))

	profileService := provider.NewProfilesProvider().GetProfileService()
	result, err := profileService.SetProfile(
		principal.Gamespace, account, request.Data, path, mergeFlag(request), service.ScopeTrusted)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteAccountProfile handles a trusted caller removing an account's profile.
func (ph *ProfileHandler) DeleteAccountProfile(w http.ResponseWriter, r *http.Request) {

	principal, err := authn.PrincipalFromRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := requireTrusted(principal); err != nil {
		utils.HandleError(w, err)
		return
	}

	account := r.PathValue("account")

	profileService := provider.NewProfilesProvider().GetProfileService()
	if err := profileService.DeleteProfile(principal.Gamespace, account); err != nil {
		utils.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkGetProfiles handles a trusted caller querying many accounts at once.
func (ph *ProfileHandler) BulkGetProfiles(w http.ResponseWriter, r *http.Request) {

	principal, err := authn.PrincipalFromRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := requireTrusted(principal); err != nil {
		utils.HandleError(w, err)
		return
	}

	var request bulkProfilesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors2.NewClientErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "bulk profiles"),
		}, http.StatusBadRequest, syscontext.GetTraceID(r.Context())))
		return
	}

	profileService := provider.NewProfilesProvider().GetProfileService()
	result, err := profileService.BulkGetProfiles(
		principal.Gamespace, request.Action, request.Accounts, request.ProfileFields)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

func decodeWriteRequest(r *http.Request) (writeProfileRequest, error) {

	var request writeProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return request, errors2.NewClientErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "profile"),
		}, http.StatusBadRequest, syscontext.GetTraceID(r.Context()))
	}
	return request, nil
}

// mergeFlag defaults to merge semantics unless the caller asked for a replace.
func mergeFlag(request writeProfileRequest) bool {
	if request.Merge == nil {
		return true
	}
	return *request.Merge
}

func requireScope(principal authn.Principal, scope string) error {
	if principal.HasScope(scope) {
		return nil
	}
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.FORBIDDEN_SCOPE.Code,
		Message:     errors2.FORBIDDEN_SCOPE.Message,
		Description: "Token is missing the '" + scope + "' scope.",
	}, http.StatusForbidden)
}

func requireTrusted(principal authn.Principal) error {
	if principal.Trusted() {
		return nil
	}
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.FORBIDDEN_SCOPE.Code,
		Message:     errors2.FORBIDDEN_SCOPE.Message,
		Description: "Operation is restricted to trusted callers.",
	}, http.StatusForbidden)
}
