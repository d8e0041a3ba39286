package handler

import (
	"encoding/json"
	"net/http"

	"github.com/anthill-platform/profile-service/internal/access/model"
	"github.com/anthill-platform/profile-service/internal/access/provider"
	syscontext "github.com/anthill-platform/profile-service/internal/system/context"
	errors2 "github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/security"
	"github.com/anthill-platform/profile-service/internal/system/utils"
)

// AccessHandler exposes the gamespace rule administration endpoints.
type AccessHandler struct{}

func NewAccessHandler() *AccessHandler {

	return &AccessHandler{}
}

type accessRulesRequest struct {
	Gamespace string   `json:"gamespace"`
	Private   []string `json:"private"`
	Protected []string `json:"protected"`
	Public    []string `json:"public"`
}

// GetRules handles rule retrieval requests for a gamespace.
func (ah *AccessHandler) GetRules(w http.ResponseWriter, r *http.Request) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	gamespace := r.URL.Query().Get("gamespace")
	if gamespace == "" {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: "Query parameter 'gamespace' is required.",
		}, http.StatusBadRequest))
		return
	}

	accessService := provider.NewAccessProvider().GetAccessService()
	rules, err := accessService.GetRules(gamespace)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, rules)
}

// SetRules handles wholesale replacement of a gamespace's rule sets.
func (ah *AccessHandler) SetRules(w http.ResponseWriter, r *http.Request) {

	if err := security.AuthnWithAdminCredentials(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	var request accessRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors2.NewClientErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "access rules"),
		}, http.StatusBadRequest, syscontext.GetTraceID(r.Context())))
		return
	}

	if request.Gamespace == "" {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: "Field 'gamespace' is required.",
		}, http.StatusBadRequest))
		return
	}

	accessService := provider.NewAccessProvider().GetAccessService()
	rules := model.AccessRuleSet{
		Private:   request.Private,
		Protected: request.Protected,
		Public:    request.Public,
	}
	if err := accessService.SetRules(request.Gamespace, rules); err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, rules)
}
