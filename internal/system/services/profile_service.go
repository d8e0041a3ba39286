package services

import (
	"fmt"
	"net/http"

	"github.com/anthill-platform/profile-service/internal/profile/handler"
)

type ProfileService struct {
	profileHandler *handler.ProfileHandler
}

func NewProfileService(mux *http.ServeMux, apiBasePath string) *ProfileService {

	instance := &ProfileService{
		profileHandler: handler.NewProfileHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *ProfileService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("GET %s/profile/me", apiBasePath), s.profileHandler.GetOwnProfile)
	mux.HandleFunc(fmt.Sprintf("GET %s/profile/me/{path...}", apiBasePath), s.profileHandler.GetOwnProfile)
	mux.HandleFunc(fmt.Sprintf("POST %s/profile/me", apiBasePath), s.profileHandler.UpdateOwnProfile)
	mux.HandleFunc(fmt.Sprintf("POST %s/profile/me/{path...}", apiBasePath), s.profileHandler.UpdateOwnProfile)
	mux.HandleFunc(fmt.Sprintf("GET %s/profile/{account}", apiBasePath), s.profileHandler.GetAccountProfile)
	mux.HandleFunc(fmt.Sprintf("GET %s/profile/{account}/{path...}", apiBasePath), s.profileHandler.GetAccountProfile)
	mux.HandleFunc(fmt.Sprintf("POST %s/profile/{account}", apiBasePath), s.profileHandler.UpdateAccountProfile)
	mux.HandleFunc(fmt.Sprintf("POST %s/profile/{account}/{path...}", apiBasePath), s.profileHandler.UpdateAccountProfile)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/profile/{account}", apiBasePath), s.profileHandler.DeleteAccountProfile)
	mux.HandleFunc(fmt.Sprintf("POST %s/profiles", apiBasePath), s.profileHandler.BulkGetProfiles)
}
