package services

import (
	"fmt"
	"net/http"

	"github.com/anthill-platform/profile-service/internal/access/handler"
)

type AccessService struct {
	accessHandler *handler.AccessHandler
}

func NewAccessService(mux *http.ServeMux, apiBasePath string) *AccessService {

	instance := &AccessService{
		accessHandler: handler.NewAccessHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *AccessService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("GET %s/access", apiBasePath), s.accessHandler.GetRules)
	mux.HandleFunc(fmt.Sprintf("PUT %s/access", apiBasePath), s.accessHandler.SetRules)
}
