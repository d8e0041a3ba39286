package managers

import (
	"net/http"

	"github.com/anthill-platform/profile-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	services.NewProfileService(sm.mux, apiBasePath)
	services.NewAccessService(sm.mux, apiBasePath)

	return nil
}
