package provider

import (
	"github.com/anthill-platform/profile-service/internal/access/service"
)

// AccessProviderInterface defines the interface for the access rules provider.
type AccessProviderInterface interface {
	GetAccessService() service.AccessServiceInterface
}

// AccessProvider is the default implementation of the AccessProviderInterface.
type AccessProvider struct{}

// NewAccessProvider creates a new instance of AccessProvider.
func NewAccessProvider() AccessProviderInterface {

	return &AccessProvider{}
}

// GetAccessService returns the access rules service instance.
func (ap *AccessProvider) GetAccessService() service.AccessServiceInterface {

	return service.GetAccessService()
}
