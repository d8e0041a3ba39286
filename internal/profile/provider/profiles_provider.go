package provider

import (
	"github.com/anthill-platform/profile-service/internal/profile/service"
)

// ProfilesProviderInterface defines the interface for the profiles provider.
type ProfilesProviderInterface interface {
	GetProfileService() service.ProfileServiceInterface
}

// ProfilesProvider is the default implementation of the ProfilesProviderInterface.
type ProfilesProvider struct{}

// NewProfilesProvider creates a new instance of ProfilesProvider.
func NewProfilesProvider() ProfilesProviderInterface {

	return &ProfilesProvider{}
}

// GetProfileService returns the profile service instance.
func (pp *ProfilesProvider) GetProfileService() service.ProfileServiceInterface {

	return service.GetProfileService()
}
