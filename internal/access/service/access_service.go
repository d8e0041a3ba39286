package service

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/anthill-platform/profile-service/internal/access/model"
	"github.com/anthill-platform/profile-service/internal/access/store"
	"github.com/anthill-platform/profile-service/internal/system/cache"
	"github.com/anthill-platform/profile-service/internal/system/config"
	"github.com/anthill-platform/profile-service/internal/system/database/provider"
	errors2 "github.com/anthill-platform/profile-service/internal/system/errors"
)

// AccessServiceInterface defines the access-rule operations used by the
// profile service and the admin handler.
type AccessServiceInterface interface {
	GetRules(gamespace string) (model.AccessRuleSet, error)
	SetRules(gamespace string, rules model.AccessRuleSet) error
	CheckAccess(gamespace string, fields []string, operation model.Operation) ([]string, error)
}

// AccessService answers field-level access checks against the rule sets of a
// gamespace.
type AccessService struct {
	store store.AccessStoreInterface
}

var (
	instance *AccessService
	once     sync.Once
)

// GetAccessService returns the process-wide access service, constructing it
// from the runtime configuration on first use.
func GetAccessService() *AccessService {

	once.Do(func() {
		ttl := time.Duration(config.GetRuntime().Config.Cache.AccessRulesTTLSeconds) * time.Second
		rulesCache := cache.NewCache(ttl)
		instance = NewAccessService(store.NewAccessStore(provider.NewDBProvider(), rulesCache))
	})
	return instance
}

// NewAccessService creates an AccessService on top of the given store.
func NewAccessService(store store.AccessStoreInterface) *AccessService {

	return &AccessService{
		store: store,
	}
}

// GetRules returns the rule set of the gamespace.
func (s *AccessService) GetRules(gamespace string) (model.AccessRuleSet, error) {

	return s.store.GetRules(gamespace)
}

// SetRules replaces the rule set of the gamespace.
func (s *AccessService) SetRules(gamespace string, rules model.AccessRuleSet) error {

	return s.store.SetRules(gamespace, rules)
}

// CheckAccess evaluates the given field names under the given operation.
// Read operations return the allowed subset; a write touching a private or
// protected field fails outright with an access-denied error.
func (s *AccessService) CheckAccess(gamespace string, fields []string, operation model.Operation) ([]string, error) {

	rules, err := s.store.GetRules(gamespace)
	if err != nil {
		return nil, err
	}

	switch operation {
	case model.OperationRead:
		return rules.FilterRead(fields), nil

	case model.OperationReadOthers:
		return rules.FilterReadOthers(fields), nil

	case model.OperationWrite:
		if rules.DeniesWrite(fields) {
			return nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.ACCESS_DENIED.Code,
				Message:     errors2.ACCESS_DENIED.Message,
				Description: "One or more fields are not writable by this caller.",
			}, http.StatusForbidden)
		}
		return fields, nil
	}

	return nil, fmt.Errorf("unknown access operation: %d", operation)
}
