package service

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	accessmodel "github.com/anthill-platform/profile-service/internal/access/model"
	accessservice "github.com/anthill-platform/profile-service/internal/access/service"
	"github.com/anthill-platform/profile-service/internal/profile/model"
	"github.com/anthill-platform/profile-service/internal/profile/store"
	"github.com/anthill-platform/profile-service/internal/system/constants"
	"github.com/anthill-platform/profile-service/internal/system/database/provider"
	errors2 "github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/log"
)

// Scope is the access tier a profile operation runs under. Dispatch is an
// explicit switch so every tier is visible at the call site.
type Scope int

const (
	// ScopeSelf is an account operating on its own profile.
	ScopeSelf Scope = iota
	// ScopeOthers is an account reading another account's profile.
	ScopeOthers
	// ScopeTrusted is a server-side caller exempt from access checks.
	ScopeTrusted
)

// ProfileServiceInterface defines the caller-facing profile operations.
type ProfileServiceInterface interface {
	GetProfile(gamespace, account string, path []string, scope Scope) (interface{}, error)
	SetProfile(gamespace, account string, fields model.Document, path []string, merge bool, scope Scope) (interface{}, error)
	DeleteProfile(gamespace, account string) error
	BulkGetProfiles(gamespace, action string, accountIDs []string, fields []string) (map[string]model.Document, error)
}

// ProfileService composes the access rules service and the profile store. It
// holds no state of its own.
type ProfileService struct {
	access accessservice.AccessServiceInterface
	store  store.ProfileStoreInterface
}

var (
	instance *ProfileService
	once     sync.Once
)

// GetProfileService returns the process-wide profile service.
func GetProfileService() *ProfileService {

	once.Do(func() {
		instance = NewProfileService(
			accessservice.GetAccessService(),
			store.NewProfileStore(provider.NewDBProvider()),
		)
	})
	return instance
}

// NewProfileService creates a ProfileService on top of the given collaborators.
func NewProfileService(access accessservice.AccessServiceInterface, store store.ProfileStoreInterface) *ProfileService {

	return &ProfileService{
		access: access,
		store:  store,
	}
}

// GetProfile reads the account's document under the given scope. With a path,
// a failed visibility check on the selected field yields a nil result rather
// than an error.
func (s *ProfileService) GetProfile(gamespace, account string, path []string, scope Scope) (interface{}, error) {

	data, err := s.store.Read(gamespace, account, path)
	if err != nil {
		return nil, translateStoreError(err)
	}

	if scope == ScopeTrusted {
		return data, nil
	}

	operation := accessmodel.OperationRead
	if scope == ScopeOthers {
		operation = accessmodel.OperationReadOthers
	}

	if len(path) == 0 {
		doc, ok := data.(model.Document)
		if !ok {
			return nil, unexpectedPayloadError(account)
		}
		validKeys, err := s.access.CheckAccess(gamespace, model.TopLevelKeys(doc), operation)
		if err != nil {
			return nil, err
		}
		result := make(model.Document, len(validKeys))
		for _, key := range validKeys {
			result[key] = doc[key]
		}
		return result, nil
	}

	validKeys, err := s.access.CheckAccess(gamespace, []string{path[0]}, operation)
	if err != nil {
		return nil, err
	}
	if len(validKeys) == 0 {
		// Single-field visibility fails soft: no value, not an error.
		return nil, nil
	}
	return data, nil
}

// SetProfile writes fields into the account's document under the given
// scope. For self writes the access check runs strictly before any mutation.
func (s *ProfileService) SetProfile(gamespace, account string, fields model.Document, path []string, merge bool, scope Scope) (interface{}, error) {

	if fields == nil {
		return nil, validationError("Expected 'data' to be an object (a set of fields).")
	}

	if scope != ScopeTrusted {
		checked := fieldNamesForWrite(fields, path)
		if _, err := s.access.CheckAccess(gamespace, checked, accessmodel.OperationWrite); err != nil {
			return nil, err
		}
	}

	result, err := s.store.Write(gamespace, account, fields, path, merge)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return result, nil
}

// DeleteProfile removes the account's document entirely.
func (s *ProfileService) DeleteProfile(gamespace, account string) error {

	if err := s.store.Delete(gamespace, account); err != nil {
		return translateStoreError(err)
	}
	return nil
}

// BulkGetProfiles fans a multi-account query out across the store, applying
// a single access tier per action. Fetches run sequentially in the caller's
// account order; a missing document never aborts the batch.
func (s *ProfileService) BulkGetProfiles(gamespace, action string, accountIDs []string, fields []string) (map[string]model.Document, error) {

	if len(accountIDs) > constants.MaxBulkAccounts {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BULK_LIMIT_EXCEEDED.Code,
			Message:     errors2.BULK_LIMIT_EXCEEDED.Message,
			Description: fmt.Sprintf("Requested %d accounts, limit is %d.", len(accountIDs), constants.MaxBulkAccounts),
		}, http.StatusBadRequest)
	}

	switch action {
	case constants.BulkActionPrivate:
		return s.bulkGetPrivate(gamespace, accountIDs, fields)
	case constants.BulkActionPublic:
		return s.bulkGetPublic(gamespace, accountIDs, fields)
	}

	return nil, errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_BULK_ACTION.Code,
		Message:     errors2.INVALID_BULK_ACTION.Message,
		Description: fmt.Sprintf("No such profile action: %s", action),
	}, http.StatusBadRequest)
}

// bulkGetPrivate returns raw documents, optionally narrowed by a direct
// field intersection. The caller is trusted; no access check applies.
func (s *ProfileService) bulkGetPrivate(gamespace string, accountIDs []string, fields []string) (map[string]model.Document, error) {

	result := make(map[string]model.Document, len(accountIDs))
	for _, accountID := range accountIDs {
		doc, err := s.readDocumentOrEmpty(gamespace, accountID)
		if err != nil {
			return nil, err
		}

		if len(fields) > 0 {
			picked := make(model.Document)
			for _, field := range fields {
				if value, ok := doc[field]; ok {
					picked[field] = value
				}
			}
			result[accountID] = picked
		} else {
			result[accountID] = doc
		}
	}
	return result, nil
}

// bulkGetPublic resolves the effective public field set once, then applies
// it to every account's document.
func (s *ProfileService) bulkGetPublic(gamespace string, accountIDs []string, fields []string) (map[string]model.Document, error) {

	var validFields []string
	var err error
	if len(fields) > 0 {
		validFields, err = s.access.CheckAccess(gamespace, fields, accessmodel.OperationReadOthers)
		if err != nil {
			return nil, err
		}
	} else {
		rules, err := s.access.GetRules(gamespace)
		if err != nil {
			return nil, err
		}
		validFields = rules.Public
	}

	result := make(map[string]model.Document, len(accountIDs))
	for _, accountID := range accountIDs {
		doc, err := s.readDocumentOrEmpty(gamespace, accountID)
		if err != nil {
			return nil, err
		}

		picked := make(model.Document)
		for _, field := range validFields {
			if value, ok := doc[field]; ok {
				picked[field] = value
			}
		}
		result[accountID] = picked
	}
	return result, nil
}

// readDocumentOrEmpty degrades a missing document to an empty one; bulk
// reads never fail on absent accounts.
func (s *ProfileService) readDocumentOrEmpty(gamespace, accountID string) (model.Document, error) {

	data, err := s.store.Read(gamespace, accountID, nil)
	if errors.Is(err, store.ErrNoSuchProfile) {
		return model.Document{}, nil
	}
	if err != nil {
		return nil, translateStoreError(err)
	}
	doc, ok := data.(model.Document)
	if !ok {
		return nil, unexpectedPayloadError(accountID)
	}
	return doc, nil
}

// fieldNamesForWrite returns the field names a write access check covers:
// the path's first segment when a path is given, otherwise every top-level
// key of the incoming fields.
func fieldNamesForWrite(fields model.Document, path []string) []string {
	if len(path) > 0 {
		return []string{path[0]}
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}

func translateStoreError(err error) error {
	if errors.Is(err, store.ErrNoSuchProfile) {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.PROFILE_NOT_FOUND.Code,
			Message:     errors2.PROFILE_NOT_FOUND.Message,
			Description: "Profile was not found.",
		}, http.StatusNotFound)
	}
	return err
}

func validationError(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_REQUEST.Code,
		Message:     errors2.INVALID_REQUEST.Message,
		Description: description,
	}, http.StatusBadRequest)
}

func unexpectedPayloadError(account string) error {
	errorMsg := fmt.Sprintf("Profile payload for account %s is not a JSON object", account)
	log.GetLogger().Error(errorMsg)
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.GET_PROFILE.Code,
		Message:     errors2.GET_PROFILE.Message,
		Description: errorMsg,
	}, nil)
}
