package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthill-platform/profile-service/internal/profile/model"
	"github.com/anthill-platform/profile-service/internal/system/database/provider"
	"github.com/anthill-platform/profile-service/internal/system/database/scripts"
	errors2 "github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/log"
)

// ErrNoSuchProfile is returned when a read targets a (gamespace, account)
// pair that has no document. The profile service translates it into a
// caller-facing not-found condition.
var ErrNoSuchProfile = errors.New("no such profile")

// ProfileStoreInterface defines the persistence operations for profile
// documents.
type ProfileStoreInterface interface {
	Read(gamespace, account string, path []string) (interface{}, error)
	Write(gamespace, account string, fields model.Document, path []string, merge bool) (interface{}, error)
	Delete(gamespace, account string) error
}

// ProfileStore persists one JSON document per (gamespace, account) pair.
// Every read takes the row lock so that concurrent writers to the same
// document serialize; different documents never block each other.
type ProfileStore struct {
	dbProvider provider.DBProviderInterface
}

// NewProfileStore creates a ProfileStore backed by the given database provider.
func NewProfileStore(dbProvider provider.DBProviderInterface) *ProfileStore {

	return &ProfileStore{
		dbProvider: dbProvider,
	}
}

// Read returns the document of the account, narrowed by the path's first
// segment if one is given. Returns ErrNoSuchProfile if the row is absent.
func (s *ProfileStore) Read(gamespace, account string, path []string) (interface{}, error) {

	dbClient, err := s.dbProvider.GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return nil, dbClientError(err, "Failed to get database client for reading a profile")
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		return nil, txBeginError(err)
	}
	defer tx.Rollback()

	doc, _, err := lockDocument(tx, gamespace, account)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		errorMsg := fmt.Sprintf("Failed to commit profile read for account: %s", account)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PROFILE.Code,
			Message:     errors2.GET_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}

	return model.Narrow(doc, path), nil
}

// Write creates or updates the document of the account inside a single
// transaction: the lock-read and the insert-or-update cannot interleave with
// another writer to the same document. Returns the resulting document,
// narrowed by the path's first segment if one is given.
func (s *ProfileStore) Write(gamespace, account string, fields model.Document, path []string, merge bool) (interface{}, error) {

	dbClient, err := s.dbProvider.GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return nil, dbClientError(err, "Failed to get database client for updating a profile")
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		return nil, txBeginError(err)
	}
	defer tx.Rollback()

	existing, exists, err := lockDocument(tx, gamespace, account)
	if err != nil && !errors.Is(err, ErrNoSuchProfile) {
		return nil, err
	}

	fields = model.StripReserved(fields)

	var doc model.Document
	if merge && exists {
		doc = model.Merge(existing, fields)
	} else {
		doc = model.Merge(model.Document{}, fields)
	}
	model.StampTimestamps(doc, time.Now())

	payload, err := json.Marshal(doc)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to encode profile payload for account: %s", account)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.MARSHAL_JSON.Code,
			Message:     errors2.MARSHAL_JSON.Message,
			Description: errorMsg,
		}, err)
	}

	if exists {
		_, err = tx.Exec(scripts.QueryUpdateProfile, gamespace, account, payload)
	} else {
		_, err = tx.Exec(scripts.QueryInsertProfile, gamespace, account, payload)
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to persist profile for account: %s", account)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_PROFILE.Code,
			Message:     errors2.UPDATE_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}

	if err := tx.Commit(); err != nil {
		errorMsg := fmt.Sprintf("Failed to commit profile write for account: %s", account)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_PROFILE.Code,
			Message:     errors2.UPDATE_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Debug("Profile persisted",
		log.String("gamespace", gamespace), log.String("account", account), log.Bool("merge", merge))
	return model.Narrow(doc, path), nil
}

// Delete removes the document row if present. Deleting an absent row is not
// an error.
func (s *ProfileStore) Delete(gamespace, account string) error {

	dbClient, err := s.dbProvider.GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return dbClientError(err, "Failed to get database client for deleting a profile")
	}
	defer dbClient.Close()

	_, err = dbClient.Execute(scripts.QueryDeleteProfile, gamespace, account)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete profile for account: %s", account)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_PROFILE.Code,
			Message:     errors2.DELETE_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// lockDocument reads the payload row under FOR UPDATE within the given
// transaction. The lock is held until the transaction ends.
func lockDocument(tx *sql.Tx, gamespace, account string) (model.Document, bool, error) {

	logger := log.GetLogger()

	var payload []byte
	err := tx.QueryRow(scripts.QueryGetProfileForUpdate, gamespace, account).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, ErrNoSuchProfile
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to lock profile row for account: %s", account)
		logger.Debug(errorMsg, log.Error(err))
		return nil, false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PROFILE.Code,
			Message:     errors2.GET_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}

	var doc model.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		errorMsg := fmt.Sprintf("Failed to decode profile payload for account: %s", account)
		logger.Debug(errorMsg, log.Error(err))
		return nil, false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNMARSHAL_JSON.Code,
			Message:     errors2.UNMARSHAL_JSON.Message,
			Description: errorMsg,
		}, err)
	}

	return doc, true, nil
}

func dbClientError(err error, description string) error {
	log.GetLogger().Debug(description, log.Error(err))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.DB_CLIENT_INIT.Code,
		Message:     errors2.DB_CLIENT_INIT.Message,
		Description: description,
	}, err)
}

func txBeginError(err error) error {
	log.GetLogger().Debug("Failed to begin transaction", log.Error(err))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.TX_BEGIN.Code,
		Message:     errors2.TX_BEGIN.Message,
		Description: "Failed to begin a profile transaction.",
	}, err)
}
