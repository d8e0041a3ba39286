package store

import (
	"encoding/json"
	"fmt"

	"github.com/anthill-platform/profile-service/internal/access/model"
	"github.com/anthill-platform/profile-service/internal/system/cache"
	"github.com/anthill-platform/profile-service/internal/system/database/provider"
	"github.com/anthill-platform/profile-service/internal/system/database/scripts"
	errors2 "github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/log"
)

// AccessStoreInterface defines the persistence operations for gamespace
// access rules.
type AccessStoreInterface interface {
	GetRules(gamespace string) (model.AccessRuleSet, error)
	SetRules(gamespace string, rules model.AccessRuleSet) error
}

// AccessStore persists one rule row per gamespace and keeps a TTL-bounded
// cache in front of it. A rules update does not invalidate the cache; stale
// rules may be served until the TTL expires.
type AccessStore struct {
	dbProvider provider.DBProviderInterface
	rulesCache cache.CacheInterface
}

// NewAccessStore creates an AccessStore backed by the given database provider
// and cache.
func NewAccessStore(dbProvider provider.DBProviderInterface, rulesCache cache.CacheInterface) *AccessStore {

	return &AccessStore{
		dbProvider: dbProvider,
		rulesCache: rulesCache,
	}
}

// GetRules returns the rule set of the gamespace. A gamespace without a rule
// row yields the zero-value rule set, never an error.
func (s *AccessStore) GetRules(gamespace string) (model.AccessRuleSet, error) {

	cacheKey := rulesCacheKey(gamespace)
	if cached, found := s.rulesCache.Get(cacheKey); found {
		if rules, ok := cached.(model.AccessRuleSet); ok {
			return rules, nil
		}
	}

	dbClient, err := s.dbProvider.GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching access rules"
		logger.Debug(errorMsg, log.Error(err))
		return model.AccessRuleSet{}, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(scripts.QueryGetAccessRules, gamespace)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch access rules for gamespace: %s", gamespace)
		logger.Debug(errorMsg, log.Error(err))
		return model.AccessRuleSet{}, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_ACCESS_RULES.Code,
			Message:     errors2.GET_ACCESS_RULES.Message,
			Description: errorMsg,
		}, err)
	}

	if len(results) == 0 {
		// No rule row; everything is readable by the owner, nothing public.
		rules := model.AccessRuleSet{}
		s.rulesCache.Set(cacheKey, rules)
		return rules, nil
	}

	rules, err := scanRulesRow(results[0])
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to decode access rules for gamespace: %s", gamespace)
		logger.Debug(errorMsg, log.Error(err))
		return model.AccessRuleSet{}, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNMARSHAL_JSON.Code,
			Message:     errors2.UNMARSHAL_JSON.Message,
			Description: errorMsg,
		}, err)
	}

	s.rulesCache.Set(cacheKey, rules)
	return rules, nil
}

// SetRules replaces the rule sets of the gamespace wholesale, creating the
// row on first write.
func (s *AccessStore) SetRules(gamespace string, rules model.AccessRuleSet) error {

	dbClient, err := s.dbProvider.GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for updating access rules"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	privateJSON, _ := json.Marshal(emptyIfNil(rules.Private))
	protectedJSON, _ := json.Marshal(emptyIfNil(rules.Protected))
	publicJSON, _ := json.Marshal(emptyIfNil(rules.Public))

	_, err = dbClient.Execute(scripts.QueryUpsertAccessRules, gamespace, privateJSON, protectedJSON, publicJSON)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to upsert access rules for gamespace: %s", gamespace)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.SET_ACCESS_RULES.Code,
			Message:     errors2.SET_ACCESS_RULES.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info("Access rules updated", log.String("gamespace", gamespace))
	return nil
}

func scanRulesRow(row map[string]interface{}) (model.AccessRuleSet, error) {

	var rules model.AccessRuleSet

	if err := unmarshalColumn(row["access_private"], &rules.Private); err != nil {
		return model.AccessRuleSet{}, err
	}
	if err := unmarshalColumn(row["access_protected"], &rules.Protected); err != nil {
		return model.AccessRuleSet{}, err
	}
	if err := unmarshalColumn(row["access_public"], &rules.Public); err != nil {
		return model.AccessRuleSet{}, err
	}
	return rules, nil
}

func unmarshalColumn(raw interface{}, target *[]string) error {
	if raw == nil {
		return nil
	}
	blob, ok := raw.([]byte)
	if !ok {
		return fmt.Errorf("unexpected column type %T for access rule set", raw)
	}
	return json.Unmarshal(blob, target)
}

func emptyIfNil(fields []string) []string {
	if fields == nil {
		return []string{}
	}
	return fields
}

func rulesCacheKey(gamespace string) string {
	return "access_rules:" + gamespace
}
