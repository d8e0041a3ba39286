package service

import (
	"net/http"
	"os"
	"testing"

	accessmodel "github.com/anthill-platform/profile-service/internal/access/model"
	accessservice "github.com/anthill-platform/profile-service/internal/access/service"
	"github.com/anthill-platform/profile-service/internal/profile/model"
	"github.com/anthill-platform/profile-service/internal/profile/store"
	errors2 "github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

// fakeAccessStore backs a real AccessService so the tier logic under test is
// the production one.
type fakeAccessStore struct {
	rules map[string]accessmodel.AccessRuleSet
}

func (f *fakeAccessStore) GetRules(gamespace string) (accessmodel.AccessRuleSet, error) {
	return f.rules[gamespace], nil
}

func (f *fakeAccessStore) SetRules(gamespace string, rules accessmodel.AccessRuleSet) error {
	f.rules[gamespace] = rules
	return nil
}

// fakeProfileStore keeps documents in memory with the store's merge and
// narrowing semantics, minus timestamp stamping.
type fakeProfileStore struct {
	docs   map[string]model.Document
	writes int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{docs: make(map[string]model.Document)}
}

func docKey(gamespace, account string) string {
	return gamespace + "/" + account
}

func (f *fakeProfileStore) Read(gamespace, account string, path []string) (interface{}, error) {
	doc, ok := f.docs[docKey(gamespace, account)]
	if !ok {
		return nil, store.ErrNoSuchProfile
	}
	return model.Narrow(doc, path), nil
}

func (f *fakeProfileStore) Write(gamespace, account string, fields model.Document, path []string, merge bool) (interface{}, error) {
	f.writes++
	key := docKey(gamespace, account)
	existing, exists := f.docs[key]

	var doc model.Document
	if merge && exists {
		doc = model.Merge(existing, fields)
	} else {
		doc = model.Merge(model.Document{}, fields)
	}
	f.docs[key] = doc
	return model.Narrow(doc, path), nil
}

func (f *fakeProfileStore) Delete(gamespace, account string) error {
	delete(f.docs, docKey(gamespace, account))
	return nil
}

func newTestService(rules map[string]accessmodel.AccessRuleSet) (*ProfileService, *fakeProfileStore) {
	if rules == nil {
		rules = make(map[string]accessmodel.AccessRuleSet)
	}
	profiles := newFakeProfileStore()
	access := accessservice.NewAccessService(&fakeAccessStore{rules: rules})
	return NewProfileService(access, profiles), profiles
}

func scenarioRules() map[string]accessmodel.AccessRuleSet {
	return map[string]accessmodel.AccessRuleSet{
		"gs1": {Public: []string{"level"}, Private: []string{"secret"}},
	}
}

func scenarioPayload() model.Document {
	return model.Document{"level": 5, "secret": "x", "name": "Bob"}
}

func TestGetProfile_Self_NoRules_ReturnsEverything(t *testing.T) {
	svc, profiles := newTestService(nil)
	profiles.docs[docKey("gs1", "acc1")] = model.Document{"level": 5, "name": "Bob"}

	result, err := svc.GetProfile("gs1", "acc1", nil, ScopeSelf)
	require.NoError(t, err)
	assert.Equal(t, model.Document{"level": 5, "name": "Bob"}, result)
}

func TestGetProfile_Self_ExcludesPrivateFields(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	result, err := svc.GetProfile("gs1", "acc1", nil, ScopeSelf)
	require.NoError(t, err)
	assert.Equal(t, model.Document{"level": 5, "name": "Bob"}, result)
}

func TestGetProfile_Others_ReturnsOnlyPublicFields(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	result, err := svc.GetProfile("gs1", "acc1", nil, ScopeOthers)
	require.NoError(t, err)
	assert.Equal(t, model.Document{"level": 5}, result)
}

func TestGetProfile_Trusted_ReturnsRawDocument(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	result, err := svc.GetProfile("gs1", "acc1", nil, ScopeTrusted)
	require.NoError(t, err)
	assert.Equal(t, scenarioPayload(), result)
}

func TestGetProfile_Missing_NotFound(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.GetProfile("gs1", "absent", nil, ScopeSelf)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)
}

func TestGetProfile_Self_PathOnPrivateField_SoftFails(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	result, err := svc.GetProfile("gs1", "acc1", []string{"secret"}, ScopeSelf)
	require.NoError(t, err, "single-field visibility check fails soft")
	assert.Nil(t, result)
}

func TestGetProfile_Others_PathOnPublicField_ReturnsValue(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	result, err := svc.GetProfile("gs1", "acc1", []string{"level"}, ScopeOthers)
	require.NoError(t, err)
	assert.Equal(t, 5, result)
}

func TestGetProfile_Others_PathOnNonPublicField_SoftFails(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	result, err := svc.GetProfile("gs1", "acc1", []string{"name"}, ScopeOthers)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSetProfile_Self_PrivateField_AccessDeniedBeforeMutation(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	_, err := svc.SetProfile("gs1", "acc1", model.Document{"secret": "y"}, nil, true, ScopeSelf)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusForbidden, clientErr.StatusCode)

	assert.Equal(t, 0, profiles.writes, "check must run strictly before any mutation")
	assert.Equal(t, "x", profiles.docs[docKey("gs1", "acc1")]["secret"])
}

func TestSetProfile_Self_AllowedFields_Writes(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())

	result, err := svc.SetProfile("gs1", "acc1", model.Document{"name": "Bob"}, nil, true, ScopeSelf)
	require.NoError(t, err)
	assert.Equal(t, model.Document{"name": "Bob"}, result)
	assert.Equal(t, 1, profiles.writes)
}

func TestSetProfile_Self_PathHeadChecked(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	_, err := svc.SetProfile("gs1", "acc1", model.Document{"secret": "y"}, []string{"secret"}, true, ScopeSelf)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusForbidden, clientErr.StatusCode)
}

func TestSetProfile_Trusted_BypassesAccessChecks(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())

	_, err := svc.SetProfile("gs1", "acc1", model.Document{"secret": "y"}, nil, true, ScopeTrusted)
	require.NoError(t, err)
	assert.Equal(t, "y", profiles.docs[docKey("gs1", "acc1")]["secret"])
}

func TestSetProfile_NilFields_ValidationFailure(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.SetProfile("gs1", "acc1", nil, nil, true, ScopeSelf)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
}

func TestSetProfile_Replace_DiscardsExistingFields(t *testing.T) {
	svc, profiles := newTestService(nil)
	profiles.docs[docKey("gs1", "acc1")] = model.Document{"level": 5, "name": "Bob"}

	_, err := svc.SetProfile("gs1", "acc1", model.Document{"level": 6}, nil, false, ScopeSelf)
	require.NoError(t, err)
	assert.Equal(t, model.Document{"level": 6}, profiles.docs[docKey("gs1", "acc1")])
}

func TestDeleteProfile_RemovesDocument(t *testing.T) {
	svc, profiles := newTestService(nil)
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	require.NoError(t, svc.DeleteProfile("gs1", "acc1"))
	_, ok := profiles.docs[docKey("gs1", "acc1")]
	assert.False(t, ok)
}

func TestBulkGetProfiles_OverLimit_ValidationFailure(t *testing.T) {
	svc, _ := newTestService(nil)

	accounts := make([]string, 1001)
	for i := range accounts {
		accounts[i] = "acc"
	}

	_, err := svc.BulkGetProfiles("gs1", "get_private", accounts, nil)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.BULK_LIMIT_EXCEEDED.Code, clientErr.Code)
}

func TestBulkGetProfiles_AtLimit_Succeeds(t *testing.T) {
	svc, _ := newTestService(nil)

	accounts := make([]string, 1000)
	for i := range accounts {
		accounts[i] = "acc"
	}

	_, err := svc.BulkGetProfiles("gs1", "get_private", accounts, nil)
	assert.NoError(t, err)
}

func TestBulkGetProfiles_UnknownAction_Fails(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.BulkGetProfiles("gs1", "get_everything", []string{"acc1"}, nil)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.INVALID_BULK_ACTION.Code, clientErr.Code)
}

func TestBulkGetProfiles_Private_ReturnsRawDocuments(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	result, err := svc.BulkGetProfiles("gs1", "get_private", []string{"acc1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, scenarioPayload(), result["acc1"])
}

func TestBulkGetProfiles_Private_FieldFilterIntersectsDirectly(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	// No access check for the private action; even private fields pass.
	result, err := svc.BulkGetProfiles("gs1", "get_private", []string{"acc1"}, []string{"secret", "absent"})
	require.NoError(t, err)
	assert.Equal(t, model.Document{"secret": "x"}, result["acc1"])
}

func TestBulkGetProfiles_Private_MissingDocumentIsEmpty(t *testing.T) {
	svc, _ := newTestService(nil)

	result, err := svc.BulkGetProfiles("gs1", "get_private", []string{"absent"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Document{}, result["absent"])
}

func TestBulkGetProfiles_Public_UsesFullPublicSetWithoutFilter(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()
	profiles.docs[docKey("gs1", "acc2")] = model.Document{"level": 7}

	result, err := svc.BulkGetProfiles("gs1", "get_public", []string{"acc1", "acc2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Document{"level": 5}, result["acc1"])
	assert.Equal(t, model.Document{"level": 7}, result["acc2"])
}

func TestBulkGetProfiles_Public_FilterNarrowedThroughAccessCheck(t *testing.T) {
	svc, profiles := newTestService(scenarioRules())
	profiles.docs[docKey("gs1", "acc1")] = scenarioPayload()

	result, err := svc.BulkGetProfiles("gs1", "get_public", []string{"acc1"}, []string{"level", "secret"})
	require.NoError(t, err)
	assert.Equal(t, model.Document{"level": 5}, result["acc1"], "non-public filter fields are dropped")
}

func TestBulkGetProfiles_Public_MissingDocumentYieldsEmptyMap(t *testing.T) {
	svc, _ := newTestService(scenarioRules())

	result, err := svc.BulkGetProfiles("gs1", "get_public", []string{"absent"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Document{}, result["absent"])
}
