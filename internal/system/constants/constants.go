package constants

// ApiBasePath is the prefix under which all routes are registered.
const ApiBasePath = "/api/v1"

// Reserved top-level profile keys managed by the store. They are stamped on
// every write and never supplied by callers.
const (
	TimeCreatedField = "@time_created"
	TimeUpdatedField = "@time_updated"
)

// MaxBulkAccounts caps how many account IDs a single bulk query may carry.
const MaxBulkAccounts = 1000

// Bulk query actions.
const (
	BulkActionPrivate = "get_private"
	BulkActionPublic  = "get_public"
)

// Token scopes understood by the service.
const (
	ScopeProfile        = "profile"         // read own and other profiles
	ScopeProfileWrite   = "profile_write"   // write own profile
	ScopeProfilePrivate = "profile_private" // trusted server-side caller
)

// JWT claims carrying the caller identity.
const (
	ClaimAccount   = "sub"
	ClaimGamespace = "gamespace"
	ClaimScope     = "scope"
)

type ContextKey string

const (
	TraceIDContextKey   ContextKey = "traceID"
	GamespaceContextKey ContextKey = "gamespace"
	AccountContextKey   ContextKey = "account"
)
