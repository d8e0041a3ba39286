package errors

const errorPrefix = "PFS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	TX_BEGIN = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Unable to begin database transaction.",
	}

	GET_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while fetching profile.",
	}

	UPDATE_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while updating profile.",
	}

	DELETE_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while deleting profile.",
	}

	GET_ACCESS_RULES = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while fetching gamespace access rules.",
	}

	SET_ACCESS_RULES = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while updating gamespace access rules.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while encoding a JSON payload.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while decoding a JSON payload.",
	}

	// Client error codes

	PROFILE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Profile was not found.",
	}

	ACCESS_DENIED = ErrorMessage{
		Code:    errorPrefix + "11002",
		Message: "Access denied.",
	}

	INVALID_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Invalid request payload.",
	}

	BULK_LIMIT_EXCEEDED = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Maximum account limit exceeded (1000).",
	}

	INVALID_BULK_ACTION = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "No such profile action.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Authentication failed.",
	}

	FORBIDDEN_SCOPE = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Caller does not have the required scope.",
	}
)
