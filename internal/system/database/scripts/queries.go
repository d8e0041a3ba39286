package scripts

// The service owns exactly two tables: gamespace_access holds one rule row
// per gamespace, account_profiles holds one payload row per
// (gamespace, account) pair.

const (
	QueryGetAccessRules = `
		SELECT access_private, access_protected, access_public
		FROM gamespace_access
		WHERE gamespace_id = $1;`

	QueryUpsertAccessRules = `
		INSERT INTO gamespace_access (gamespace_id, access_private, access_protected, access_public)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (gamespace_id) DO UPDATE
		SET access_private = EXCLUDED.access_private,
		    access_protected = EXCLUDED.access_protected,
		    access_public = EXCLUDED.access_public;`

	// QueryGetProfileForUpdate locks the row for the duration of the
	// surrounding transaction, serializing concurrent writers to the same
	// document.
	QueryGetProfileForUpdate = `
		SELECT payload
		FROM account_profiles
		WHERE gamespace_id = $1 AND account_id = $2
		FOR UPDATE;`

	QueryInsertProfile = `
		INSERT INTO account_profiles (gamespace_id, account_id, payload)
		VALUES ($1, $2, $3);`

	QueryUpdateProfile = `
		UPDATE account_profiles
		SET payload = $3
		WHERE gamespace_id = $1 AND account_id = $2;`

	QueryDeleteProfile = `
		DELETE FROM account_profiles
		WHERE gamespace_id = $1 AND account_id = $2;`
)
