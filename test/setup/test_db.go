package setup

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS gamespace_access (
    gamespace_id     TEXT PRIMARY KEY,
    access_private   JSONB NOT NULL DEFAULT '[]',
    access_protected JSONB NOT NULL DEFAULT '[]',
    access_public    JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS account_profiles (
    gamespace_id TEXT NOT NULL,
    account_id   TEXT NOT NULL,
    payload      JSONB NOT NULL,
    PRIMARY KEY (gamespace_id, account_id)
);
`

// CreateTables applies the service schema to the test database.
func CreateTables(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
