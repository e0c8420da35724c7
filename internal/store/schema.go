package store

import "database/sql"

// SchemaSQL is the authoritative schema for embedded sqlite databases
// and for tests. Postgres deployments are provisioned from
// migrations/001_init.sql instead; keep the two in sync.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS crops (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	scientific_name TEXT,
	description TEXT,
	common_in_regions TEXT
);

CREATE TABLE IF NOT EXISTS diseases (
	id INTEGER PRIMARY KEY,
	crop_id INTEGER NOT NULL REFERENCES crops(id),
	name TEXT NOT NULL,
	symptoms TEXT,
	causes TEXT,
	prevention TEXT,
	organic_treatment TEXT,
	chemical_treatment TEXT,
	image_url TEXT
);

CREATE TABLE IF NOT EXISTS diagnoses (
	id INTEGER PRIMARY KEY,
	user_id INTEGER,
	crop_id INTEGER NOT NULL REFERENCES crops(id),
	disease_id INTEGER NOT NULL REFERENCES diseases(id),
	image_url TEXT,
	confidence_score REAL NOT NULL,
	notes TEXT,
	created_at TIMESTAMP NOT NULL,
	is_offline BOOLEAN NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_diseases_crop ON diseases(crop_id);
CREATE INDEX IF NOT EXISTS idx_diagnoses_created ON diagnoses(created_at);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(SchemaSQL)
	return err
}
