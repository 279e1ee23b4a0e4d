package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed a demo business if DB is empty (owner/profile/media)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users (business owners)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Business profiles
CREATE TABLE IF NOT EXISTS profiles(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  gstin TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT '',
  additional_services TEXT NOT NULL DEFAULT '',
  hours_json TEXT NOT NULL DEFAULT '{}',
  socials_json TEXT NOT NULL DEFAULT '{}',
  avatar TEXT NOT NULL DEFAULT '',
  banner TEXT NOT NULL DEFAULT '',
  category_id TEXT NOT NULL DEFAULT '',
  sub_category_id TEXT NOT NULL DEFAULT '',
  sub_category_option_id TEXT NOT NULL DEFAULT '',
  status INTEGER NOT NULL DEFAULT 0,
  expires_at TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_slug     ON profiles(LOWER(slug));
CREATE INDEX IF NOT EXISTS idx_profiles_category        ON profiles(category_id);
CREATE INDEX IF NOT EXISTS idx_profiles_name            ON profiles(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_profiles_expires_at      ON profiles(expires_at);

-- Gallery media
CREATE TABLE IF NOT EXISTS media(
  id TEXT PRIMARY KEY,
  profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
  url TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'image' CHECK (type IN ('image','video')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_media_profile ON media(profile_id);

-- Licenses (created at business creation; read-only in the editor)
CREATE TABLE IF NOT EXISTS licenses(
  id TEXT PRIMARY KEY,
  profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  number TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_licenses_profile ON licenses(profile_id);

-- Tags
CREATE TABLE IF NOT EXISTS tags(
  profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  PRIMARY KEY (profile_id, name)
);

-- Payments
CREATE TABLE IF NOT EXISTS payments(
  id TEXT PRIMARY KEY,
  profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
  amount NUMERIC NOT NULL DEFAULT 0,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM profiles`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo owner/profile/media")

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), 12)

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO users(id,name,phone,password_hash) VALUES
	  ('u-demo','Demo Owner','9000000001',?)`, string(hash))

	tx.MustExec(`INSERT INTO profiles(id,user_id,slug,name,description,email,phone,city,state,country,type,category_id,socials_json,hours_json,status) VALUES
	  ('p-demo','u-demo','demo-bakery','Demo Bakery','Fresh bread daily','hello@demo-bakery.test','9000000001','Kochi','Kerala','India','offline','cat-food',
	   '{"website":"https://demo-bakery.test"}','{"monday":"9am - 6pm"}',1)`)

	tx.MustExec(`INSERT INTO media(id,profile_id,url,type) VALUES
	  ('m-demo-1','p-demo','media/demo-storefront.jpg','image')`)

	tx.MustExec(`INSERT INTO tags(profile_id,name) VALUES ('p-demo','bakery'),('p-demo','bread')`)

	return tx.Commit()
}
