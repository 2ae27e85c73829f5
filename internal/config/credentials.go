package config

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidwall/gjson"
)

// StoreCredentials is the decoded STORE_CREDENTIALS blob. Which fields are
// required depends on the history backend:
//
//	firestore: a service-account JSON key (project_id is read from it)
//	postgres:  {"dsn": "postgres://..."}
//	mongo:     {"uri": "mongodb://...", "database": "studyultra"}
//	sqlite:    {"path": "studyultra.db"}
//	memory:    {}
type StoreCredentials struct {
	Backend   string
	Raw       []byte
	ProjectID string
	DSN       string
	URI       string
	Database  string
	Path      string
}

const defaultMongoDatabase = "studyultra"

// ParseStoreCredentials decodes and validates the credentials blob for backend.
func ParseStoreCredentials(backend, raw string) (*StoreCredentials, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New("STORE_CREDENTIALS is not valid JSON")
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return nil, errors.New("STORE_CREDENTIALS must be a JSON object")
	}

	creds := &StoreCredentials{
		Backend:   backend,
		Raw:       []byte(raw),
		ProjectID: doc.Get("project_id").String(),
		DSN:       doc.Get("dsn").String(),
		URI:       doc.Get("uri").String(),
		Database:  doc.Get("database").String(),
		Path:      doc.Get("path").String(),
	}
	if backend == BackendMongo && creds.Database == "" {
		creds.Database = defaultMongoDatabase
	}

	err := validation.ValidateStruct(creds,
		validation.Field(&creds.ProjectID, validation.When(backend == BackendFirestore, validation.Required.Error("project_id is required"))),
		validation.Field(&creds.DSN, validation.When(backend == BackendPostgres, validation.Required.Error("dsn is required"))),
		validation.Field(&creds.URI, validation.When(backend == BackendMongo, validation.Required.Error("uri is required"))),
		validation.Field(&creds.Path, validation.When(backend == BackendSQLite, validation.Required.Error("path is required"))),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_CREDENTIALS for %s: %w", backend, err)
	}
	return creds, nil
}
