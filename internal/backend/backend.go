// Package backend selects and constructs the persistence variant at
// startup. The decision is made once; there is no runtime hot-swap.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chitieu/internal/config"
	"chitieu/internal/store"
	"chitieu/internal/store/kv"
	"chitieu/internal/store/local"
	"chitieu/internal/store/remote"
)

type Type string

const (
	AutoBackend      Type = "auto"
	LocalBackend     Type = "local"
	FirestoreBackend Type = "firestore"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case AutoBackend, LocalBackend, FirestoreBackend:
		return true
	default:
		return false
	}
}

// Known sample project ids shipped in setup instructions. Config still
// carrying one of these counts as unconfigured.
var placeholderProjectIDs = map[string]struct{}{
	"your-project-id":    {},
	"example-project-id": {},
}

type Config struct {
	Type Type

	// Local variant
	LocalDBPath  string
	LocalLatency time.Duration
	SeedDemoData bool

	// Firestore variant
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirestoreCollection      string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:                     t,
		LocalDBPath:              appConfig.LocalDBPath,
		LocalLatency:             appConfig.LocalLatency,
		SeedDemoData:             appConfig.SeedDemoData,
		FirestoreProjectID:       appConfig.FirestoreProjectID,
		FirestoreCredentialsFile: appConfig.FirestoreCredentialsFile,
		FirestoreCollection:      appConfig.FirestoreCollection,
	}, nil
}

// FirestoreConfigured reports whether the remote variant's configuration is
// structurally present and not a known placeholder.
func (c Config) FirestoreConfigured() bool {
	if c.FirestoreProjectID == "" || c.FirestoreCollection == "" {
		return false
	}
	_, placeholder := placeholderProjectIDs[c.FirestoreProjectID]
	return !placeholder
}

// Decide resolves the effective backend type. Auto picks firestore only
// when its configuration passes the structural check, local otherwise.
func Decide(c Config) Type {
	if c.Type != AutoBackend {
		return c.Type
	}
	if c.FirestoreConfigured() {
		return FirestoreBackend
	}
	return LocalBackend
}

// Result carries the constructed expense store, the kv handle (always
// open; the theme preference lives there regardless of variant) and a
// cleanup function.
type Result struct {
	Expenses store.Store
	KV       *kv.SQLite
	Cleanup  func() error
}

// Open builds the selected backend.
//
// An explicitly requested firestore backend that fails to initialize is an
// error. In auto mode a failed initialization falls back to the local
// variant, the same observable behavior as missing configuration; the log
// line tells the two apart.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	kvs, err := kv.OpenSQLite(cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open key-value store: %w", err)
	}

	result := &Result{KV: kvs, Cleanup: kvs.Close}

	switch Decide(cfg) {
	case FirestoreBackend:
		fs, err := remote.New(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile, cfg.FirestoreCollection)
		if err != nil {
			if cfg.Type == FirestoreBackend {
				kvs.Close()
				return nil, fmt.Errorf("initialize firestore backend: %w", err)
			}
			logger.Warn("Firestore initialization failed, falling back to local backend",
				"error", err, "project_id", cfg.FirestoreProjectID)
			result.Expenses = local.New(kvs, cfg.LocalLatency, cfg.SeedDemoData)
			return result, nil
		}
		logger.Info("Initialized firestore backend",
			"project_id", cfg.FirestoreProjectID, "collection", cfg.FirestoreCollection)
		result.Expenses = fs
		result.Cleanup = func() error {
			err := fs.Close()
			if cerr := kvs.Close(); err == nil {
				err = cerr
			}
			return err
		}
		return result, nil

	default:
		logger.Info("Initialized local backend",
			"db_path", cfg.LocalDBPath, "seed_demo", cfg.SeedDemoData)
		result.Expenses = local.New(kvs, cfg.LocalLatency, cfg.SeedDemoData)
		return result, nil
	}
}
