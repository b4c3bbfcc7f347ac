package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/multillm/survey-stack/common/postgrest"
)

// Backend names accepted by Open.
const (
	BackendFile      = "file"
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
)

// Options selects and configures one backend.
type Options struct {
	Backend string

	FilePath string

	PostgREST postgrest.Config

	PostgresDSN   string
	MigrationsURL string
	AutoMigrate   bool
}

// Open builds the backend named by opts.Backend.
// Missing location or credentials yield ErrConfigurationMissing so callers can
// keep serving and report the configuration problem per request.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendFile:
		if strings.TrimSpace(opts.FilePath) == "" {
			return nil, fmt.Errorf("%w: storage.file.path is empty", ErrConfigurationMissing)
		}
		s := NewFileStore(opts.FilePath)
		if err := s.Ensure(); err != nil {
			return nil, err
		}
		return s, nil

	case BackendPostgREST:
		if strings.TrimSpace(opts.PostgREST.URL) == "" || strings.TrimSpace(opts.PostgREST.Key) == "" {
			return nil, fmt.Errorf("%w: missing storage.postgrest.url / storage.postgrest.key", ErrConfigurationMissing)
		}
		s, err := NewPostgRESTStore(opts.PostgREST)
		if err != nil {
			return nil, err
		}
		return s, nil

	case BackendPostgres:
		if strings.TrimSpace(opts.PostgresDSN) == "" {
			return nil, fmt.Errorf("%w: storage.postgres.dsn is empty", ErrConfigurationMissing)
		}
		if opts.AutoMigrate && opts.MigrationsURL != "" {
			if err := RunMigrations(opts.MigrationsURL, opts.PostgresDSN); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
			}
		}
		s, err := NewPostgresStore(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil

	case "":
		return nil, fmt.Errorf("%w: storage.backend is empty", ErrConfigurationMissing)

	default:
		return nil, fmt.Errorf("unknown storage backend %q (supported: file, postgrest, postgres)", opts.Backend)
	}
}
