package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pepperonas/taskflow-platform/pkg/persistence"
	"github.com/pepperonas/taskflow-platform/pkg/persistence/file"
	"github.com/pepperonas/taskflow-platform/pkg/persistence/postgresql"
)

// NewPersistence picks the backend from the database URL scheme. Anything
// that is not postgres falls back to the file store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
