package assets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/secondchance-api/internal/config"
)

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.AssetsConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case "filesystem":
		return NewFilesystemStore(cfg.Dir, cfg.PublicPath, cfg.MaxUploadBytes, logger)
	case "s3":
		return NewS3Store(ctx, cfg.S3, cfg.MaxUploadBytes, logger)
	default:
		return nil, fmt.Errorf("unknown asset backend %q", cfg.Backend)
	}
}
