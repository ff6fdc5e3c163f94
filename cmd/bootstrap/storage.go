package bootstrap

import (
	"context"

	"equipment-rental/internal/infra/storage"
	"equipment-rental/internal/pkg/config"
	"equipment-rental/internal/usecase/commands"

	"go.uber.org/fx"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		fx.Annotate(
			NewImageStore,
			fx.As(new(commands.ImageStore)),
		),
	),
)

func NewImageStore(cfg config.Config) (*storage.S3ImageStore, error) {
	return storage.NewS3ImageStore(context.Background(), cfg.S3)
}
