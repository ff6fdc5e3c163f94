package components

import (
	"equipment-rental/internal/handler"
	"equipment-rental/internal/handler/api"
	"equipment-rental/internal/handler/middleware"
	"equipment-rental/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cfg config.Config) config.CookieConfig { return cfg.Cookie },
		api.NewAuthHandler,
		api.NewEquipmentHandler,
		api.NewRequestHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
