package geocode

import (
	apphttp "house_marketplace_backend/internal/http"
	"house_marketplace_backend/platform/config"
	"house_marketplace_backend/platform/logger"
)

// Module wires the geocode lookup HTTP routes.
type Module struct {
	handler *Handler
	svc     *Service
}

func NewModule(cfg config.GeocodeConfig, log *logger.Logger) *Module {
	svc := NewService(cfg, log)
	h := NewHandler(svc)
	return &Module{handler: h, svc: svc}
}

func (m *Module) Name() string {
	return "geocode"
}

// Service exposes the resolver for composition into the listings pipeline.
func (m *Module) Service() *Service {
	return m.svc
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/geocode")
	group.GET("", m.handler.Lookup)
}

var _ apphttp.Module = (*Module)(nil)
