// Package listings wires the listing submission pipeline and the listings
// HTTP surface.
package listings

import (
	"house_marketplace_backend/internal/adapters/storage"
	apphttp "house_marketplace_backend/internal/http"
	"house_marketplace_backend/internal/listings/handler"
	"house_marketplace_backend/internal/listings/repository"
	"house_marketplace_backend/internal/listings/service"
	"house_marketplace_backend/internal/listings/uploader"
	"house_marketplace_backend/platform/events"
	"house_marketplace_backend/platform/logger"
	"house_marketplace_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the listings bounded context.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, geo service.GeoResolver, store storage.ObjectStore, bucket string, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	uploads := uploader.NewCoordinator(store, bucket, bus, log)
	svc := service.New(repo, geo, uploads, bus, val, log)
	h := handler.NewHandler(svc, store, log)
	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "listings"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/listings")
	public.GET("", m.handler.Browse)
	public.GET("/:id", m.handler.Get)

	ctx.Protected.POST("/listings", m.handler.Create)
	ctx.Protected.PUT("/listings/:id", m.handler.Update)
	ctx.Protected.DELETE("/listings/:id", m.handler.Delete)
	ctx.Protected.GET("/me/listings", m.handler.MyListings)
}

var _ apphttp.Module = (*Module)(nil)
