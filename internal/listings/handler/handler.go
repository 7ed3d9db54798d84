// Package handler exposes the listings HTTP endpoints.
package handler

import (
	"io"
	"net/http"
	"time"

	"house_marketplace_backend/internal/adapters/storage"
	"house_marketplace_backend/internal/listings/domain"
	"house_marketplace_backend/internal/listings/repository"
	"house_marketplace_backend/internal/listings/service"
	"house_marketplace_backend/internal/listings/transport"
	"house_marketplace_backend/platform/apperr"
	"house_marketplace_backend/platform/httpkit"
	"house_marketplace_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for listings.
type Handler struct {
	svc   *service.Service
	store storage.ObjectStore
	log   *logger.Logger
}

func NewHandler(svc *service.Service, store storage.ObjectStore, log *logger.Logger) *Handler {
	return &Handler{svc: svc, store: store, log: log}
}

// Create handles POST /api/v1/listings (multipart form).
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}

	id, err := h.svc.Create(c.Request.Context(), identity.UserID(), draft)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.SubmitListingResponse{ID: id})
}

// Update handles PUT /api/v1/listings/:id (multipart form).
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listingID, ok := parseListingID(c)
	if !ok {
		return
	}

	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}

	id, err := h.svc.Update(c.Request.Context(), identity.UserID(), listingID, draft)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SubmitListingResponse{ID: id})
}

// Get handles GET /api/v1/listings/:id.
func (h *Handler) Get(c *gin.Context) {
	listingID, ok := parseListingID(c)
	if !ok {
		return
	}

	doc, err := h.svc.Get(c.Request.Context(), listingID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromDocument(doc))
}

// Browse handles GET /api/v1/listings with type/offer filters and cursor
// pagination.
func (h *Handler) Browse(c *gin.Context) {
	var req transport.BrowseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid browse query", nil)
		return
	}

	filter := repository.Filter{
		Type:      domain.ListingType(req.Type),
		OfferOnly: req.Offer,
		Limit:     req.Limit,
	}
	if req.Before != "" {
		before, err := time.Parse(time.RFC3339Nano, req.Before)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid 'before' cursor", nil)
			return
		}
		filter.Before = &before
	}

	docs, err := h.svc.Browse(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewListingPage(docs, filter.EffectiveLimit()))
}

// MyListings handles GET /api/v1/me/listings.
func (h *Handler) MyListings(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	docs, err := h.svc.OwnerListings(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewListingPage(docs, 0))
}

// Delete handles DELETE /api/v1/listings/:id.
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listingID, ok := parseListingID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), identity.UserID(), listingID)) {
		return
	}

	httpkit.NoContent(c)
}

// bindDraft binds the form fields and reads the image parts into the draft.
func (h *Handler) bindDraft(c *gin.Context) (*domain.ListingDraft, bool) {
	var req transport.SubmitListingRequest
	if err := c.ShouldBind(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid listing form", err.Error())
		return nil, false
	}

	images, err := h.parseImages(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return nil, false
	}

	return req.ToDraft(images), true
}

// parseImages reads the multipart image parts, enforcing the per-file size
// and content-type constraints at the boundary. The image-count limit is a
// draft rule and is checked by the pipeline, not here.
func (h *Handler) parseImages(c *gin.Context) ([]domain.ImageFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.BadRequest("multipart form required")
	}

	files := form.File["images"]
	images := make([]domain.ImageFile, 0, len(files))
	for _, fileHeader := range files {
		if err := h.store.ValidateFileSize(fileHeader.Size); err != nil {
			return nil, apperr.Validation(err.Error())
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if err := h.store.ValidateContentType(contentType); err != nil {
			return nil, apperr.Validation(err.Error())
		}

		file, err := fileHeader.Open()
		if err != nil {
			return nil, apperr.Wrap(apperr.KindBadRequest, "failed to read image", err)
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, apperr.Wrap(apperr.KindBadRequest, "failed to read image", err)
		}

		images = append(images, domain.ImageFile{
			Name:        fileHeader.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	return images, nil
}

func parseListingID(c *gin.Context) (uuid.UUID, bool) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid listing id", nil)
		return uuid.Nil, false
	}
	return listingID, true
}
