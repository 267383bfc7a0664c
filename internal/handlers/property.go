package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/AHKAYY007/Property-finder-dapp/internal/auth"
	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"
	"github.com/AHKAYY007/Property-finder-dapp/internal/dto"
	"github.com/AHKAYY007/Property-finder-dapp/internal/service"
	"github.com/AHKAYY007/Property-finder-dapp/internal/sui"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a single uploaded file.
const maxUploadBytes = 20 << 20 // 20 MiB

type PropertyHandler struct {
	svc *service.PropertyService
}

func NewPropertyHandler(svc *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

// Create godoc
// @Summary      Create a property listing
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreatePropertyRequest  true  "Property body"
// @Success      201   {object}  dto.PropertyResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), user, dom.Property{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Location:    req.Location,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
		Type:        req.PropertyType,
		Images:      req.Images,
		Documents:   req.Documents,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, propertyToResponse(p))
}

// Search godoc
// @Summary      Search property listings
// @Tags         properties
// @Produce      json
// @Param        query          query  string   false  "Text search over title/description/location"
// @Param        min_price      query  number   false  "Minimum price"
// @Param        max_price      query  number   false  "Maximum price"
// @Param        property_type  query  string   false  "house, apartment, land, ..."
// @Param        bedrooms       query  int      false  "Exact bedroom count"
// @Param        bathrooms      query  int      false  "Exact bathroom count"
// @Param        min_area       query  number   false  "Minimum area (sqm)"
// @Param        max_area       query  number   false  "Maximum area (sqm)"
// @Param        location       query  string   false  "Location substring"
// @Param        is_listed      query  bool     false  "Only (un)listed properties"
// @Param        sort_by        query  string   false  "created_at, price, area, bedrooms, bathrooms, title"
// @Param        sort_order     query  string   false  "asc or desc"
// @Param        page           query  int      false  "Page, 1-based"
// @Param        limit          query  int      false  "Page size, max 100"
// @Success      200  {object}  dto.ListPropertiesResponse
// @Failure      400  {object}  map[string]string
// @Router       /properties [get]
func (h *PropertyHandler) Search(c *gin.Context) {
	var q dto.SearchPropertiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.svc.Search(c.Request.Context(), dom.PropertyFilter{
		Query:        q.Query,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		PropertyType: q.PropertyType,
		Bedrooms:     q.Bedrooms,
		Bathrooms:    q.Bathrooms,
		MinArea:      q.MinArea,
		MaxArea:      q.MaxArea,
		Location:     q.Location,
		IsListed:     q.IsListed,
		SortBy:       q.SortBy,
		SortOrder:    q.SortOrder,
		Page:         q.Page,
		Limit:        q.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListPropertiesResponse{Items: propertiesToResponses(list)})
}

// GetByID godoc
// @Summary      Get a property by ID
// @Tags         properties
// @Produce      json
// @Param        id   path      int  true  "Property ID"
// @Success      200  {object}  dto.PropertyResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /properties/{id} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, propertyToResponse(p))
}

// Update godoc
// @Summary      Update a property (owner only)
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Property ID"
// @Param        body  body      dto.UpdatePropertyRequest  true  "Partial update"
// @Success      200   {object}  dto.PropertyResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), user, id, service.PropertyPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Location:    req.Location,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
		Type:        req.PropertyType,
		Images:      req.Images,
		Documents:   req.Documents,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, propertyToResponse(p))
}

// UploadImages godoc
// @Summary      Upload property images to IPFS (owner only)
// @Tags         properties
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int   true  "Property ID"
// @Param        files  formData  file  true  "Image files"
// @Success      200    {object}  dto.UploadResponse
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /properties/{id}/images [post]
func (h *PropertyHandler) UploadImages(c *gin.Context) {
	h.handleUpload(c, h.svc.UploadImages)
}

// UploadDocuments godoc
// @Summary      Upload property documents to IPFS (owner only)
// @Tags         properties
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int   true  "Property ID"
// @Param        files  formData  file  true  "Document files"
// @Success      200    {object}  dto.UploadResponse
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /properties/{id}/documents [post]
func (h *PropertyHandler) UploadDocuments(c *gin.Context) {
	h.handleUpload(c, h.svc.UploadDocuments)
}

func (h *PropertyHandler) handleUpload(c *gin.Context,
	uploadFn func(ctx context.Context, user dom.User, id int64, files []service.Upload) ([]string, error)) {

	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}
	uploads, err := readUploads(files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cids, err := uploadFn(c.Request.Context(), user, id, uploads)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UploadResponse{Hashes: cids})
}

// Mint godoc
// @Summary      Mint a property as an NFT (owner only)
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Property ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      501  {object}  map[string]string
// @Router       /properties/{id}/mint [post]
func (h *PropertyHandler) Mint(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tokenID, err := h.svc.Mint(c.Request.Context(), user, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token_id": tokenID})
}

// List godoc
// @Summary      List a minted property for sale (owner only)
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Property ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      501  {object}  map[string]string
// @Router       /properties/{id}/list [post]
func (h *PropertyHandler) List(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.List(c.Request.Context(), user, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "listed"})
}

// AddFavorite godoc
// @Summary      Add a property to favorites
// @Tags         properties
// @Security     BearerAuth
// @Param        id   path  int  true  "Property ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /properties/{id}/favorite [post]
func (h *PropertyHandler) AddFavorite(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.AddFavorite(c.Request.Context(), user.ID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveFavorite godoc
// @Summary      Remove a property from favorites
// @Tags         properties
// @Security     BearerAuth
// @Param        id   path  int  true  "Property ID"
// @Success      204
// @Router       /properties/{id}/favorite [delete]
func (h *PropertyHandler) RemoveFavorite(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RemoveFavorite(c.Request.Context(), user.ID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PropertyHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, auth.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions"})
	case errors.Is(err, service.ErrAlreadyMinted), errors.Is(err, service.ErrNotMinted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, sui.ErrNotImplemented):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "on-chain operation not available"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func readUploads(files []*multipart.FileHeader) ([]service.Upload, error) {
	uploads := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		// Read one byte past the cap to tell "right at the limit" from "over it".
		content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		if len(content) > maxUploadBytes {
			return nil, fmt.Errorf("file %s exceeds the %d MiB limit", fh.Filename, maxUploadBytes>>20)
		}
		uploads = append(uploads, service.Upload{Name: fh.Filename, Content: content})
	}
	return uploads, nil
}

func propertyToResponse(p dom.Property) dto.PropertyResponse {
	return dto.PropertyResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Currency:     p.Currency,
		Location:     p.Location,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		PropertyType: p.Type,
		TokenID:      p.TokenID,
		OwnerAddress: p.OwnerAddress,
		IsListed:     p.IsListed,
		Images:       p.Images,
		Documents:    p.Documents,
		OwnerID:      p.OwnerID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func propertiesToResponses(list []dom.Property) []dto.PropertyResponse {
	out := make([]dto.PropertyResponse, len(list))
	for i := range list {
		out[i] = propertyToResponse(list[i])
	}
	return out
}
