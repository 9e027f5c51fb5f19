package handlers

import (
	"errors"
	"strconv"
	"strings"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CatalogHandler handles document type catalog endpoints
type CatalogHandler struct {
	doctypeRepo *repositories.DocumentTypeRepository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(doctypeRepo *repositories.DocumentTypeRepository) *CatalogHandler {
	return &CatalogHandler{
		doctypeRepo: doctypeRepo,
	}
}

// DocumentTypeRequest represents create/update body for a document type
type DocumentTypeRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	UnitPrice       int64  `json:"unit_price"`
	RequiresPurpose bool   `json:"requires_purpose"`
	IsActive        *bool  `json:"is_active"`
}

// ============================================================
// GET /api/v1/catalog — active document types (kiosk menu)
// ============================================================
func (h *CatalogHandler) ListActive(c *fiber.Ctx) error {
	types, err := h.doctypeRepo.ListActive(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load catalog")
	}
	return response.Success(c, "Catalog retrieved", types)
}

// ============================================================
// GET /api/v1/admin/catalog — all document types (staff)
// ============================================================
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	types, err := h.doctypeRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load catalog")
	}
	return response.Success(c, "Catalog retrieved", types)
}

// ============================================================
// POST /api/v1/admin/catalog — add a document type (admin)
// ============================================================
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var req DocumentTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		return response.BadRequest(c, "Code and name are required")
	}
	if req.UnitPrice < 0 {
		return response.BadRequest(c, "Unit price cannot be negative")
	}

	dt := &models.DocumentType{
		Code:            req.Code,
		Name:            req.Name,
		Description:     req.Description,
		UnitPrice:       req.UnitPrice,
		RequiresPurpose: req.RequiresPurpose,
		IsActive:        true,
	}
	if req.IsActive != nil {
		dt.IsActive = *req.IsActive
	}

	if err := h.doctypeRepo.Create(c.Context(), dt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "Document type code already exists")
		}
		return response.InternalServerError(c, "Failed to create document type")
	}

	return response.Created(c, "Document type created", dt)
}

// ============================================================
// PUT /api/v1/admin/catalog/:id — update a document type (admin)
// ============================================================
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document type ID")
	}

	dt, err := h.doctypeRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Document type not found")
		}
		return response.InternalServerError(c, "Failed to load document type")
	}

	var req DocumentTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		dt.Name = name
	}
	if req.Description != "" {
		dt.Description = req.Description
	}
	if req.UnitPrice < 0 {
		return response.BadRequest(c, "Unit price cannot be negative")
	}
	if req.UnitPrice > 0 {
		dt.UnitPrice = req.UnitPrice
	}
	dt.RequiresPurpose = req.RequiresPurpose
	if req.IsActive != nil {
		dt.IsActive = *req.IsActive
	}

	if err := h.doctypeRepo.Update(c.Context(), dt); err != nil {
		return response.InternalServerError(c, "Failed to update document type")
	}

	return response.Success(c, "Document type updated", dt)
}
