package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tausif4802/ggp-backend/internal/usecase"
	res "github.com/tausif4802/ggp-backend/pkg/http"
)

type CatalogHandler struct {
	service usecase.CatalogService
}

func NewCatalogHandler(s usecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// Image fields carry a data URI, base64 payload or remote URL accepted by the image service.
type createCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type createPackageRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Duration    string  `json:"duration"`
	Location    string  `json:"location"`
	Image       string  `json:"image"`
	CategoryID  string  `json:"categoryId"`
}

type updatePackageRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Duration    *string  `json:"duration"`
	Location    *string  `json:"location"`
	Image       *string  `json:"image"`
	CategoryID  *string  `json:"categoryId"`
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	req := new(createCategoryRequest)
	if err := bindAndValidate(c, req); err != nil {
		return res.Error(c, err)
	}
	category, err := h.service.CreateCategory(c.Request().Context(), requestIDFromCtx(c), usecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusCreated, "Category created successfully", category)
}

func (h *CatalogHandler) GetAllCategories(c echo.Context) error {
	categories, err := h.service.GetAllCategories(c.Request().Context(), requestIDFromCtx(c))
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Categories fetched successfully", categories)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	category, err := h.service.GetCategoryByID(c.Request().Context(), requestIDFromCtx(c), c.Param("id"))
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Category fetched successfully", category)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	req := new(updateCategoryRequest)
	if err := bindAndValidate(c, req); err != nil {
		return res.Error(c, err)
	}
	category, err := h.service.UpdateCategory(c.Request().Context(), requestIDFromCtx(c), c.Param("id"), usecase.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Category updated successfully", category)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.service.DeleteCategory(c.Request().Context(), requestIDFromCtx(c), c.Param("id")); err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Category deleted successfully", nil)
}

func (h *CatalogHandler) CreatePackage(c echo.Context) error {
	req := new(createPackageRequest)
	if err := bindAndValidate(c, req); err != nil {
		return res.Error(c, err)
	}
	pkg, err := h.service.CreatePackage(c.Request().Context(), requestIDFromCtx(c), usecase.PackageInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Location:    req.Location,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusCreated, "Package created successfully", pkg)
}

func (h *CatalogHandler) GetAllPackages(c echo.Context) error {
	packages, err := h.service.GetAllPackages(c.Request().Context(), requestIDFromCtx(c))
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Packages fetched successfully", packages)
}

func (h *CatalogHandler) GetPackage(c echo.Context) error {
	pkg, err := h.service.GetPackageByID(c.Request().Context(), requestIDFromCtx(c), c.Param("id"))
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Package fetched successfully", pkg)
}

func (h *CatalogHandler) UpdatePackage(c echo.Context) error {
	req := new(updatePackageRequest)
	if err := bindAndValidate(c, req); err != nil {
		return res.Error(c, err)
	}
	pkg, err := h.service.UpdatePackage(c.Request().Context(), requestIDFromCtx(c), c.Param("id"), usecase.PackagePatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Location:    req.Location,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Package updated successfully", pkg)
}

func (h *CatalogHandler) DeletePackage(c echo.Context) error {
	if err := h.service.DeletePackage(c.Request().Context(), requestIDFromCtx(c), c.Param("id")); err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Package deleted successfully", nil)
}
