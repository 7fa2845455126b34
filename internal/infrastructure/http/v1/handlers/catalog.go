package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/domain/catalogs/category"
	"makerbooks/internal/domain/catalogs/customer"
	"makerbooks/internal/domain/catalogs/supplier"
	"makerbooks/internal/infrastructure/http/v1/dto"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	*BaseHandler
	service *category.Service
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	return &CategoryHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat := category.New(req.Name, req.Description)
	if err := h.service.Create(ctx, cat); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromCategory(cat))
}

// Get handles GET /catalog/categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	categoryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	cat, err := h.service.GetByID(ctx, categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCategory(cat))
}

// Update handles PUT /catalog/categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	categoryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat, err := h.service.GetByID(ctx, categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	cat.Name = req.Name
	cat.Description = req.Description

	if err := h.service.Update(ctx, cat); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCategory(cat))
}

// List handles GET /catalog/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.CategoryResponse, len(categories))
	for i, cat := range categories {
		items[i] = dto.FromCategory(cat)
	}
	h.OK(c, items)
}

// RegisterRoutes registers category routes.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
}

// SupplierHandler handles HTTP requests for suppliers.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/suppliers.
func (h *SupplierHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup := supplier.New(req.Name)
	sup.Phone = req.Phone
	sup.Email = req.Email
	sup.Address = req.Address

	if err := h.service.Create(ctx, sup); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSupplier(sup))
}

// Get handles GET /catalog/suppliers/:id.
func (h *SupplierHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	supplierID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	sup, err := h.service.GetByID(ctx, supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSupplier(sup))
}

// Update handles PUT /catalog/suppliers/:id.
func (h *SupplierHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	supplierID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.service.GetByID(ctx, supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	sup.Name = req.Name
	sup.Phone = req.Phone
	sup.Email = req.Email
	sup.Address = req.Address

	if err := h.service.Update(ctx, sup); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSupplier(sup))
}

// List handles GET /catalog/suppliers.
func (h *SupplierHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	suppliers, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.SupplierResponse, len(suppliers))
	for i, sup := range suppliers {
		items[i] = dto.FromSupplier(sup)
	}
	h.OK(c, items)
}

// RegisterRoutes registers supplier routes.
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
}

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	*BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust := customer.New(req.Name)
	cust.Phone = req.Phone
	cust.Email = req.Email

	if err := h.service.Create(ctx, cust); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromCustomer(cust))
}

// Get handles GET /catalog/customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	cust, err := h.service.GetByID(ctx, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomer(cust))
}

// Update handles PUT /catalog/customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust, err := h.service.GetByID(ctx, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	cust.Name = req.Name
	cust.Phone = req.Phone
	cust.Email = req.Email

	if err := h.service.Update(ctx, cust); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomer(cust))
}

// List handles GET /catalog/customers.
func (h *CustomerHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	customers, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.CustomerResponse, len(customers))
	for i, cust := range customers {
		items[i] = dto.FromCustomer(cust)
	}
	h.OK(c, items)
}

// RegisterRoutes registers customer routes.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
}
