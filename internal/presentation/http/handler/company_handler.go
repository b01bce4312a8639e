package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoiceau-api/internal/application/service"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
)

// CompanyHandler handles the caller's sender companies
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// List returns the caller's companies
// @Router /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	companies, err := h.companyService.ListCompanies(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Companies retrieved", companies)
}

// Create handles company creation with an optional logo
// @Summary Create company
// @Tags companies
// @Accept multipart/form-data
// @Produce json
// @Param company_name formData string true "Company name"
// @Param logo formData file false "Logo (png, jpg, jpeg or gif)"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		response.BadRequest(c, "Invalid form body")
		return
	}

	var req request.CreateCompanyRequest
	if err := formDecoder.Decode(&req, c.Request.PostForm); err != nil {
		response.BadRequest(c, "Invalid form body")
		return
	}

	var logo *service.LogoUpload
	file, header, err := c.Request.FormFile("logo")
	switch {
	case err == nil:
		defer file.Close()
		logo = &service.LogoUpload{Filename: header.Filename, Body: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		response.BadRequest(c, "Invalid logo upload")
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), userID, &service.CreateCompanyInput{
		CompanyName:    req.CompanyName,
		ABN:            req.ABN,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		PaymentDetails: req.PaymentDetails,
	}, logo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Company created successfully", company)
}
