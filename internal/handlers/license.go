// internal/handlers/license.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isows-india/worklicense-backend/internal/i18n"
	"github.com/isows-india/worklicense-backend/internal/services"
	"github.com/isows-india/worklicense-backend/internal/utils"
)

type LicenseHandler struct {
	licenseService     *services.LicenseService
	certificateService *services.CertificateService
}

func NewLicenseHandler(licenseService *services.LicenseService, certificateService *services.CertificateService) *LicenseHandler {
	return &LicenseHandler{
		licenseService:     licenseService,
		certificateService: certificateService,
	}
}

// POST /licenses
func (h *LicenseHandler) IssueLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req services.IssueLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	workID, err := uuid.Parse(req.WorkID)
	if err != nil {
		utils.NotFoundResponse(c, "work")
		return
	}

	license, err := h.licenseService.IssueLicense(workID, identity, req.Metadata())
	if err != nil {
		respondError(c, err, "work")
		return
	}

	utils.CreatedResponse(c, i18n.KeyLicenseIssued, license)
}

// GET /licenses/my-licenses
func (h *LicenseHandler) GetMyLicenses(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	licenses, err := h.licenseService.GetUserLicenses(identity.ID)
	if err != nil {
		respondError(c, err, "license")
		return
	}

	utils.PaginatedResponse(c, utils.Paginate(licenses, utils.GetPaginationParams(c)))
}

// GET /licenses/:id
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "license")
	if !ok {
		return
	}

	license, err := h.licenseService.GetLicense(id, identity.ID)
	if err != nil {
		respondError(c, err, "license")
		return
	}

	utils.SuccessResponse(c, license)
}

// POST /licenses/:id/certificate
func (h *LicenseHandler) GenerateCertificate(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "license")
	if !ok {
		return
	}

	license, err := h.certificateService.Generate(id, identity.ID)
	if err != nil {
		respondError(c, err, "license")
		return
	}

	utils.SuccessResponseWithMessage(c, i18n.KeyLicenseCertificate, gin.H{
		"license":      license,
		"download_url": license.DownloadURL,
	})
}
