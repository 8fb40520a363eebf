// internal/handlers/verification.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isows-india/worklicense-backend/internal/i18n"
	"github.com/isows-india/worklicense-backend/internal/services"
	"github.com/isows-india/worklicense-backend/internal/utils"
)

const (
	APIVersion = "1.0.0"
	verifiedBy = "ISOWS-INDIA API v1.0"
)

type VerificationHandler struct {
	licenseService *services.LicenseService
}

func NewVerificationHandler(licenseService *services.LicenseService) *VerificationHandler {
	return &VerificationHandler{
		licenseService: licenseService,
	}
}

// GET /verify/:id
func (h *VerificationHandler) VerifyLicense(c *gin.Context) {
	id, ok := parseIDParam(c, "license")
	if !ok {
		return
	}

	verification, err := h.licenseService.Verify(id)
	if err != nil {
		respondError(c, err, "license")
		return
	}

	utils.SuccessResponseWithMessage(c, i18n.KeyLicenseVerified, gin.H{
		"license": verification.License,
		"work":    verification.Work,
		"verification": gin.H{
			"verified":    true,
			"verified_at": time.Now().UTC(),
			"verified_by": verifiedBy,
		},
	})
}

// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "worklicense-backend",
		"version":   APIVersion,
		"timestamp": time.Now().UTC(),
	})
}

// GET /docs
func Docs(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"name":        "ISOWS-INDIA Work Licensing API",
		"version":     APIVersion,
		"description": "Public API for license verification and work authentication",
		"endpoints": []gin.H{
			{"method": "GET", "path": "/v1/verify/:id", "auth": false, "description": "Verify a license and view its public work details"},
			{"method": "POST", "path": "/v1/works", "auth": true, "description": "Submit a work for originality checking"},
			{"method": "POST", "path": "/v1/works/upload", "auth": true, "description": "Submit a .txt or .docx file"},
			{"method": "GET", "path": "/v1/works", "auth": true, "description": "List your works"},
			{"method": "GET", "path": "/v1/works/:id", "auth": true, "description": "Get one of your works"},
			{"method": "PUT", "path": "/v1/works/:id", "auth": true, "description": "Edit a work's title or content"},
			{"method": "DELETE", "path": "/v1/works/:id", "auth": true, "description": "Delete an unlicensed work"},
			{"method": "GET", "path": "/v1/works/:id/revisions", "auth": true, "description": "List a work's revision history"},
			{"method": "GET", "path": "/v1/works/:id/plagiarism", "auth": true, "description": "Re-run the originality check"},
			{"method": "POST", "path": "/v1/licenses", "auth": true, "description": "Issue a license for a work"},
			{"method": "GET", "path": "/v1/licenses/my-licenses", "auth": true, "description": "List your licenses"},
			{"method": "GET", "path": "/v1/licenses/:id", "auth": true, "description": "Get one of your licenses"},
			{"method": "POST", "path": "/v1/licenses/:id/certificate", "auth": true, "description": "Generate a license certificate"},
		},
	})
}
