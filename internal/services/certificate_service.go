// internal/services/certificate_service.go
package services

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/isows-india/worklicense-backend/internal/models"
)

const certificateContentType = "application/pdf"

type CertificateService struct {
	licenseService *LicenseService
	workService    *WorkService
	storage        *StorageService
	frontendURL    string
}

// NewCertificateService links certificates to frontendURL + "/verify/<id>".
func NewCertificateService(licenseService *LicenseService, workService *WorkService, storage *StorageService, frontendURL string) *CertificateService {
	return &CertificateService{
		licenseService: licenseService,
		workService:    workService,
		storage:        storage,
		frontendURL:    strings.TrimRight(frontendURL, "/"),
	}
}

func (s *CertificateService) VerifyURL(licenseID uuid.UUID) string {
	return fmt.Sprintf("%s/verify/%s", s.frontendURL, licenseID)
}

// Render produces the PDF certificate for a license and its work.
func (s *CertificateService) Render(license *models.License, work *models.Work) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// uncompressed so the certificate text stays searchable
	pdf.SetCompression(false)
	pdf.SetTitle("Work License Certificate", true)
	pdf.SetAuthor("ISOWS-INDIA", true)
	pdf.SetCreationDate(license.IssuedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetDrawColor(40, 60, 120)
	pdf.SetLineWidth(1)
	pdf.Rect(10, 10, 190, 277, "D")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetY(30)
	pdf.CellFormat(0, 12, "ISOWS-INDIA", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(0, 10, "Work License Certificate", "", 1, "C", false, 0, "")
	pdf.Ln(12)

	status := "Inactive"
	if license.IsActive {
		status = "Active"
	}
	rows := [][2]string{
		{"License ID", license.ID.String()},
		{"Issued", license.IssuedAt.UTC().Format("2 January 2006 15:04 MST")},
		{"Status", status},
		{"Work", work.Title},
		{"Work ID", work.ID.String()},
		{"Submitted", work.SubmittedAt.UTC().Format("2 January 2006")},
		{"Originality", fmt.Sprintf("%d%% original", 100-work.PlagiarismScore)},
		{"Author", license.AuthorName},
		{"Work type", license.WorkType},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 8, tr(row[1]), "", "L", false)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, "This certifies that the work above was checked for originality and registered to its author.", "", "L", false)
	verifyURL := s.VerifyURL(license.ID)
	pdf.SetTextColor(40, 60, 160)
	pdf.CellFormat(0, 8, "Verify at "+verifyURL, "", 1, "L", false, 0, verifyURL)

	pdf.SetY(-30)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders, stores and links the certificate of one of the owner's
// licenses.
func (s *CertificateService) Generate(licenseID uuid.UUID, ownerID string) (*models.License, error) {
	license, err := s.licenseService.GetLicense(licenseID, ownerID)
	if err != nil {
		return nil, err
	}

	work, err := s.workService.GetWork(license.WorkID, ownerID)
	if err != nil {
		return nil, err
	}

	data, err := s.Render(license, work)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("licenses/%s/%s.pdf", url.PathEscape(ownerID), license.ID)
	upload, err := s.storage.Upload(key, data, certificateContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store certificate: %w", err)
	}

	updated, err := s.licenseService.AttachDownloadURL(license.ID, upload.URL)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"license_id": license.ID,
		"url":        upload.URL,
	}).Info("Certificate generated")

	return updated, nil
}
