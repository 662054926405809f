package controllers

import (
	"bytes"
	"errors"
	"fmt"

	"quizhub/backend/config"
	"quizhub/backend/models"
	"quizhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

type CertificateController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCertificateController(db *gorm.DB, cfg *config.Config) *CertificateController {
	return &CertificateController{DB: db, Cfg: cfg}
}

type certificateDetails struct {
	Certificate models.Certificate
	HolderName  string
	QuizTitle   string
	Category    string
}

// resolveCertificate loads a certificate by code together with the joined
// user, quiz and category names. Quiz and category may have been deleted
// since issuance; their names fall back to empty rather than failing.
func (cc *CertificateController) resolveCertificate(code string) (*certificateDetails, error) {
	var cert models.Certificate
	if err := cc.DB.Where("code = ?", code).First(&cert).Error; err != nil {
		return nil, err
	}

	details := certificateDetails{Certificate: cert}

	var user models.User
	if err := cc.DB.Select("id", "name").First(&user, cert.UserID).Error; err == nil {
		details.HolderName = user.Name
	}

	var quiz models.Quiz
	if err := cc.DB.Unscoped().Select("id", "title").First(&quiz, cert.QuizID).Error; err == nil {
		details.QuizTitle = quiz.Title
	}

	var category models.TestCategory
	if err := cc.DB.Unscoped().Select("id", "name").First(&category, cert.CategoryID).Error; err == nil {
		details.Category = category.Name
	}

	return &details, nil
}

func (cc *CertificateController) GetCertificate(c *fiber.Ctx) error {
	details, err := cc.resolveCertificate(c.Params("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Certificate not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	cert := details.Certificate
	return c.JSON(fiber.Map{
		"id":          cert.ID,
		"code":        cert.Code,
		"holder_name": details.HolderName,
		"quiz_title":  details.QuizTitle,
		"category":    details.Category,
		"score":       cert.Score,
		"issued_at":   cert.IssuedAt,
	})
}

// DownloadCertificate streams the certificate as a generated PDF.
func (cc *CertificateController) DownloadCertificate(c *fiber.Ctx) error {
	details, err := cc.resolveCertificate(c.Params("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Certificate not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	pdfBytes, err := renderCertificatePDF(details)
	if err != nil {
		return utils.InternalServerError(c, "Could not render certificate")
	}

	cert := details.Certificate
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=certificate-"+cert.Code+".pdf")
	return c.Send(pdfBytes)
}

func renderCertificatePDF(details *certificateDetails) ([]byte, error) {
	cert := details.Certificate

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate "+cert.Code, false)
	pdf.AddPage()

	// Double border, landscape A4 is 297x210.
	pdf.SetLineWidth(1.5)
	pdf.Rect(8, 8, 281, 194, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(12, 12, 273, 186, "D")

	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetY(38)
	pdf.CellFormat(0, 14, "Certificate of Achievement", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.CellFormat(0, 16, details.HolderName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, "has successfully passed", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, details.QuizTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 9, "Category: "+details.Category, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 9, fmt.Sprintf("Score: %.1f%%", cert.Score), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 9, "Issued on "+cert.IssuedAt.Format("January 2, 2006"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetY(188)
	pdf.CellFormat(0, 8, cert.Code, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
