package services

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"hrseeker/resume-matcher/internal/apperrors"
)

type PDFParserService interface {
	Inspect(filePath string) (*PDFInfo, error)
}

type PDFInfo struct {
	PageCount int
	FilePath  string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// Inspect opens the PDF and counts its pages.
func (p *pdfParserService) Inspect(filePath string) (info *PDFInfo, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	totalPage := r.NumPage()
	if totalPage == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	return &PDFInfo{
		PageCount: totalPage,
		FilePath:  filePath,
	}, nil
}

func unreadablePDF(originalName string, err error) error {
	return &apperrors.Error{
		Kind:    apperrors.KindBadRequest,
		Message: fmt.Sprintf("Could not read PDF file: %s", originalName),
		Err:     err,
	}
}
