// Package pass renders the printable visitor pass for a request: a single
// A4 page with an optional logo, the request fields, and a QR code.
package pass

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/evcraddock/visitor-pass/internal/request"
)

// ContentType is the media type of a generated pass.
const ContentType = "application/pdf"

// ErrIncompleteRecord is returned when a request is missing a field the
// store always sets, which means it did not come from a store.
var ErrIncompleteRecord = errors.New("incomplete request record")

// Layout, in millimetres.
const (
	logoX, logoY, logoW = 10.0, 8.0, 30.0
	titleH, titleGap    = 20.0, 10.0
	labelW, rowH        = 45.0, 10.0
	qrX, qrGap, qrW     = 150.0, 10.0, 40.0
	qrPixels            = 256
)

// Field is one label/value row on the pass.
type Field struct {
	Label string
	Value string
}

// Generator renders passes. The zero value is not usable; use New.
type Generator struct {
	// LogoPath is drawn top-left when the file exists and silently skipped otherwise.
	LogoPath string
	// Compress controls PDF stream compression.
	Compress bool
	// Now stamps the document creation date.
	Now func() time.Time
}

// New returns a Generator with compression on.
func New(logoPath string) *Generator {
	return &Generator{LogoPath: logoPath, Compress: true, Now: time.Now}
}

// Filename is the download name for a request's pass.
func Filename(id string) string {
	return fmt.Sprintf("VisitorPass_%s.pdf", id)
}

// Fields returns the table rows in print order.
func Fields(req *request.VisitorRequest) []Field {
	return []Field{
		{"Request ID", req.ID},
		{"Requested By", req.RequestedBy},
		{"Visitor Name", req.VisitorName},
		{"Contact", req.Contact},
		{"Visit Date", req.VisitDate},
		{"Purpose", req.Purpose},
		{"Status", string(req.Status)},
		{"Admin Comment", req.AdminComment},
		{"Timestamp", req.Timestamp},
	}
}

// Payload is the text encoded in the QR code.
func Payload(req *request.VisitorRequest) string {
	return strings.Join([]string{
		"Request ID: " + req.ID,
		"Visitor Name: " + req.VisitorName,
		"Date: " + req.VisitDate,
		"Status: " + string(req.Status),
	}, "\n")
}

// Generate renders the pass for req and returns the PDF bytes.
func (g *Generator) Generate(req *request.VisitorRequest) ([]byte, error) {
	if err := checkRecord(req); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(Payload(req), qrcode.Medium, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(g.now())
	pdf.SetTitle("Visitor Pass", true)
	pdf.SetCreator("visitor-pass", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	if g.LogoPath != "" {
		if _, err := os.Stat(g.LogoPath); err == nil {
			pdf.ImageOptions(g.LogoPath, logoX, logoY, logoW, 0, false, fpdf.ImageOptions{}, 0, "")
		}
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, titleH, "Visitor Pass", "", 1, "C", false, 0, "")
	pdf.Ln(titleGap)

	for _, f := range Fields(req) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(labelW, rowH, f.Label+":", "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, rowH, tr(f.Value), "", 1, "", false, 0, "")
	}

	qrName := "qr-" + req.ID
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(qrName, opts, bytes.NewReader(png))
	pdf.ImageOptions(qrName, qrX, pdf.GetY()+qrGap, qrW, 0, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pass: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// checkRecord rejects records lacking the fields every stored request has.
func checkRecord(req *request.VisitorRequest) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrIncompleteRecord)
	}
	var missing []string
	if req.RequestedBy == "" {
		missing = append(missing, "requested_by")
	}
	if req.Status == "" {
		missing = append(missing, "status")
	}
	if req.Timestamp == "" {
		missing = append(missing, "timestamp")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteRecord, strings.Join(missing, ", "))
	}
	return nil
}
