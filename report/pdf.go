/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// Page geometry in points.
const (
	marginTop    = 50.0
	marginBottom = 50.0
	marginSide   = 20.0
	rowHeight    = 20.0
	fontFamily   = "Helvetica"
)

// ColumnWidths are the fixed table column widths in points, one per event field.
var ColumnWidths = []float64{115, 85, 100, 50, 85, 85, 85, 45, 100}

// Palette.
const (
	titleColor   = "57bd9d"
	captionColor = "017dbb"
	bodyColor    = "000080"
	rowFill      = "f5f5f5"
	headerText   = "f5f5f5"
	headerFill   = "000080"
	borderColor  = "ffffff"
)

// PDFRenderer lays out events as a landscape A4 table.
type PDFRenderer struct {
	title      string
	reportType string
	created    time.Time
	logger     *zap.Logger
}

// PDFOption configures a PDFRenderer.
type PDFOption func(*PDFRenderer)

// WithTitle sets the report name printed at the top of the first page.
func WithTitle(title string) PDFOption {
	return func(r *PDFRenderer) { r.title = title }
}

// WithReportType sets the report type caption.
func WithReportType(reportType string) PDFOption {
	return func(r *PDFRenderer) { r.reportType = reportType }
}

// WithCreationDate pins the document creation date.
func WithCreationDate(t time.Time) PDFOption {
	return func(r *PDFRenderer) { r.created = t }
}

// WithPDFLogger sets the logger.
func WithPDFLogger(logger *zap.Logger) PDFOption {
	return func(r *PDFRenderer) { r.logger = logger }
}

// NewPDFRenderer creates a renderer with the default report texts.
func NewPDFRenderer(opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{
		title:      "Okta Report",
		reportType: "Activity per date",
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// encodedReport holds every string the layout prints, already in ISO-8859-1.
type encodedReport struct {
	title      string
	reportType string
	dates      string
	headers    []string
	rows       [][]string
}

// Render writes the PDF to w. A field that cannot be represented in
// ISO-8859-1 fails the whole document with a RenderEncodingError before
// anything is written.
func (r *PDFRenderer) Render(w io.Writer, rc storagemodels.ReportContext, events []storagemodels.NormalizedEvent) error {
	doc, err := r.encode(rc, events)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "pt", "A4", "")
	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
	}
	pdf.SetTitle(doc.title, false)
	pdf.SetMargins(marginSide, marginTop, marginSide)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginBottom + 10)
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 10, strconv.Itoa(pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	r.titleBlock(pdf, doc)
	r.headerRow(pdf, doc.headers)

	_, pageHeight := pdf.GetPageSize()
	for _, row := range doc.rows {
		if pdf.GetY()+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			r.headerRow(pdf, doc.headers)
		}
		r.bodyRow(pdf, row)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	r.logger.Debug("rendered pdf",
		zap.Int("rows", len(doc.rows)),
		zap.Int("pages", pdf.PageCount()))
	return nil
}

func (r *PDFRenderer) encode(rc storagemodels.ReportContext, events []storagemodels.NormalizedEvent) (*encodedReport, error) {
	if len(rc.Headers) != storagemodels.EventFieldCount {
		return nil, errors.NewValidationError("headers", fmt.Sprintf("want %d labels, got %d", storagemodels.EventFieldCount, len(rc.Headers)))
	}

	enc := charmap.ISO8859_1.NewEncoder()
	latin1 := func(field, s string) (string, error) {
		out, err := enc.String(s)
		if err != nil {
			return "", errors.NewRenderEncodingError(field, s, err)
		}
		return out, nil
	}

	doc := &encodedReport{}
	var err error
	if doc.title, err = latin1("title", r.title); err != nil {
		return nil, err
	}
	if doc.reportType, err = latin1("report type", "Report Type: "+r.reportType); err != nil {
		return nil, err
	}
	if doc.dates, err = latin1("report date", fmt.Sprintf("Report Date: %s to %s", rc.StartDate, rc.EndDate)); err != nil {
		return nil, err
	}

	doc.headers = make([]string, len(rc.Headers))
	for i, h := range rc.Headers {
		if doc.headers[i], err = latin1("header", h); err != nil {
			return nil, err
		}
	}

	doc.rows = make([][]string, 0, len(events))
	for _, ev := range events {
		fields := ev.Fields()
		for i, f := range fields {
			if fields[i], err = latin1(rc.Headers[i], f); err != nil {
				return nil, err
			}
		}
		doc.rows = append(doc.rows, fields)
	}
	return doc, nil
}

func (r *PDFRenderer) titleBlock(pdf *fpdf.Fpdf, doc *encodedReport) {
	pdf.SetFont(fontFamily, "B", 14)
	setTextColor(pdf, titleColor)
	pdf.CellFormat(0, 18, doc.title, "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 8)
	setTextColor(pdf, captionColor)
	pdf.CellFormat(0, 12, doc.reportType, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 12, doc.dates, "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

func (r *PDFRenderer) headerRow(pdf *fpdf.Fpdf, headers []string) {
	pdf.SetFont(fontFamily, "B", 8)
	setTextColor(pdf, headerText)
	setFillColor(pdf, headerFill)
	setDrawColor(pdf, borderColor)
	pdf.SetLineWidth(1)
	for i, h := range headers {
		pdf.CellFormat(ColumnWidths[i], rowHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func (r *PDFRenderer) bodyRow(pdf *fpdf.Fpdf, row []string) {
	pdf.SetFont(fontFamily, "", 7)
	setTextColor(pdf, bodyColor)
	setFillColor(pdf, rowFill)
	setDrawColor(pdf, borderColor)
	for i, cell := range row {
		pdf.CellFormat(ColumnWidths[i], rowHeight, fit(pdf, cell, ColumnWidths[i]), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// fit shortens s with a trailing ellipsis until it fits inside a cell of
// width w. s is single-byte encoded so it can be cut at any byte.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	const ellipsis = "..."
	n := len(s)
	for n > 0 && pdf.GetStringWidth(s[:n]+ellipsis) > limit {
		n--
	}
	return s[:n] + ellipsis
}

func hexRGB(hex string) (int, int, int) {
	v, _ := strconv.ParseUint(hex, 16, 32)
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func setTextColor(pdf *fpdf.Fpdf, hex string) { pdf.SetTextColor(hexRGB(hex)) }
func setFillColor(pdf *fpdf.Fpdf, hex string) { pdf.SetFillColor(hexRGB(hex)) }
func setDrawColor(pdf *fpdf.Fpdf, hex string) { pdf.SetDrawColor(hexRGB(hex)) }
