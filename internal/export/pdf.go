package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// PDF writes the report as a single landscape A4 page: heading and text
// block on top, chart panels in a 2x2 grid below.
func PDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(12, 10, 12)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, doc.Title(), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 7, "Recommendation: "+doc.Decision, "", 1, "L", false, 0, "")
	if doc.Author != "" {
		pdf.CellFormat(0, 6, "Prepared by: "+doc.Author, "", 1, "L", false, 0, "")
	}
	if doc.Comments != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, doc.Comments, "", "L", false)
	}

	// Two 4:3 panels per row fit a landscape A4 page under the text block.
	const (
		panelW  = 104.0
		panelH  = 78.0
		leftX   = 35.0
		rightX  = 155.0
		topY    = 44.0
		bottomY = 126.0
	)
	positions := [4][2]float64{
		{leftX, topY},
		{rightX, topY},
		{leftX, bottomY},
		{rightX, bottomY},
	}

	for i, png := range doc.Charts {
		if i >= len(positions) || len(png) == 0 {
			break
		}
		name := fmt.Sprintf("chart%d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		pdf.ImageOptions(name, positions[i][0], positions[i][1], panelW, panelH, false, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
