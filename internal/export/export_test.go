package export

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tinyPNG renders a small solid PNG so the exporters can embed a real
// image without pulling in the chart package.
func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleDocument(t *testing.T) Document {
	t.Helper()
	img := tinyPNG(t)
	return Document{
		Ticker:      "AAPL",
		PeriodLabel: "Q4 2024",
		Decision:    "Buy",
		Comments:    "Strong quarter & improving margins",
		Author:      "analyst",
		Charts:      [][]byte{img, img, img, img},
	}
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "AAPL Q4 2024 Financial Report", sampleDocument(t).Title())
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, sampleDocument(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output is not a PDF")
}

func TestPDFWithoutCharts(t *testing.T) {
	doc := sampleDocument(t)
	doc.Charts = nil

	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, doc))
	assert.NotZero(t, buf.Len())
}

func TestPPTXStructure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PPTX(&buf, sampleDocument(t)))

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err, "output is not a zip")

	names := make(map[string]bool, len(reader.File))
	for _, f := range reader.File {
		names[f.Name] = true
	}

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"ppt/presentation.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/media/image1.png",
		"ppt/media/image4.png",
	} {
		assert.True(t, names[name], "missing part %s", name)
	}

	slide := readZipPart(t, reader, "ppt/slides/slide1.xml")
	assert.Contains(t, slide, "AAPL Q4 2024 Financial Report")
	assert.Contains(t, slide, "Recommendation: Buy")
	assert.Contains(t, slide, "Strong quarter &amp; improving margins")
	assert.Contains(t, slide, "Prepared by: analyst")
}

func TestPPTXWithoutCharts(t *testing.T) {
	doc := sampleDocument(t)
	doc.Charts = nil

	var buf bytes.Buffer
	require.NoError(t, PPTX(&buf, doc))

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	for _, f := range reader.File {
		assert.False(t, strings.HasPrefix(f.Name, "ppt/media/"), "unexpected media part %s", f.Name)
	}
}

func readZipPart(t *testing.T, reader *zip.Reader, name string) string {
	t.Helper()
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		require.NoError(t, err)
		return buf.String()
	}
	t.Fatalf("part %s not found", name)
	return ""
}
