package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// PPTX writes the report as a minimal OOXML presentation with a single
// slide: title, recommendation and comments text boxes, and the chart
// PNGs in a 2x2 grid. The package emits only the parts PowerPoint
// requires to open the deck (presentation, one master, one layout, one
// theme, the slide, media).
func PPTX(w io.Writer, doc Document) error {
	archive := zip.NewWriter(w)

	imageCount := 0
	for _, png := range doc.Charts {
		if imageCount == 4 || len(png) == 0 {
			break
		}
		imageCount++
	}

	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(pptxContentTypes)},
		{"_rels/.rels", []byte(pptxRootRels)},
		{"docProps/core.xml", pptxCoreProps(doc)},
		{"ppt/presentation.xml", []byte(pptxPresentation)},
		{"ppt/_rels/presentation.xml.rels", []byte(pptxPresentationRels)},
		{"ppt/slideMasters/slideMaster1.xml", []byte(pptxSlideMaster)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", []byte(pptxSlideMasterRels)},
		{"ppt/slideLayouts/slideLayout1.xml", []byte(pptxSlideLayout)},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", []byte(pptxSlideLayoutRels)},
		{"ppt/theme/theme1.xml", []byte(pptxTheme)},
		{"ppt/slides/slide1.xml", pptxSlide(doc, imageCount)},
		{"ppt/slides/_rels/slide1.xml.rels", pptxSlideRels(imageCount)},
	}

	for _, part := range parts {
		if err := writeZipPart(archive, part.name, part.content); err != nil {
			return err
		}
	}

	for i := 0; i < imageCount; i++ {
		name := fmt.Sprintf("ppt/media/image%d.png", i+1)
		if err := writeZipPart(archive, name, doc.Charts[i]); err != nil {
			return err
		}
	}

	if err := archive.Close(); err != nil {
		return fmt.Errorf("finalise pptx archive: %w", err)
	}
	return nil
}

func writeZipPart(archive *zip.Writer, name string, content []byte) error {
	part, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("create pptx part %s: %w", name, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write pptx part %s: %w", name, err)
	}
	return nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func pptxCoreProps(doc Document) []byte {
	creator := doc.Author
	if creator == "" {
		creator = "stockreport"
	}
	return []byte(xml.Header + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<dc:title>` + xmlEscape(doc.Title()) + `</dc:title>` +
		`<dc:creator>` + xmlEscape(creator) + `</dc:creator>` +
		`</cp:coreProperties>`)
}

// Slide geometry in EMU on a 10x7.5 inch canvas: text block across the
// top, four 4x3 inch panels starting one inch in at 1.5 inches down.
const (
	emuPanelW = 3657600
	emuPanelH = 2743200
	emuLeftX  = 914400
	emuRightX = 4572000
	emuTopY   = 1371600
	emuBotY   = 4114800
)

func pptxSlide(doc Document, imageCount int) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	shapeID := 2
	writeText := func(text string, x, y, cx, cy, size int, bold bool) {
		if text == "" {
			return
		}
		boldAttr := "0"
		if bold {
			boldAttr = "1"
		}
		fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, shapeID, shapeID)
		fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`, x, y, cx, cy)
		fmt.Fprintf(&b, `<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" sz="%d" b="%s"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, size, boldAttr, xmlEscape(text))
		shapeID++
	}

	writeText(doc.Title(), 91440, 137160, 7315200, 457200, 2200, true)
	writeText("Recommendation: "+doc.Decision, 91440, 548640, 7315200, 365760, 1400, false)
	writeText(doc.Comments, 91440, 914400, 8229600, 365760, 1000, false)
	writeText(authorLine(doc.Author), 91440, 1188720, 7315200, 274320, 900, false)

	positions := [4][2]int{
		{emuLeftX, emuTopY},
		{emuRightX, emuTopY},
		{emuLeftX, emuBotY},
		{emuRightX, emuBotY},
	}
	for i := 0; i < imageCount; i++ {
		fmt.Fprintf(&b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Chart %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`, shapeID, i+1)
		fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, i+2)
		fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`, positions[i][0], positions[i][1], emuPanelW, emuPanelH)
		shapeID++
	}

	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return []byte(b.String())
}

func authorLine(author string) string {
	if author == "" {
		return ""
	}
	return "Prepared by: " + author
}

func pptxSlideRels(imageCount int) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	for i := 0; i < imageCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.png"/>`, i+2, i+1)
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

const pptxContentTypes = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Default Extension="png" ContentType="image/png"/>` +
	`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
	`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
	`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
	`<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>` +
	`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const pptxRootRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const pptxPresentation = xml.Header + `<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
	`<p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst>` +
	`<p:sldSz cx="9144000" cy="6858000"/>` +
	`<p:notesSz cx="6858000" cy="9144000"/>` +
	`</p:presentation>`

const pptxPresentationRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>` +
	`</Relationships>`

const pptxEmptySpTree = `<p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
	`</p:spTree>`

const pptxSlideMaster = xml.Header + `<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>` +
	pptxEmptySpTree +
	`</p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const pptxSlideMasterRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const pptxSlideLayout = xml.Header + `<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank" preserve="1">` +
	`<p:cSld name="Blank">` + pptxEmptySpTree + `</p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const pptxSlideLayoutRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const pptxTheme = xml.Header + `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Report">` +
	`<a:themeElements>` +
	`<a:clrScheme name="Report">` +
	`<a:dk1><a:srgbClr val="000000"/></a:dk1><a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="1F1F1F"/></a:dk2><a:lt2><a:srgbClr val="EEEEEE"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="008000"/></a:accent1><a:accent2><a:srgbClr val="0000C8"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="808000"/></a:accent3><a:accent4><a:srgbClr val="828282"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="C80000"/></a:accent5><a:accent6><a:srgbClr val="404040"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Report">` +
	`<a:majorFont><a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Report">` +
	`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements>` +
	`</a:theme>`
