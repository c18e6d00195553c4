package report

import (
	"io"

	"baliance.com/gooxml/color"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/wml"
)

// docx is a thin builder over a gooxml document.
type docx struct {
	doc *document.Document
}

func newDocx() *docx {
	return &docx{doc: document.New()}
}

func (d *docx) styled(style, text string) {
	p := d.doc.AddParagraph()
	if style != "" {
		p.SetStyle(style)
	}
	p.AddRun().AddText(text)
}

func (d *docx) title(text string)     { d.styled("Title", text) }
func (d *docx) heading(text string)   { d.styled("Heading1", text) }
func (d *docx) paragraph(text string) { d.styled("", text) }

// table writes a grid-bordered table: one header row, then one row per record.
func (d *docx) table(headers []string, rows [][]string) {
	t := d.doc.AddTable()
	t.Properties().SetWidthPercent(100)
	t.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, 1*measurement.Point)

	hdr := t.AddRow()
	for _, h := range headers {
		run := hdr.AddCell().AddParagraph().AddRun()
		run.Properties().SetBold(true)
		run.AddText(h)
	}

	for _, r := range rows {
		row := t.AddRow()
		for i := range headers {
			text := ""
			if i < len(r) {
				text = r[i]
			}
			row.AddCell().AddParagraph().AddRun().AddText(text)
		}
	}
}

func (d *docx) save(w io.Writer) error {
	return d.doc.Save(w)
}
