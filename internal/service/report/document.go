package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ── 版式常量（毫米） ──

const (
	marginLeft   = 15.0
	marginTop    = 20.0
	marginRight  = 15.0
	marginBottom = 18.0
	lineHeight   = 5.5
	keyWidth     = 45.0
	imageWidth   = 90.0
)

// document A4 报表构建器：手动换行、分页检测、页眉页脚
type document struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	title string
}

func newDocument(title, subtitle string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	// 分页由 ensureSpace 控制
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AliasNbPages("")

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), title: title}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 6, d.tr(title), "B", 1, "L", false, 0, "")
		pdf.Ln(4)
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginBottom + 4)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, d.tr(title), "", 1, "L", false, 0, "")
	if subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(0, 6, d.tr(subtitle), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)
	return d
}

func (d *document) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w - marginLeft - marginRight
}

// ensureSpace 剩余高度不足 h 时换页
func (d *document) ensureSpace(h float64) bool {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+h > pageH-marginBottom {
		d.pdf.AddPage()
		return true
	}
	return false
}

// lines 按宽度手动换行
func (d *document) lines(text string, width float64) []string {
	var out []string
	for _, para := range strings.Split(d.tr(text), "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		for _, l := range d.pdf.SplitLines([]byte(para), width) {
			out = append(out, string(l))
		}
	}
	return out
}

func (d *document) section(title string) {
	d.ensureSpace(lineHeight*4)
	d.pdf.Ln(3)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.SetFillColor(235, 240, 250)
	d.pdf.CellFormat(0, 8, d.tr(title), "", 1, "L", true, 0, "")
	d.pdf.Ln(2)
}

func (d *document) paragraph(text string) {
	d.pdf.SetFont("Helvetica", "", 10)
	for _, l := range d.lines(text, d.contentWidth()) {
		d.ensureSpace(lineHeight)
		d.pdf.CellFormat(0, lineHeight, l, "", 1, "L", false, 0, "")
	}
}

func (d *document) note(text string) {
	d.pdf.SetFont("Helvetica", "I", 9)
	d.pdf.SetTextColor(160, 60, 60)
	for _, l := range d.lines(text, d.contentWidth()) {
		d.ensureSpace(lineHeight)
		d.pdf.CellFormat(0, lineHeight, l, "", 1, "L", false, 0, "")
	}
	d.pdf.SetTextColor(0, 0, 0)
}

// keyValues 两列键值对，值列自动换行
func (d *document) keyValues(rows [][2]string) {
	valueWidth := d.contentWidth() - keyWidth
	for _, kv := range rows {
		d.pdf.SetFont("Helvetica", "", 10)
		vals := d.lines(kv[1], valueWidth)
		if len(vals) == 0 {
			vals = []string{""}
		}
		d.ensureSpace(lineHeight * float64(len(vals)))
		for i, v := range vals {
			key := ""
			if i == 0 {
				key = d.tr(kv[0])
			}
			d.pdf.SetFont("Helvetica", "B", 10)
			d.pdf.CellFormat(keyWidth, lineHeight, key, "", 0, "L", false, 0, "")
			d.pdf.SetFont("Helvetica", "", 10)
			d.pdf.CellFormat(valueWidth, lineHeight, v, "", 1, "L", false, 0, "")
		}
	}
}

// table 表格；换页后重复表头。widths 为各列占比
func (d *document) table(headers []string, widths []float64, rows [][]string) {
	total := 0.0
	for _, w := range widths {
		total += w
	}
	cols := make([]float64, len(widths))
	for i, w := range widths {
		cols[i] = d.contentWidth() * w / total
	}

	header := func() {
		d.pdf.SetFont("Helvetica", "B", 9)
		d.pdf.SetFillColor(68, 114, 196)
		d.pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			d.pdf.CellFormat(cols[i], 7, d.tr(h), "1", 0, "L", true, 0, "")
		}
		d.pdf.Ln(-1)
		d.pdf.SetTextColor(0, 0, 0)
	}

	d.ensureSpace(7 + lineHeight)
	header()
	d.pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		cells := make([][]string, len(cols))
		height := 1
		for i := range cols {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			cells[i] = d.lines(text, cols[i]-2)
			if len(cells[i]) > height {
				height = len(cells[i])
			}
		}
		rowH := lineHeight * float64(height)
		if d.ensureSpace(rowH) {
			header()
			d.pdf.SetFont("Helvetica", "", 9)
		}

		x, y := d.pdf.GetXY()
		for i, w := range cols {
			d.pdf.Rect(x, y, w, rowH, "D")
			for j, l := range cells[i] {
				d.pdf.SetXY(x+1, y+float64(j)*lineHeight)
				d.pdf.CellFormat(w-2, lineHeight, l, "", 0, "L", false, 0, "")
			}
			x += w
		}
		d.pdf.SetXY(marginLeft, y+rowH)
	}
}

// image 嵌入图片；加载失败时写一行提示
func (d *document) image(name string, data []byte, imageType string, loadErr error) {
	if loadErr != nil {
		d.note("Image could not be loaded: " + loadErr.Error())
		return
	}

	info := d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}, bytes.NewReader(data))
	if !d.pdf.Ok() || info == nil {
		err := d.pdf.Error()
		d.pdf.ClearError()
		if err == nil {
			err = fmt.Errorf("unreadable image")
		}
		d.note("Image could not be loaded: " + err.Error())
		return
	}

	h := imageWidth
	if info.Width() > 0 {
		h = imageWidth * info.Height() / info.Width()
	}
	d.ensureSpace(h + 2)
	y := d.pdf.GetY()
	d.pdf.ImageOptions(name, marginLeft, y, imageWidth, h, false, fpdf.ImageOptions{ImageType: imageType}, 0, "")
	d.pdf.SetY(y + h + 2)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
