// Package report renders the printable reimbursement request PDF. The layout
// follows the document convention the finance team already reviews: fixed
// header, payee block with the payment method flagged in red, itemized
// expenses, signature lines, and every receipt photo attached in ledger order.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/lucasvieira/reembolso/internal/expense"
)

const (
	title       = "Solicitacao de Reembolso de Despesas"
	payeeLabel  = "Solicitante"
	methodLabel = "FORMA DE RECEBIMENTO"
	dateLabel   = "Data da Solicitação"

	// locationLimit keeps long merchant names inside the table column
	locationLimit = 40
)

// Renderer implements expense.Renderer with go-pdf/fpdf
type Renderer struct{}

// New creates a new Renderer
func New() *Renderer {
	return &Renderer{}
}

// Single renders the one-item report: shaded table, signature block, and the
// receipt photo on its own page.
func (r *Renderer) Single(profile expense.PayeeProfile, record expense.ExpenseRecord, generatedAt time.Time) ([]byte, error) {
	pdf, tr := newDocument(profile, generatedAt)

	// Table header
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(35, 10, tr("Categoria"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(85, 10, tr("Local"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 10, tr("Horario"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 10, tr("Valor"), "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(35, 10, tr(string(record.Category)), "1", 0, "", false, 0, "")
	pdf.CellFormat(85, 10, tr(truncate(record.Location, locationLimit)), "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 10, tr(record.Time), "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 10, tr(fmt.Sprintf("R$ %.2f", record.Amount())), "1", 1, "R", false, 0, "")

	// Signature lines
	pdf.Ln(20)
	y := pdf.GetY()
	pdf.Line(20, y, 90, y)
	pdf.Line(120, y, 190, y)
	pdf.SetY(y + 2)
	pdf.CellFormat(90, 10, tr("Assinatura Solicitante"), "0", 0, "C", false, 0, "")
	pdf.CellFormat(90, 10, tr("Financeiro"), "0", 1, "C", false, 0, "")

	// Attached receipt
	pdf.AddPage()
	embedReceipt(pdf, record, 0, 30)

	return output(pdf)
}

// Multi renders the consolidated report: one bordered line per record, a
// totals line, and one attachment page per receipt in ledger order.
func (r *Renderer) Multi(profile expense.PayeeProfile, records []expense.ExpenseRecord, generatedAt time.Time) ([]byte, error) {
	pdf, tr := newDocument(profile, generatedAt)

	pdf.SetFont("Arial", "", 10)
	var totalCents int
	for i, record := range records {
		line := fmt.Sprintf("Item %d: %s - %s - R$ %.2f", i+1, record.Category, record.Location, record.Amount())
		pdf.CellFormat(0, 10, tr(line), "1", 1, "", false, 0, "")
		totalCents += record.AmountCents
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Total: R$ %.2f", float64(totalCents)/100)), "0", 1, "R", false, 0, "")

	for i, record := range records {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Anexo %d: %s", i+1, record.Category)), "0", 1, "", false, 0, "")
		embedReceipt(pdf, record, i, 40)
	}

	return output(pdf)
}

// newDocument starts a page-1 document with the shared header and payee
// block. The returned translator maps UTF-8 to the document's cp1252
// encoding; every user-provided string must pass through it.
func newDocument(profile expense.PayeeProfile, generatedAt time.Time) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generatedAt)
	pdf.SetModificationDate(generatedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 15)
	pdf.CellFormat(0, 10, tr(title), "0", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s: %s", payeeLabel, profile.FullName)), "0", 1, "", false, 0, "")

	// Red so the reviewing party cannot miss where the money goes
	pdf.SetTextColor(200, 0, 0)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s: %s - %s", methodLabel, profile.Method, profile.Detail)), "0", 1, "", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s: %s", dateLabel, generatedAt.Format("02/01/2006"))), "0", 1, "", false, 0, "")
	pdf.Ln(5)

	return pdf, tr
}

// embedReceipt places a record's PNG on the current page. A record without a
// decodable image poisons the document error state, failing the whole render.
func embedReceipt(pdf *fpdf.Fpdf, record expense.ExpenseRecord, index int, y float64) {
	if len(record.Image) == 0 {
		pdf.SetError(fmt.Errorf("record %s has no receipt image", record.ID))
		return
	}

	name := fmt.Sprintf("recibo-%d", index)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(record.Image))
	pdf.ImageOptions(name, 15, y, 120, 0, false, opts, 0, "")
}

// output serializes the document. On any accumulated error no bytes are
// returned, so a failed render never produces a partial file.
func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
