package infra

// pdf.go — geração de recibo em PDF com go-pdf/fpdf.
// Formato térmico 74mm × 105mm com:
//   - Cabeçalho com nome da farmácia
//   - Número da venda e data/hora
//   - Tabela de itens (produto, quantidade, total da linha)
//   - Linha de desconto quando houver
//   - Total em negrito, troco e quebra por método de pagamento
//
// O arquivo sai em storagePath/recibo_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"

	"github.com/go-pdf/fpdf"
)

// GerarReciboPDF generates a PDF receipt for a finalized Venda.
// storagePath is created if needed. Returns the path to the written file.
func GerarReciboPDF(venda *model.Venda, nomeFarmacia, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", venda.Numero)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — próximo do papel térmico de balcão
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Cabeçalho ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, nomeFarmacia, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Recibo de Venda", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Dados da venda ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Venda Nº %s", venda.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	quando := venda.CreatedAt
	if venda.FinalizadaEm != nil {
		quando = *venda.FinalizadaEm
	}
	pdf.CellFormat(contentW, 4, quando.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venda.ClienteNome != nil && *venda.ClienteNome != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+*venda.ClienteNome, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Itens ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venda.Itens {
		nome := item.NomeProduto
		if len(nome) > 22 {
			nome = nome[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nome, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.TotalItem.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totais ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !venda.DescontoValor.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-R$ "+venda.DescontoValor.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$ "+venda.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Pagamentos ───────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	for _, pag := range venda.Pagamentos {
		label := "Pagamento (" + pag.Metodo + "):"
		pdf.CellFormat(col1+col2, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$ "+pag.Valor.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !venda.Troco.IsZero() {
		pdf.CellFormat(col1+col2, 4, "Troco:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$ "+venda.Troco.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Rodapé ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Obrigado pela preferência!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
