package worker

// recibo_worker.go
// Processes receipt jobs from QueueRecibo: renders the PDF for the finalized
// sale and, when the customer left an email, sends it as attachment.
// Everything here is best-effort — the sale is already committed; failures
// are logged, never propagated back.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/config"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/infra"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibo.
type ReciboJobPayload struct {
	VendaID      string `json:"venda_id"`
	ClienteEmail string `json:"cliente_email,omitempty"`
}

type ReciboWorker struct {
	vendas repository.VendaRepository
	mailer *infra.Mailer
	cfg    *config.Config
}

func NewReciboWorker(vendas repository.VendaRepository, mailer *infra.Mailer, cfg *config.Config) *ReciboWorker {
	return &ReciboWorker{vendas: vendas, mailer: mailer, cfg: cfg}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}

	vendaID, err := uuid.Parse(payload.VendaID)
	if err != nil {
		log.Error().Str("venda_id", payload.VendaID).Msg("recibo_worker: invalid venda_id")
		return
	}

	venda, err := w.vendas.FindByID(ctx, vendaID)
	if err != nil {
		log.Error().Err(err).Str("venda_id", payload.VendaID).Msg("recibo_worker: venda not found")
		return
	}
	if venda.Status != model.StatusVendaFinalizada {
		log.Warn().Str("venda_id", payload.VendaID).Str("status", venda.Status).
			Msg("recibo_worker: venda is not finalized — skipping")
		return
	}

	pdfPath, err := infra.GerarReciboPDF(venda, w.cfg.NomeFarmacia, w.cfg.PDFStoragePath)
	if err != nil {
		log.Error().Err(err).Str("venda_id", payload.VendaID).Msg("recibo_worker: pdf generation failed")
		return
	}
	log.Info().Str("venda_id", payload.VendaID).Str("path", pdfPath).Msg("recibo_worker: pdf generated")

	if payload.ClienteEmail == "" {
		return
	}

	subject := fmt.Sprintf("Recibo da sua compra — Venda %s", venda.Numero)
	body := fmt.Sprintf("Olá!\n\nSegue em anexo o recibo da venda %s no valor de R$ %s.\n\n%s",
		venda.Numero, venda.Total.StringFixed(2), w.cfg.NomeFarmacia)
	if err := w.mailer.SendRecibo(payload.ClienteEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.ClienteEmail).Msg("recibo_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ClienteEmail).Msg("recibo_worker: recibo sent successfully")
}
