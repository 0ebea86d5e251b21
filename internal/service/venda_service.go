package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/dto"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/repository"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaService interface {
	CriarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.CriarVendaRequest) (*dto.CriarVendaResponse, error)
	FinalizarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.FinalizarVendaRequest) (*dto.FinalizarVendaResponse, error)
	CancelarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.CancelarVendaRequest) (*dto.CancelarVendaResponse, error)
	ObterVenda(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	ListarVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
}

type vendaService struct {
	repo        repository.VendaRepository
	produtoRepo repository.ProdutoRepository
	caixa       CaixaService
	estoque     EstoqueLedger
	dispatcher  *worker.Dispatcher
	tolerancia  decimal.Decimal
}

func NewVendaService(
	repo repository.VendaRepository,
	produtoRepo repository.ProdutoRepository,
	caixa CaixaService,
	estoque EstoqueLedger,
	dispatcher *worker.Dispatcher,
	tolerancia decimal.Decimal,
) VendaService {
	return &vendaService{
		repo:        repo,
		produtoRepo: produtoRepo,
		caixa:       caixa,
		estoque:     estoque,
		dispatcher:  dispatcher,
		tolerancia:  tolerancia,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CriarVenda ───────────────────────────────────────────────────────────────
// Cria o rascunho amarrado à sessão de caixa ativa:
//   1. Exige sessão ativa — sem caixa aberto não nasce venda
//   2. Pré-validação fora da tx: produtos existem, math de itens e de total
//   3. BEGIN TX: nextval do número + create da venda com itens em cascata
//   4. COMMIT
// Rascunho não toca estoque nem pagamentos.

func (s *vendaService) CriarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.CriarVendaRequest) (*dto.CriarVendaResponse, error) {
	sessao, err := s.caixa.SessaoAtiva(ctx)
	if err != nil {
		return nil, err
	}

	itens, err := s.resolverItens(ctx, req.Itens)
	if err != nil {
		return nil, err
	}

	if err := conferirTotais(req, itens, s.tolerancia); err != nil {
		return nil, err
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("%w: cliente_id inválido", ErrValidacao)
		}
		clienteID = &id
	}

	var venda model.Venda
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.ProximoNumero(ctx, tx)
		if err != nil {
			return err
		}

		venda = model.Venda{
			Numero:           numero,
			SessaoCaixaID:    sessao.ID,
			UsuarioID:        usuarioID,
			ClienteID:        clienteID,
			ClienteNome:      req.ClienteNome,
			ClienteDocumento: req.ClienteDocumento,
			ClienteTelefone:  req.ClienteTelefone,
			ClienteEmail:     req.ClienteEmail,
			Subtotal:         req.Subtotal,
			DescontoValor:    req.DescontoValor,
			DescontoPct:      req.DescontoPct,
			Total:            req.Total,
			Status:           model.StatusVendaRascunho,
			StatusPagamento:  model.StatusPagamentoPendente,
			Observacoes:      req.Observacoes,
			Itens:            itens,
		}
		return s.repo.CreateTx(tx, &venda)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.CriarVendaResponse{
		VendaID: venda.ID.String(),
		Numero:  venda.Numero,
		Venda:   *vendaToResponse(&venda),
	}, nil
}

// ── FinalizarVenda ───────────────────────────────────────────────────────────
// Conferência de pagamentos primeiro, escrita depois. Se a soma não fecha
// dentro da tolerância, a venda continua rascunho intocada. A transição
// inteira — status, pagamentos, baixa de estoque — é uma única transação:
// ou tudo, ou nada.

func (s *vendaService) FinalizarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.FinalizarVendaRequest) (*dto.FinalizarVendaResponse, error) {
	vendaID, err := uuid.Parse(req.VendaID)
	if err != nil {
		return nil, fmt.Errorf("%w: venda_id inválido", ErrValidacao)
	}

	venda, err := s.repo.FindByID(ctx, vendaID)
	if err != nil {
		return nil, ErrVendaNaoEncontrada
	}
	if venda.Status != model.StatusVendaRascunho {
		return nil, ErrVendaNaoRascunho
	}

	if err := ConferirPagamentos(req.Pagamentos, req.Troco, venda.Total, s.tolerancia); err != nil {
		return nil, err
	}

	agora := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		campos := map[string]interface{}{
			"status":           model.StatusVendaFinalizada,
			"status_pagamento": model.StatusPagamentoPago,
			"troco":            req.Troco,
			"finalizada_em":    agora,
		}
		// Transição condicionada ao status lido: se outra requisição
		// finalizou ou cancelou no meio do caminho, nada é escrito.
		if err := s.repo.AtualizarStatusTx(tx, vendaID, model.StatusVendaRascunho, campos); err != nil {
			if errors.Is(err, repository.ErrTransicaoInvalida) {
				return ErrVendaNaoRascunho
			}
			return err
		}

		pagamentos := make([]model.VendaPagamento, 0, len(req.Pagamentos))
		for _, p := range req.Pagamentos {
			pagamentos = append(pagamentos, model.VendaPagamento{
				VendaID:           vendaID,
				Metodo:            p.Metodo,
				Valor:             p.Valor,
				Bandeira:          p.Bandeira,
				CodigoAutorizacao: p.CodigoAutorizacao,
				CodigoTransacao:   p.CodigoTransacao,
				Observacoes:       p.Observacoes,
				UsuarioID:         usuarioID,
			})
		}
		if err := s.repo.CreatePagamentosTx(tx, pagamentos); err != nil {
			return err
		}

		motivo := fmt.Sprintf("Venda %s", venda.Numero)
		for _, item := range venda.Itens {
			if err := s.estoque.DebitarTx(tx, item.ProdutoID, item.LoteID, item.Quantidade, vendaID, motivo); err != nil {
				return fmt.Errorf("baixa de estoque de %s: %w", item.NomeProduto, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Recibo assíncrono, best-effort: falha de fila não desfaz a venda.
	if s.dispatcher != nil {
		payload := worker.ReciboJobPayload{VendaID: vendaID.String()}
		if venda.ClienteEmail != nil {
			payload.ClienteEmail = *venda.ClienteEmail
		}
		if err := s.dispatcher.EnqueueRecibo(ctx, payload); err != nil {
			log.Warn().Err(err).Str("venda_id", vendaID.String()).Msg("falha ao enfileirar recibo")
		}
	}

	return &dto.FinalizarVendaResponse{
		Success: true,
		VendaID: vendaID.String(),
		Numero:  venda.Numero,
		Total:   venda.Total,
		Troco:   req.Troco,
	}, nil
}

// ── CancelarVenda ────────────────────────────────────────────────────────────
// Rascunho cancela sem tocar estoque. Finalizada devolve cada item ao
// razão — exatamente uma vez, porque venda já cancelada é rejeitada antes
// de qualquer escrita.

func (s *vendaService) CancelarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.CancelarVendaRequest) (*dto.CancelarVendaResponse, error) {
	vendaID, err := uuid.Parse(req.VendaID)
	if err != nil {
		return nil, fmt.Errorf("%w: venda_id inválido", ErrValidacao)
	}

	venda, err := s.repo.FindByID(ctx, vendaID)
	if err != nil {
		return nil, ErrVendaNaoEncontrada
	}
	if venda.Status == model.StatusVendaCancelada {
		return nil, ErrVendaJaCancelada
	}

	eraFinalizada := venda.Status == model.StatusVendaFinalizada
	agora := time.Now()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		campos := map[string]interface{}{
			"status":           model.StatusVendaCancelada,
			"status_pagamento": model.StatusPagamentoCancelado,
			"cancelada_em":     agora,
			"cancelada_por_id": usuarioID,
		}
		if req.Motivo != nil {
			campos["motivo_cancelamento"] = *req.Motivo
		}
		// O guard no status lido decide cancelamentos concorrentes: só a
		// requisição que efetiva a transição executa o estorno abaixo.
		if err := s.repo.AtualizarStatusTx(tx, vendaID, venda.Status, campos); err != nil {
			if errors.Is(err, repository.ErrTransicaoInvalida) {
				return ErrVendaJaCancelada
			}
			return err
		}

		if eraFinalizada {
			motivo := fmt.Sprintf("Estorno venda %s", venda.Numero)
			if req.Motivo != nil && *req.Motivo != "" {
				motivo = fmt.Sprintf("Estorno venda %s — %s", venda.Numero, *req.Motivo)
			}
			for _, item := range venda.Itens {
				if err := s.estoque.CreditarTx(tx, item.ProdutoID, item.LoteID, item.Quantidade, vendaID, motivo); err != nil {
					return fmt.Errorf("estorno de estoque de %s: %w", item.NomeProduto, err)
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.CancelarVendaResponse{Success: true}, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *vendaService) ObterVenda(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVendaNaoEncontrada
	}
	return vendaToResponse(venda), nil
}

func (s *vendaService) ListarVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	vendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		data = append(data, *vendaToResponse(&vendas[i]))
	}
	return &dto.VendaListResponse{
		Data:   data,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// resolverItens valida cada item contra o catálogo e monta os modelos com
// snapshot de código e nome. Preço unitário vem do payload — o PDV pode
// vender por preço negociado; o congelamento aqui é do que foi acordado.
func (s *vendaService) resolverItens(ctx context.Context, reqItens []dto.ItemVendaRequest) ([]model.VendaItem, error) {
	itens := make([]model.VendaItem, 0, len(reqItens))
	for _, item := range reqItens {
		pid, err := uuid.Parse(item.ProdutoID)
		if err != nil {
			return nil, fmt.Errorf("%w: produto_id inválido", ErrValidacao)
		}
		p, err := s.produtoRepo.FindByID(ctx, pid)
		if err != nil || p == nil {
			return nil, fmt.Errorf("%w: %s", ErrProdutoNaoEncontrado, item.ProdutoID)
		}

		codigo := item.CodigoProduto
		if codigo == "" {
			codigo = p.Codigo
		}
		nome := item.NomeProduto
		if nome == "" {
			nome = p.Nome
		}

		var loteID *uuid.UUID
		if item.LoteID != nil {
			lid, err := uuid.Parse(*item.LoteID)
			if err != nil {
				return nil, fmt.Errorf("%w: lote_id inválido", ErrValidacao)
			}
			loteID = &lid
		}

		itens = append(itens, model.VendaItem{
			ProdutoID:     pid,
			CodigoProduto: codigo,
			NomeProduto:   nome,
			LoteID:        loteID,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			TotalItem:     item.TotalItem,
		})
	}
	return itens, nil
}

// conferirTotais checa a aritmética do payload dentro da tolerância:
// total_item = quantidade × preco_unitario por linha, subtotal = Σ(total_item)
// e total = subtotal − desconto_valor.
func conferirTotais(req dto.CriarVendaRequest, itens []model.VendaItem, tolerancia decimal.Decimal) error {
	somaItens := decimal.Zero
	for _, item := range itens {
		esperado := item.PrecoUnitario.Mul(decimal.NewFromInt(int64(item.Quantidade)))
		if esperado.Sub(item.TotalItem).Abs().GreaterThan(tolerancia) {
			return fmt.Errorf("%w: total do item %s não bate com quantidade × preço unitário", ErrValidacao, item.NomeProduto)
		}
		somaItens = somaItens.Add(item.TotalItem)
	}

	if somaItens.Sub(req.Subtotal).Abs().GreaterThan(tolerancia) {
		return fmt.Errorf("%w: subtotal não bate com a soma dos itens", ErrValidacao)
	}
	if req.Subtotal.Sub(req.DescontoValor).Sub(req.Total).Abs().GreaterThan(tolerancia) {
		return fmt.Errorf("%w: total não bate com subtotal − desconto", ErrValidacao)
	}
	return nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for _, item := range v.Itens {
		var loteID *string
		if item.LoteID != nil {
			s := item.LoteID.String()
			loteID = &s
		}
		itens = append(itens, dto.ItemVendaResponse{
			ProdutoID:     item.ProdutoID.String(),
			CodigoProduto: item.CodigoProduto,
			NomeProduto:   item.NomeProduto,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			TotalItem:     item.TotalItem,
			LoteID:        loteID,
		})
	}

	pagamentos := make([]dto.PagamentoResponse, 0, len(v.Pagamentos))
	for _, p := range v.Pagamentos {
		pagamentos = append(pagamentos, dto.PagamentoResponse{
			Metodo:            p.Metodo,
			Valor:             p.Valor,
			Bandeira:          p.Bandeira,
			CodigoAutorizacao: p.CodigoAutorizacao,
			CodigoTransacao:   p.CodigoTransacao,
		})
	}

	resp := &dto.VendaResponse{
		ID:              v.ID.String(),
		Numero:          v.Numero,
		SessaoCaixaID:   v.SessaoCaixaID.String(),
		ClienteNome:     v.ClienteNome,
		Itens:           itens,
		Pagamentos:      pagamentos,
		Subtotal:        v.Subtotal,
		DescontoValor:   v.DescontoValor,
		Total:           v.Total,
		Troco:           v.Troco,
		Status:          v.Status,
		StatusPagamento: v.StatusPagamento,
		Observacoes:     v.Observacoes,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
	}
	if v.FinalizadaEm != nil {
		t := v.FinalizadaEm.Format(time.RFC3339)
		resp.FinalizadaEm = &t
	}
	if v.CanceladaEm != nil {
		t := v.CanceladaEm.Format(time.RFC3339)
		resp.CanceladaEm = &t
	}
	return resp
}
