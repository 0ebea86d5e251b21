package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/dto"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstoqueLedger é a porta para o razão de estoque. O orquestrador de vendas
// debita na finalização e credita no estorno de cancelamento; cada operação
// aplica um delta atômico por linha e grava o movimento de auditoria.
//
// Não há guarda de estoque negativo aqui — piso de estoque é regra do
// motor de catálogo, não deste.
type EstoqueLedger interface {
	DebitarTx(tx *gorm.DB, produtoID uuid.UUID, loteID *uuid.UUID, quantidade int, vendaID uuid.UUID, motivo string) error
	CreditarTx(tx *gorm.DB, produtoID uuid.UUID, loteID *uuid.UUID, quantidade int, vendaID uuid.UUID, motivo string) error
	// ListarMovimentacoes consulta o diário para conferência de inventário.
	ListarMovimentacoes(ctx context.Context, filter repository.MovimentacaoEstoqueFilter) (*dto.MovimentacoesEstoqueResponse, error)
}

type estoqueLedger struct {
	produtos      repository.ProdutoRepository
	movimentacoes repository.MovimentacaoEstoqueRepository
}

func NewEstoqueLedger(produtos repository.ProdutoRepository, movimentacoes repository.MovimentacaoEstoqueRepository) EstoqueLedger {
	return &estoqueLedger{produtos: produtos, movimentacoes: movimentacoes}
}

func (l *estoqueLedger) DebitarTx(tx *gorm.DB, produtoID uuid.UUID, loteID *uuid.UUID, quantidade int, vendaID uuid.UUID, motivo string) error {
	return l.aplicarTx(tx, produtoID, loteID, -quantidade, vendaID, model.EstoqueMovVenda, motivo)
}

func (l *estoqueLedger) CreditarTx(tx *gorm.DB, produtoID uuid.UUID, loteID *uuid.UUID, quantidade int, vendaID uuid.UUID, motivo string) error {
	return l.aplicarTx(tx, produtoID, loteID, quantidade, vendaID, model.EstoqueMovEstorno, motivo)
}

func (l *estoqueLedger) aplicarTx(tx *gorm.DB, produtoID uuid.UUID, loteID *uuid.UUID, delta int, vendaID uuid.UUID, tipo, motivo string) error {
	// Saldo anterior lido dentro da tx, para o registro de movimentação.
	anterior := 0
	if p, err := l.produtos.FindByIDTx(tx, produtoID); err == nil && p != nil {
		anterior = p.EstoqueAtual
	}

	if err := l.produtos.AjustarEstoqueTx(tx, produtoID, delta); err != nil {
		return fmt.Errorf("ajuste de estoque do produto %s: %w", produtoID, err)
	}
	if loteID != nil {
		if err := l.produtos.AjustarEstoqueLoteTx(tx, *loteID, delta); err != nil {
			return fmt.Errorf("ajuste de estoque do lote %s: %w", *loteID, err)
		}
	}

	ref := vendaID
	mov := &model.MovimentacaoEstoque{
		ProdutoID:       produtoID,
		LoteID:          loteID,
		Tipo:            tipo,
		Quantidade:      delta,
		EstoqueAnterior: anterior,
		EstoqueNovo:     anterior + delta,
		Motivo:          motivo,
		VendaID:         &ref,
	}
	return l.movimentacoes.CreateTx(tx, mov)
}

func (l *estoqueLedger) ListarMovimentacoes(ctx context.Context, filter repository.MovimentacaoEstoqueFilter) (*dto.MovimentacoesEstoqueResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}
	movs, total, err := l.movimentacoes.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovimentacaoEstoqueResponse, 0, len(movs))
	for _, m := range movs {
		item := dto.MovimentacaoEstoqueResponse{
			ID:              m.ID.String(),
			ProdutoID:       m.ProdutoID.String(),
			Tipo:            m.Tipo,
			Quantidade:      m.Quantidade,
			EstoqueAnterior: m.EstoqueAnterior,
			EstoqueNovo:     m.EstoqueNovo,
			Motivo:          m.Motivo,
			CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		}
		if m.LoteID != nil {
			s := m.LoteID.String()
			item.LoteID = &s
		}
		if m.VendaID != nil {
			s := m.VendaID.String()
			item.VendaID = &s
		}
		data = append(data, item)
	}

	return &dto.MovimentacoesEstoqueResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
