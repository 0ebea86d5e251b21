package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimentação de estoque gerados por este serviço.
const (
	EstoqueMovVenda   = "venda"
	EstoqueMovEstorno = "estorno_cancelamento"
	EstoqueMovAjuste  = "ajuste_manual"
)

// MovimentacaoEstoque registra cada débito ou crédito de estoque com o
// saldo antes/depois. Trilha de auditoria imutável — conferências de
// inventário partem daqui.
type MovimentacaoEstoque struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	LoteID    *uuid.UUID `gorm:"type:uuid"`
	// Tipo: venda | estorno_cancelamento | ajuste_manual
	Tipo string `gorm:"type:varchar(30);not null"`
	// Quantidade com sinal: negativa = saída, positiva = entrada.
	Quantidade      int `gorm:"not null"`
	EstoqueAnterior int `gorm:"not null"`
	EstoqueNovo     int `gorm:"not null"`
	Motivo          string
	// VendaID referencia a venda que originou o movimento, quando houver.
	VendaID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (MovimentacaoEstoque) TableName() string { return "movimentacoes_estoque" }
