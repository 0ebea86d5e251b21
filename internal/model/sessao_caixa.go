package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessaoCaixa representa um período de trabalho do caixa, da abertura ao
// fechamento. No máximo uma sessão ativa existe no sistema — invariante
// garantida por índice único parcial em (ativa) WHERE ativa (ver infra).
//
// O saldo esperado nunca é armazenado durante a sessão: ele é sempre
// derivado de valor_inicial + vendas finalizadas − sangrias + suprimentos.
type SessaoCaixa struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioAberturaID   uuid.UUID       `gorm:"type:uuid;not null"`
	ValorInicial        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ObservacoesAbertura *string
	AbertaEm            time.Time `gorm:"not null"`

	UsuarioFechamentoID   *uuid.UUID       `gorm:"type:uuid"`
	ValorEsperado         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ValorContado          *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Diferenca = contado − esperado: positivo = sobra, negativo = falta.
	Diferenca             *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ObservacoesFechamento *string
	FechadaEm             *time.Time

	Ativa bool `gorm:"not null;default:true"`

	Movimentacoes []MovimentacaoCaixa `gorm:"foreignKey:SessaoCaixaID"`
}

func (SessaoCaixa) TableName() string { return "sessoes_caixa" }

// Tipos de movimentação manual de caixa.
const (
	MovimentacaoSangria    = "sangria"
	MovimentacaoSuprimento = "suprimento"
)

// MovimentacaoCaixa é uma retirada (sangria) ou aporte (suprimento) manual
// durante uma sessão aberta. Imutável: correções são novas movimentações
// de sinal oposto, nunca update ou delete.
type MovimentacaoCaixa struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessaoCaixaID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Tipo: sangria | suprimento
	Tipo      string          `gorm:"type:varchar(20);not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao string          `gorm:"not null"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}

func (MovimentacaoCaixa) TableName() string { return "movimentacoes_caixa" }
