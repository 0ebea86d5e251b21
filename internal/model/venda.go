package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status de uma venda. Uma venda nasce em rascunho e termina em
// finalizada ou cancelada; finalizada ainda pode virar cancelada
// pelo fluxo de estorno.
const (
	StatusVendaRascunho   = "rascunho"
	StatusVendaFinalizada = "finalizada"
	StatusVendaCancelada  = "cancelada"
)

const (
	StatusPagamentoPendente  = "pendente"
	StatusPagamentoParcial   = "parcial"
	StatusPagamentoPago      = "pago"
	StatusPagamentoCancelado = "cancelado"
)

// Métodos de pagamento aceitos no PDV.
const (
	MetodoDinheiro      = "dinheiro"
	MetodoCartaoDebito  = "cartao_debito"
	MetodoCartaoCredito = "cartao_credito"
	MetodoPix           = "pix"
	MetodoTransferencia = "transferencia"
)

// Venda é uma transação de balcão, do rascunho até finalizada ou cancelada.
// Sempre pertence a exatamente uma sessão de caixa, fixada na criação.
type Venda struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Numero é sequencial, zero-padded com 6 dígitos, estritamente crescente.
	Numero        string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	SessaoCaixaID uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null"`

	// Cliente é opcional e livre — sem cadastro obrigatório no balcão.
	ClienteID        *uuid.UUID `gorm:"type:uuid"`
	ClienteNome      *string
	ClienteDocumento *string `gorm:"type:varchar(20)"`
	ClienteTelefone  *string `gorm:"type:varchar(20)"`
	ClienteEmail     *string

	Subtotal        decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DescontoValor   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	DescontoPct     *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Total           decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Troco           decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Status          string           `gorm:"type:varchar(20);not null;default:'rascunho';index"`
	StatusPagamento string           `gorm:"type:varchar(20);not null;default:'pendente'"`
	Observacoes     *string

	FinalizadaEm       *time.Time
	CanceladaEm        *time.Time
	MotivoCancelamento *string
	CanceladaPorID     *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Itens      []VendaItem      `gorm:"foreignKey:VendaID"`
	Pagamentos []VendaPagamento `gorm:"foreignKey:VendaID"`
}

// VendaItem pertence a exatamente uma venda e é criado junto com ela.
// Código e nome do produto são snapshot do momento da venda — alterações
// posteriores no catálogo não mudam vendas históricas.
type VendaItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProdutoID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	CodigoProduto string     `gorm:"type:varchar(30);not null"`
	NomeProduto   string     `gorm:"not null"`
	LoteID        *uuid.UUID `gorm:"type:uuid"`

	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// TotalItem = Quantidade × PrecoUnitario, validado na criação.
	TotalItem decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

// VendaPagamento é um instrumento de pagamento de uma venda finalizada.
// Pagamentos só existem a partir da finalização.
type VendaPagamento struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Metodo: dinheiro | cartao_debito | cartao_credito | pix | transferencia
	Metodo string          `gorm:"type:varchar(20);not null"`
	Valor  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Bandeira          *string `gorm:"type:varchar(30)"`
	CodigoAutorizacao *string `gorm:"type:varchar(60)"`
	CodigoTransacao   *string `gorm:"type:varchar(60)"`
	Observacoes       *string

	UsuarioID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}
