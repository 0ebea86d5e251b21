package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto é a fatia do catálogo que o PDV consulta: preço e estoque.
// O cadastro completo (compras, fornecedores, precificação) vive fora
// deste serviço.
type Produto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo       string          `gorm:"type:varchar(30);uniqueIndex;not null"`
	Nome         string          `gorm:"index;not null"`
	PrecoVenda   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EstoqueAtual int             `gorm:"not null;default:0"`
	Ativo        bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lotes []Lote `gorm:"foreignKey:ProdutoID"`
}

// Lote é uma subdivisão de estoque com validade própria. Itens de venda
// podem opcionalmente referenciar o lote baixado.
type Lote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Numero     string    `gorm:"type:varchar(30);not null"`
	Quantidade int       `gorm:"not null;default:0"`
	Validade   *time.Time
	CreatedAt  time.Time
}
