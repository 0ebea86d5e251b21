package dto

import "github.com/shopspring/decimal"

// ConsultaPrecoResponse é a leitura de catálogo que a tela do PDV consome:
// preço e estoque, nada de cadastro.
type ConsultaPrecoResponse struct {
	ProdutoID    string          `json:"produto_id"`
	Codigo       string          `json:"codigo"`
	Nome         string          `json:"nome"`
	PrecoVenda   decimal.Decimal `json:"preco_venda"`
	EstoqueAtual int             `json:"estoque_atual"`
}
