package dto

// MovimentacaoEstoqueResponse é uma linha do diário de estoque.
type MovimentacaoEstoqueResponse struct {
	ID              string  `json:"id"`
	ProdutoID       string  `json:"produto_id"`
	LoteID          *string `json:"lote_id,omitempty"`
	Tipo            string  `json:"tipo"`
	Quantidade      int     `json:"quantidade"`
	EstoqueAnterior int     `json:"estoque_anterior"`
	EstoqueNovo     int     `json:"estoque_novo"`
	Motivo          string  `json:"motivo"`
	VendaID         *string `json:"venda_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type MovimentacoesEstoqueResponse struct {
	Data  []MovimentacaoEstoqueResponse `json:"data"`
	Total int64                         `json:"total"`
	Page  int                           `json:"page"`
	Limit int                           `json:"limit"`
}
