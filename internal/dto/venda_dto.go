package dto

import "github.com/shopspring/decimal"

// ─── Requests ───────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID     string          `json:"produto_id"     validate:"required,uuid"`
	CodigoProduto string          `json:"codigo_produto"`
	NomeProduto   string          `json:"nome_produto"`
	Quantidade    int             `json:"quantidade"     validate:"required,min=1"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" validate:"min=0"`
	TotalItem     decimal.Decimal `json:"total_item"     validate:"min=0"`
	LoteID        *string         `json:"lote_id"        validate:"omitempty,uuid"`
}

type CriarVendaRequest struct {
	ClienteID        *string `json:"cliente_id"        validate:"omitempty,uuid"`
	ClienteNome      *string `json:"cliente_nome"`
	ClienteDocumento *string `json:"cliente_documento"`
	ClienteTelefone  *string `json:"cliente_telefone"`
	ClienteEmail     *string `json:"cliente_email"     validate:"omitempty,email"`

	Itens         []ItemVendaRequest `json:"itens"          validate:"required,min=1,dive"`
	Subtotal      decimal.Decimal    `json:"subtotal"       validate:"min=0"`
	DescontoValor decimal.Decimal    `json:"desconto_valor" validate:"min=0"`
	DescontoPct   *decimal.Decimal   `json:"desconto_pct"   validate:"omitempty,min=0"`
	Total         decimal.Decimal    `json:"total"          validate:"min=0"`
	Observacoes   *string            `json:"observacoes"`
}

type PagamentoRequest struct {
	Metodo            string          `json:"metodo" validate:"required,oneof=dinheiro cartao_debito cartao_credito pix transferencia"`
	Valor             decimal.Decimal `json:"valor"  validate:"required"`
	Bandeira          *string         `json:"bandeira"`
	CodigoAutorizacao *string         `json:"codigo_autorizacao"`
	CodigoTransacao   *string         `json:"codigo_transacao"`
	Observacoes       *string         `json:"observacoes"`
}

type FinalizarVendaRequest struct {
	VendaID    string             `json:"venda_id"   validate:"required,uuid"`
	Pagamentos []PagamentoRequest `json:"pagamentos" validate:"required,min=1,dive"`
	Troco      decimal.Decimal    `json:"troco"      validate:"min=0"`
}

type CancelarVendaRequest struct {
	VendaID string  `json:"venda_id" validate:"required,uuid"`
	Motivo  *string `json:"motivo"`
}

type ObterVendaRequest struct {
	VendaID string `json:"venda_id" validate:"required,uuid"`
}

// VendaFilter filtra a listagem de vendas.
type VendaFilter struct {
	Status  string `json:"status"   validate:"omitempty,oneof=rascunho finalizada cancelada"`
	DataDe  string `json:"data_de"  validate:"omitempty,datetime=2006-01-02"`
	DataAte string `json:"data_ate" validate:"omitempty,datetime=2006-01-02"`
	Limit   int    `json:"limit"    validate:"omitempty,min=1,max=200"`
	Offset  int    `json:"offset"   validate:"omitempty,min=0"`
}

// ─── Responses ──────────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ProdutoID     string          `json:"produto_id"`
	CodigoProduto string          `json:"codigo_produto"`
	NomeProduto   string          `json:"nome_produto"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	TotalItem     decimal.Decimal `json:"total_item"`
	LoteID        *string         `json:"lote_id,omitempty"`
}

type PagamentoResponse struct {
	Metodo            string          `json:"metodo"`
	Valor             decimal.Decimal `json:"valor"`
	Bandeira          *string         `json:"bandeira,omitempty"`
	CodigoAutorizacao *string         `json:"codigo_autorizacao,omitempty"`
	CodigoTransacao   *string         `json:"codigo_transacao,omitempty"`
}

type VendaResponse struct {
	ID              string              `json:"id"`
	Numero          string              `json:"numero"`
	SessaoCaixaID   string              `json:"sessao_caixa_id"`
	ClienteNome     *string             `json:"cliente_nome,omitempty"`
	Itens           []ItemVendaResponse `json:"itens"`
	Pagamentos      []PagamentoResponse `json:"pagamentos,omitempty"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DescontoValor   decimal.Decimal     `json:"desconto_valor"`
	Total           decimal.Decimal     `json:"total"`
	Troco           decimal.Decimal     `json:"troco"`
	Status          string              `json:"status"`
	StatusPagamento string              `json:"status_pagamento"`
	Observacoes     *string             `json:"observacoes,omitempty"`
	CreatedAt       string              `json:"created_at"`
	FinalizadaEm    *string             `json:"finalizada_em,omitempty"`
	CanceladaEm     *string             `json:"cancelada_em,omitempty"`
}

type CriarVendaResponse struct {
	VendaID string        `json:"venda_id"`
	Numero  string        `json:"numero"`
	Venda   VendaResponse `json:"venda"`
}

type FinalizarVendaResponse struct {
	Success bool            `json:"success"`
	VendaID string          `json:"venda_id"`
	Numero  string          `json:"numero"`
	Total   decimal.Decimal `json:"total"`
	Troco   decimal.Decimal `json:"troco"`
}

type CancelarVendaResponse struct {
	Success bool `json:"success"`
}

type VendaListResponse struct {
	Data   []VendaResponse `json:"data"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
