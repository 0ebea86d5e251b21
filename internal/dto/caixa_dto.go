package dto

import "github.com/shopspring/decimal"

// ─── Requests ───────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	ValorInicial decimal.Decimal `json:"valor_inicial" validate:"min=0"`
	Observacoes  *string         `json:"observacoes"`
}

type MovimentacaoRequest struct {
	SessaoCaixaID string          `json:"sessao_caixa_id" validate:"required,uuid"`
	Tipo          string          `json:"tipo"            validate:"required,oneof=sangria suprimento"`
	Valor         decimal.Decimal `json:"valor"           validate:"required,gt=0"`
	Descricao     string          `json:"descricao"       validate:"required,min=3"`
}

type FecharCaixaRequest struct {
	SessaoCaixaID string          `json:"sessao_caixa_id" validate:"required,uuid"`
	ValorContado  decimal.Decimal `json:"valor_contado"   validate:"min=0"`
	Observacoes   *string         `json:"observacoes"`
}

// ─── Responses ──────────────────────────────────────────────────────────────

type MovimentacaoResponse struct {
	ID            string          `json:"id"`
	SessaoCaixaID string          `json:"sessao_caixa_id"`
	Tipo          string          `json:"tipo"`
	Valor         decimal.Decimal `json:"valor"`
	Descricao     string          `json:"descricao"`
	CreatedAt     string          `json:"created_at"`
	// SaldoEsperado já reflete a movimentação recém-criada.
	SaldoEsperado decimal.Decimal `json:"saldo_esperado"`
}

type CaixaResponse struct {
	SessaoCaixaID string          `json:"sessao_caixa_id"`
	ValorInicial  decimal.Decimal `json:"valor_inicial"`
	// Derivados da sessão em andamento, recomputados a cada consulta.
	TotalVendas      decimal.Decimal `json:"total_vendas"`
	TotalSangrias    decimal.Decimal `json:"total_sangrias"`
	TotalSuprimentos decimal.Decimal `json:"total_suprimentos"`
	SaldoEsperado    decimal.Decimal `json:"saldo_esperado"`

	Ativa       bool    `json:"ativa"`
	Observacoes *string `json:"observacoes,omitempty"`
	AbertaEm    string  `json:"aberta_em"`

	ValorContado *decimal.Decimal `json:"valor_contado,omitempty"`
	Diferenca    *decimal.Decimal `json:"diferenca,omitempty"`
	FechadaEm    *string          `json:"fechada_em,omitempty"`
}

type FechamentoResponse struct {
	SessaoCaixaID string          `json:"sessao_caixa_id"`
	ValorEsperado decimal.Decimal `json:"valor_esperado"`
	ValorContado  decimal.Decimal `json:"valor_contado"`
	// Diferenca: positiva = sobra, negativa = falta, zero = caixa batido.
	Diferenca decimal.Decimal `json:"diferenca"`
	FechadaEm string          `json:"fechada_em"`
}

type HistoricoCaixaResponse struct {
	Data  []CaixaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
