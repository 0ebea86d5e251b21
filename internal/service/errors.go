package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de pré-condição do motor de vendas e caixa. Handlers mapeiam cada
// um para o status HTTP correspondente sem inspecionar strings.
var (
	ErrSemSessaoAtiva      = errors.New("nenhuma sessão de caixa aberta")
	ErrSessaoJaAberta      = errors.New("já existe uma sessão de caixa aberta")
	ErrSessaoNaoAtiva      = errors.New("a sessão de caixa não está ativa")
	ErrSessaoNaoEncontrada = errors.New("sessão de caixa não encontrada")

	ErrVendaNaoEncontrada = errors.New("venda não encontrada")
	ErrVendaNaoRascunho   = errors.New("a venda já foi finalizada ou cancelada")
	ErrVendaJaCancelada   = errors.New("a venda já está cancelada")

	ErrProdutoNaoEncontrado = errors.New("produto não encontrado")

	// ErrValidacao marca erros de consistência do payload (math de itens,
	// total divergente do subtotal − desconto, valores negativos).
	ErrValidacao = errors.New("erro de validação")
)

// PagamentoDivergenteError indica que a soma dos pagamentos menos o troco
// não bate com o total da venda. Diferenca é assinada: negativa = falta,
// positiva = sobra.
type PagamentoDivergenteError struct {
	Diferenca decimal.Decimal
}

func (e *PagamentoDivergenteError) Error() string {
	if e.Diferenca.IsNegative() {
		return fmt.Sprintf("pagamento insuficiente: faltam R$ %s", e.Diferenca.Abs().StringFixed(2))
	}
	return fmt.Sprintf("pagamento excede o total: sobram R$ %s", e.Diferenca.StringFixed(2))
}
