package service

import (
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/dto"

	"github.com/shopspring/decimal"
)

// ConferirPagamentos valida um conjunto de pagamentos contra o total da
// venda: Σ(valor) − troco deve igualar o total dentro da tolerância.
// Função pura, sem efeito colateral — a finalização só escreve depois que
// ela passa.
//
// Nenhuma regra restringe a combinação de métodos: multi-pagamento parcial
// é suportado, o que precisa fechar é a soma.
func ConferirPagamentos(pagamentos []dto.PagamentoRequest, troco, total, tolerancia decimal.Decimal) error {
	soma := decimal.Zero
	for _, p := range pagamentos {
		soma = soma.Add(p.Valor)
	}

	diferenca := soma.Sub(troco).Sub(total)
	if diferenca.Abs().GreaterThan(tolerancia) {
		return &PagamentoDivergenteError{Diferenca: diferenca}
	}
	return nil
}
