package handler

import (
	"net/http"
	"strconv"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/apierror"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/repository"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EstoqueHandler struct{ ledger service.EstoqueLedger }

func NewEstoqueHandler(ledger service.EstoqueLedger) *EstoqueHandler {
	return &EstoqueHandler{ledger: ledger}
}

// Movimentacoes godoc
// @Summary Lista o diário de movimentações de estoque
// @Tags estoque
// @Produce json
// @Security BearerAuth
// @Param produto_id query string false "Filtra por produto (UUID)"
// @Param tipo query string false "venda | estorno_cancelamento | ajuste_manual"
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Itens por página (default 100)"
// @Success 200 {object} dto.MovimentacoesEstoqueResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/estoque/movimentacoes [get]
func (h *EstoqueHandler) Movimentacoes(c *gin.Context) {
	var filter repository.MovimentacaoEstoqueFilter

	if raw := c.Query("produto_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("produto_id inválido"))
			return
		}
		filter.ProdutoID = &id
	}
	filter.Tipo = c.Query("tipo")
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	resp, err := h.ledger.ListarMovimentacoes(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
