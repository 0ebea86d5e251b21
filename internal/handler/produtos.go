package handler

import (
	"net/http"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/apierror"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ProdutoHandler struct{ svc service.ProdutoService }

func NewProdutoHandler(svc service.ProdutoService) *ProdutoHandler {
	return &ProdutoHandler{svc: svc}
}

// ConsultarPreco godoc
// @Summary Consulta preço e estoque de um produto pelo código
// @Tags produtos
// @Produce json
// @Security BearerAuth
// @Param codigo path string true "Código de barras ou interno"
// @Success 200 {object} dto.ConsultaPrecoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/produtos/{codigo}/preco [get]
func (h *ProdutoHandler) ConsultarPreco(c *gin.Context) {
	codigo := c.Param("codigo")
	if codigo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("código é obrigatório"))
		return
	}
	resp, err := h.svc.ConsultarPreco(c.Request.Context(), codigo)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
