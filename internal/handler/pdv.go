package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/apierror"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/dto"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/middleware"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PDVRequest is the action envelope of the PDV endpoint: a single POST that
// multiplexes the sale operations by typed action.
type PDVRequest struct {
	Acao  string          `json:"acao"  validate:"required"`
	Dados json.RawMessage `json:"dados"`
}

// Ações aceitas pelo PDV.
const (
	AcaoCriarVenda     = "CRIAR_VENDA_PDV"
	AcaoFinalizarVenda = "FINALIZAR_VENDA"
	AcaoCancelarVenda  = "CANCELAR_VENDA"
	AcaoObterVenda     = "obter-venda"
	AcaoListarVendas   = "listar-vendas"
)

type pdvAction func(h *PDVHandler, c *gin.Context, usuarioID uuid.UUID, dados json.RawMessage)

// acoes is the typed dispatch table. Unknown actions never reach a service.
var acoes = map[string]pdvAction{
	AcaoCriarVenda:     (*PDVHandler).criarVenda,
	AcaoFinalizarVenda: (*PDVHandler).finalizarVenda,
	AcaoCancelarVenda:  (*PDVHandler).cancelarVenda,
	AcaoObterVenda:     (*PDVHandler).obterVenda,
	AcaoListarVendas:   (*PDVHandler).listarVendas,
}

type PDVHandler struct{ svc service.VendaService }

func NewPDVHandler(svc service.VendaService) *PDVHandler { return &PDVHandler{svc: svc} }

// Dispatch godoc
// @Summary Executa uma ação do PDV (criar, finalizar, cancelar, consultar vendas)
// @Tags pdv
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PDVRequest true "Envelope de ação"
// @Success 200 {object} dto.VendaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/pdv [post]
func (h *PDVHandler) Dispatch(c *gin.Context) {
	var req PDVRequest
	if !bindAndValidate(c, &req) {
		return
	}

	action, ok := acoes[req.Acao]
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.New("ação desconhecida: "+req.Acao))
		return
	}

	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("token mal formado"))
		return
	}

	action(h, c, usuarioID, req.Dados)
}

func (h *PDVHandler) criarVenda(c *gin.Context, usuarioID uuid.UUID, dados json.RawMessage) {
	var req dto.CriarVendaRequest
	if !decodeDados(c, dados, &req) {
		return
	}
	resp, err := h.svc.CriarVenda(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PDVHandler) finalizarVenda(c *gin.Context, usuarioID uuid.UUID, dados json.RawMessage) {
	var req dto.FinalizarVendaRequest
	if !decodeDados(c, dados, &req) {
		return
	}
	resp, err := h.svc.FinalizarVenda(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PDVHandler) cancelarVenda(c *gin.Context, usuarioID uuid.UUID, dados json.RawMessage) {
	var req dto.CancelarVendaRequest
	if !decodeDados(c, dados, &req) {
		return
	}
	resp, err := h.svc.CancelarVenda(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PDVHandler) obterVenda(c *gin.Context, _ uuid.UUID, dados json.RawMessage) {
	var req dto.ObterVendaRequest
	if !decodeDados(c, dados, &req) {
		return
	}
	id, err := uuid.Parse(req.VendaID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("venda_id inválido"))
		return
	}
	resp, err := h.svc.ObterVenda(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PDVHandler) listarVendas(c *gin.Context, _ uuid.UUID, dados json.RawMessage) {
	var filter dto.VendaFilter
	if len(dados) > 0 {
		if !decodeDados(c, dados, &filter) {
			return
		}
	}
	resp, err := h.svc.ListarVendas(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// decodeDados unmarshals the action payload and runs validator tags on it.
func decodeDados(c *gin.Context, dados json.RawMessage, out interface{}) bool {
	if len(dados) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("campo dados é obrigatório para esta ação"))
		return false
	}
	if err := json.Unmarshal(dados, out); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("dados inválidos: "+err.Error()))
		return false
	}
	return validateStruct(c, out)
}
