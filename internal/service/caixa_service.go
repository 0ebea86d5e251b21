package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/dto"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CaixaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	RegistrarMovimentacao(ctx context.Context, usuarioID uuid.UUID, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error)
	Fechar(ctx context.Context, usuarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error)
	Atual(ctx context.Context) (*dto.CaixaResponse, error)
	Historico(ctx context.Context, page, limit int) (*dto.HistoricoCaixaResponse, error)
	// SessaoAtiva é consumido pelo VendaService ao criar vendas.
	SessaoAtiva(ctx context.Context) (*model.SessaoCaixa, error)
}

type caixaService struct {
	repo repository.CaixaRepository
}

func NewCaixaService(repo repository.CaixaRepository) CaixaService {
	return &caixaService{repo: repo}
}

// ── Abrir ────────────────────────────────────────────────────────────────────
// No máximo uma sessão ativa no sistema. O check aqui devolve o erro amigável
// no caminho comum; aberturas concorrentes que passam pelo check são decididas
// pelo índice único parcial — exatamente uma vence.

func (s *caixaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	if req.ValorInicial.IsNegative() {
		return nil, fmt.Errorf("%w: valor inicial não pode ser negativo", ErrValidacao)
	}

	if existente, err := s.repo.FindSessaoAtiva(ctx); err == nil && existente != nil {
		return nil, ErrSessaoJaAberta
	}

	sessao := &model.SessaoCaixa{
		UsuarioAberturaID:   usuarioID,
		ValorInicial:        req.ValorInicial,
		ObservacoesAbertura: req.Observacoes,
		AbertaEm:            time.Now(),
		Ativa:               true,
	}
	if err := s.repo.CreateSessao(ctx, sessao); err != nil {
		if errors.Is(err, repository.ErrSessaoAtivaDuplicada) {
			return nil, ErrSessaoJaAberta
		}
		return nil, err
	}

	return s.montarResposta(ctx, sessao)
}

// ── RegistrarMovimentacao ────────────────────────────────────────────────────
// Sangria ou suprimento. Movimentações são imutáveis — correções são novas
// movimentações de sinal oposto. O saldo da sessão nunca é cacheado: toda
// resposta deriva do que está persistido.

func (s *caixaService) RegistrarMovimentacao(ctx context.Context, usuarioID uuid.UUID, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error) {
	sessaoID, err := uuid.Parse(req.SessaoCaixaID)
	if err != nil {
		return nil, fmt.Errorf("%w: sessao_caixa_id inválido", ErrValidacao)
	}

	sessao, err := s.repo.FindSessaoByID(ctx, sessaoID)
	if err != nil {
		return nil, ErrSessaoNaoEncontrada
	}
	if !sessao.Ativa {
		return nil, ErrSessaoNaoAtiva
	}

	mov := &model.MovimentacaoCaixa{
		SessaoCaixaID: sessaoID,
		Tipo:          req.Tipo,
		Valor:         req.Valor,
		Descricao:     req.Descricao,
		UsuarioID:     usuarioID,
	}
	if err := s.repo.CreateMovimentacao(ctx, mov); err != nil {
		return nil, err
	}

	saldo, err := s.saldoEsperado(ctx, sessao)
	if err != nil {
		return nil, err
	}

	return &dto.MovimentacaoResponse{
		ID:            mov.ID.String(),
		SessaoCaixaID: sessaoID.String(),
		Tipo:          mov.Tipo,
		Valor:         mov.Valor,
		Descricao:     mov.Descricao,
		CreatedAt:     mov.CreatedAt.Format(time.RFC3339),
		SaldoEsperado: saldo,
	}, nil
}

// ── Fechar ───────────────────────────────────────────────────────────────────
// O fechamento nunca rejeita o valor contado: a contagem física é a verdade;
// a diferença é um fato operacional a registrar, não uma falha de validação.
// Diferenças grandes saem em log de warning para alerta operacional.

func (s *caixaService) Fechar(ctx context.Context, usuarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error) {
	sessaoID, err := uuid.Parse(req.SessaoCaixaID)
	if err != nil {
		return nil, fmt.Errorf("%w: sessao_caixa_id inválido", ErrValidacao)
	}

	sessao, err := s.repo.FindSessaoByID(ctx, sessaoID)
	if err != nil {
		return nil, ErrSessaoNaoEncontrada
	}
	if !sessao.Ativa {
		return nil, ErrSessaoNaoAtiva
	}

	esperado, err := s.saldoEsperado(ctx, sessao)
	if err != nil {
		return nil, err
	}
	diferenca := req.ValorContado.Sub(esperado)

	agora := time.Now()
	contado := req.ValorContado
	sessao.Ativa = false
	sessao.FechadaEm = &agora
	sessao.UsuarioFechamentoID = &usuarioID
	sessao.ValorEsperado = &esperado
	sessao.ValorContado = &contado
	sessao.Diferenca = &diferenca
	sessao.ObservacoesFechamento = req.Observacoes

	if err := s.repo.UpdateSessao(ctx, sessao); err != nil {
		return nil, err
	}

	if !diferenca.IsZero() {
		log.Warn().
			Str("sessao_caixa_id", sessaoID.String()).
			Str("esperado", esperado.StringFixed(2)).
			Str("contado", contado.StringFixed(2)).
			Str("diferenca", diferenca.StringFixed(2)).
			Msg("fechamento de caixa com diferença")
	}

	return &dto.FechamentoResponse{
		SessaoCaixaID: sessaoID.String(),
		ValorEsperado: esperado,
		ValorContado:  contado,
		Diferenca:     diferenca,
		FechadaEm:     agora.Format(time.RFC3339),
	}, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *caixaService) Atual(ctx context.Context) (*dto.CaixaResponse, error) {
	sessao, err := s.SessaoAtiva(ctx)
	if err != nil {
		return nil, err
	}
	return s.montarResposta(ctx, sessao)
}

func (s *caixaService) Historico(ctx context.Context, page, limit int) (*dto.HistoricoCaixaResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sessoes, total, err := s.repo.ListSessoesFechadas(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.CaixaResponse, 0, len(sessoes))
	for i := range sessoes {
		resp, err := s.montarResposta(ctx, &sessoes[i])
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}
	return &dto.HistoricoCaixaResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *caixaService) SessaoAtiva(ctx context.Context) (*model.SessaoCaixa, error) {
	sessao, err := s.repo.FindSessaoAtiva(ctx)
	if err != nil || sessao == nil {
		return nil, ErrSemSessaoAtiva
	}
	return sessao, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// saldoEsperado recomputa o saldo a partir das linhas persistidas:
// inicial + vendas finalizadas − sangrias + suprimentos.
func (s *caixaService) saldoEsperado(ctx context.Context, sessao *model.SessaoCaixa) (decimal.Decimal, error) {
	vendas, err := s.repo.SumVendasFinalizadas(ctx, sessao.ID)
	if err != nil {
		return decimal.Zero, err
	}
	sangrias, err := s.repo.SumMovimentacoes(ctx, sessao.ID, model.MovimentacaoSangria)
	if err != nil {
		return decimal.Zero, err
	}
	suprimentos, err := s.repo.SumMovimentacoes(ctx, sessao.ID, model.MovimentacaoSuprimento)
	if err != nil {
		return decimal.Zero, err
	}
	return sessao.ValorInicial.Add(vendas).Sub(sangrias).Add(suprimentos), nil
}

func (s *caixaService) montarResposta(ctx context.Context, sessao *model.SessaoCaixa) (*dto.CaixaResponse, error) {
	vendas, err := s.repo.SumVendasFinalizadas(ctx, sessao.ID)
	if err != nil {
		return nil, err
	}
	sangrias, err := s.repo.SumMovimentacoes(ctx, sessao.ID, model.MovimentacaoSangria)
	if err != nil {
		return nil, err
	}
	suprimentos, err := s.repo.SumMovimentacoes(ctx, sessao.ID, model.MovimentacaoSuprimento)
	if err != nil {
		return nil, err
	}

	resp := &dto.CaixaResponse{
		SessaoCaixaID:    sessao.ID.String(),
		ValorInicial:     sessao.ValorInicial,
		TotalVendas:      vendas,
		TotalSangrias:    sangrias,
		TotalSuprimentos: suprimentos,
		SaldoEsperado:    sessao.ValorInicial.Add(vendas).Sub(sangrias).Add(suprimentos),
		Ativa:            sessao.Ativa,
		Observacoes:      sessao.ObservacoesAbertura,
		AbertaEm:         sessao.AbertaEm.Format(time.RFC3339),
		ValorContado:     sessao.ValorContado,
		Diferenca:        sessao.Diferenca,
	}
	if sessao.FechadaEm != nil {
		t := sessao.FechadaEm.Format(time.RFC3339)
		resp.FechadaEm = &t
	}
	return resp, nil
}
