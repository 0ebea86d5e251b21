package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/dto"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory VendaRepository ────────────────────────────────────────────────

type memVendaRepo struct {
	vendas  map[uuid.UUID]*model.Venda
	proximo int64
}

func newMemVendaRepo() *memVendaRepo {
	return &memVendaRepo{vendas: make(map[uuid.UUID]*model.Venda)}
}

func (r *memVendaRepo) DB() *gorm.DB { return nil }

func (r *memVendaRepo) CreateTx(_ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	for i := range v.Itens {
		if v.Itens[i].ID == uuid.Nil {
			v.Itens[i].ID = uuid.New()
		}
		v.Itens[i].VendaID = v.ID
	}
	r.vendas[v.ID] = v
	return nil
}

func (r *memVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

func (r *memVendaRepo) AtualizarStatusTx(_ *gorm.DB, id uuid.UUID, statusDe string, campos map[string]interface{}) error {
	v, ok := r.vendas[id]
	if !ok {
		return errors.New("record not found")
	}
	if v.Status != statusDe {
		return repository.ErrTransicaoInvalida
	}
	for campo, valor := range campos {
		switch campo {
		case "status":
			v.Status = valor.(string)
		case "status_pagamento":
			v.StatusPagamento = valor.(string)
		case "troco":
			v.Troco = valor.(decimal.Decimal)
		case "finalizada_em":
			t := valor.(time.Time)
			v.FinalizadaEm = &t
		case "cancelada_em":
			t := valor.(time.Time)
			v.CanceladaEm = &t
		case "cancelada_por_id":
			u := valor.(uuid.UUID)
			v.CanceladaPorID = &u
		case "motivo_cancelamento":
			m := valor.(string)
			v.MotivoCancelamento = &m
		}
	}
	return nil
}

func (r *memVendaRepo) CreatePagamentosTx(_ *gorm.DB, pagamentos []model.VendaPagamento) error {
	for _, p := range pagamentos {
		v, ok := r.vendas[p.VendaID]
		if !ok {
			return errors.New("record not found")
		}
		p.ID = uuid.New()
		p.CreatedAt = time.Now()
		v.Pagamentos = append(v.Pagamentos, p)
	}
	return nil
}

func (r *memVendaRepo) ProximoNumero(_ context.Context, _ *gorm.DB) (string, error) {
	r.proximo++
	return fmt.Sprintf("%06d", r.proximo), nil
}

func (r *memVendaRepo) List(_ context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var result []model.Venda
	for _, v := range r.vendas {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		result = append(result, *v)
	}
	return result, int64(len(result)), nil
}

var _ repository.VendaRepository = (*memVendaRepo)(nil)

// staleVendaRepo devolve um snapshot congelado da venda no FindByID,
// simulando uma leitura feita antes de outra requisição escrever o status.
type staleVendaRepo struct {
	*memVendaRepo
	staleID  uuid.UUID
	snapshot model.Venda
}

func (r *staleVendaRepo) congelar(id uuid.UUID) {
	r.staleID = id
	r.snapshot = *r.memVendaRepo.vendas[id]
}

func (r *staleVendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	if id == r.staleID {
		copia := r.snapshot
		return &copia, nil
	}
	return r.memVendaRepo.FindByID(ctx, id)
}

// ── In-memory ProdutoRepository ──────────────────────────────────────────────

type memProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newMemProdutoRepo() *memProdutoRepo {
	return &memProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *memProdutoRepo) add(codigo, nome string, preco decimal.Decimal, estoque int) uuid.UUID {
	id := uuid.New()
	r.produtos[id] = &model.Produto{
		ID: id, Codigo: codigo, Nome: nome,
		PrecoVenda: preco, EstoqueAtual: estoque, Ativo: true,
	}
	return id
}

func (r *memProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *memProdutoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.Codigo == codigo && p.Ativo {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *memProdutoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Produto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *memProdutoRepo) AjustarEstoqueTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.produtos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.EstoqueAtual += delta
	return nil
}

func (r *memProdutoRepo) AjustarEstoqueLoteTx(_ *gorm.DB, _ uuid.UUID, _ int) error {
	return nil
}

var _ repository.ProdutoRepository = (*memProdutoRepo)(nil)

// ── In-memory MovimentacaoEstoqueRepository ──────────────────────────────────

type memMovEstoqueRepo struct {
	movimentacoes []model.MovimentacaoEstoque
}

func (r *memMovEstoqueRepo) CreateTx(_ *gorm.DB, m *model.MovimentacaoEstoque) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movimentacoes = append(r.movimentacoes, *m)
	return nil
}

func (r *memMovEstoqueRepo) List(_ context.Context, filter repository.MovimentacaoEstoqueFilter) ([]model.MovimentacaoEstoque, int64, error) {
	var result []model.MovimentacaoEstoque
	for _, m := range r.movimentacoes {
		if filter.ProdutoID != nil && m.ProdutoID != *filter.ProdutoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

var _ repository.MovimentacaoEstoqueRepository = (*memMovEstoqueRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type vendaFixture struct {
	svc       VendaService
	caixa     CaixaService
	vendas    *memVendaRepo
	produtos  *memProdutoRepo
	estoque   *memMovEstoqueRepo
	sessaoID  uuid.UUID
	usuarioID uuid.UUID
}

// newVendaFixture monta o serviço com repos em memória e uma sessão de
// caixa já aberta.
func newVendaFixture(t *testing.T) *vendaFixture {
	t.Helper()

	caixaRepo := newMemCaixaRepo()
	caixaSvc := NewCaixaService(caixaRepo)

	usuarioID := uuid.New()
	aberta, err := caixaSvc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{
		ValorInicial: dec("100.00"),
	})
	require.NoError(t, err)

	vendas := newMemVendaRepo()
	produtos := newMemProdutoRepo()
	movEstoque := &memMovEstoqueRepo{}
	ledger := NewEstoqueLedger(produtos, movEstoque)

	svc := NewVendaService(vendas, produtos, caixaSvc, ledger, nil, dec("0.01"))

	return &vendaFixture{
		svc:       svc,
		caixa:     caixaSvc,
		vendas:    vendas,
		produtos:  produtos,
		estoque:   movEstoque,
		sessaoID:  uuid.MustParse(aberta.SessaoCaixaID),
		usuarioID: usuarioID,
	}
}

func (f *vendaFixture) criarRascunho(t *testing.T, produtoID uuid.UUID, qtd int, preco string) *dto.CriarVendaResponse {
	t.Helper()
	precoDec := dec(preco)
	total := precoDec.Mul(decimal.NewFromInt(int64(qtd)))
	resp, err := f.svc.CriarVenda(context.Background(), f.usuarioID, dto.CriarVendaRequest{
		Itens: []dto.ItemVendaRequest{{
			ProdutoID:     produtoID.String(),
			Quantidade:    qtd,
			PrecoUnitario: precoDec,
			TotalItem:     total,
		}},
		Subtotal: total,
		Total:    total,
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCriarVendaSemSessaoAtivaFalha(t *testing.T) {
	caixaSvc := NewCaixaService(newMemCaixaRepo())
	produtos := newMemProdutoRepo()
	svc := NewVendaService(newMemVendaRepo(), produtos, caixaSvc, NewEstoqueLedger(produtos, &memMovEstoqueRepo{}), nil, dec("0.01"))

	pid := produtos.add("7891000100103", "Dipirona 500mg", dec("12.50"), 30)
	_, err := svc.CriarVenda(context.Background(), uuid.New(), dto.CriarVendaRequest{
		Itens: []dto.ItemVendaRequest{{
			ProdutoID: pid.String(), Quantidade: 1,
			PrecoUnitario: dec("12.50"), TotalItem: dec("12.50"),
		}},
		Subtotal: dec("12.50"),
		Total:    dec("12.50"),
	})
	assert.ErrorIs(t, err, ErrSemSessaoAtiva)
}

func TestCriarVendaRascunho(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("12.50"), 30)

	resp := f.criarRascunho(t, pid, 2, "12.50")

	assert.Equal(t, "000001", resp.Numero)
	assert.Equal(t, model.StatusVendaRascunho, resp.Venda.Status)
	assert.Equal(t, model.StatusPagamentoPendente, resp.Venda.StatusPagamento)
	assert.Equal(t, f.sessaoID.String(), resp.Venda.SessaoCaixaID)

	// Snapshot de código e nome preenchido a partir do catálogo
	require.Len(t, resp.Venda.Itens, 1)
	assert.Equal(t, "7891000100103", resp.Venda.Itens[0].CodigoProduto)
	assert.Equal(t, "Dipirona 500mg", resp.Venda.Itens[0].NomeProduto)

	// Rascunho não toca estoque
	p, _ := f.produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 30, p.EstoqueAtual)
	assert.Empty(t, f.estoque.movimentacoes)
}

func TestNumeracaoSequencial(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("12.50"), 30)

	primeira := f.criarRascunho(t, pid, 1, "12.50")
	segunda := f.criarRascunho(t, pid, 1, "12.50")

	assert.Equal(t, "000001", primeira.Numero)
	assert.Equal(t, "000002", segunda.Numero)
}

func TestCriarVendaComTotalDivergenteFalha(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("12.50"), 30)

	_, err := f.svc.CriarVenda(context.Background(), f.usuarioID, dto.CriarVendaRequest{
		Itens: []dto.ItemVendaRequest{{
			ProdutoID: pid.String(), Quantidade: 2,
			PrecoUnitario: dec("12.50"), TotalItem: dec("25.00"),
		}},
		Subtotal: dec("25.00"),
		Total:    dec("30.00"), // não bate com subtotal − desconto
	})
	assert.ErrorIs(t, err, ErrValidacao)
}

func TestCriarVendaProdutoInexistenteFalha(t *testing.T) {
	f := newVendaFixture(t)

	_, err := f.svc.CriarVenda(context.Background(), f.usuarioID, dto.CriarVendaRequest{
		Itens: []dto.ItemVendaRequest{{
			ProdutoID: uuid.NewString(), Quantidade: 1,
			PrecoUnitario: dec("9.90"), TotalItem: dec("9.90"),
		}},
		Subtotal: dec("9.90"),
		Total:    dec("9.90"),
	})
	assert.ErrorIs(t, err, ErrProdutoNaoEncontrado)
}

func TestFinalizarVendaComPagamentoExato(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("29.95"), 30)
	rascunho := f.criarRascunho(t, pid, 2, "29.95")

	resp, err := f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID: rascunho.VendaID,
		Pagamentos: []dto.PagamentoRequest{
			{Metodo: model.MetodoDinheiro, Valor: dec("59.90")},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Total.Equal(dec("59.90")))

	venda := f.vendas.vendas[uuid.MustParse(rascunho.VendaID)]
	assert.Equal(t, model.StatusVendaFinalizada, venda.Status)
	assert.Equal(t, model.StatusPagamentoPago, venda.StatusPagamento)
	assert.NotNil(t, venda.FinalizadaEm)
	require.Len(t, venda.Pagamentos, 1)
	assert.Equal(t, f.usuarioID, venda.Pagamentos[0].UsuarioID)

	// Baixa de estoque com movimentação de auditoria
	p, _ := f.produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 28, p.EstoqueAtual)
	require.Len(t, f.estoque.movimentacoes, 1)
	mov := f.estoque.movimentacoes[0]
	assert.Equal(t, model.EstoqueMovVenda, mov.Tipo)
	assert.Equal(t, -2, mov.Quantidade)
	assert.Equal(t, 30, mov.EstoqueAnterior)
	assert.Equal(t, 28, mov.EstoqueNovo)
}

func TestFinalizarVendaMultiPagamento(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("70.00"), 10)
	rascunho := f.criarRascunho(t, pid, 1, "70.00")

	resp, err := f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID: rascunho.VendaID,
		Pagamentos: []dto.PagamentoRequest{
			{Metodo: model.MetodoDinheiro, Valor: dec("40.00")},
			{Metodo: model.MetodoCartaoCredito, Valor: dec("30.00")},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	venda := f.vendas.vendas[uuid.MustParse(rascunho.VendaID)]
	require.Len(t, venda.Pagamentos, 2)
	assert.Equal(t, model.MetodoDinheiro, venda.Pagamentos[0].Metodo)
	assert.Equal(t, model.MetodoCartaoCredito, venda.Pagamentos[1].Metodo)
}

func TestFinalizarVendaComPagamentoDivergenteNaoEscreve(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("29.95"), 30)
	rascunho := f.criarRascunho(t, pid, 2, "29.95")

	_, err := f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID: rascunho.VendaID,
		Pagamentos: []dto.PagamentoRequest{
			{Metodo: model.MetodoPix, Valor: dec("50.00")},
		},
	})

	var divergente *PagamentoDivergenteError
	require.ErrorAs(t, err, &divergente)
	assert.True(t, divergente.Diferenca.Equal(dec("-9.9")), "diferenca = %s", divergente.Diferenca)

	// A venda continua rascunho, intocada
	venda := f.vendas.vendas[uuid.MustParse(rascunho.VendaID)]
	assert.Equal(t, model.StatusVendaRascunho, venda.Status)
	assert.Empty(t, venda.Pagamentos)

	p, _ := f.produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 30, p.EstoqueAtual)
	assert.Empty(t, f.estoque.movimentacoes)
}

func TestFinalizarVendaJaFinalizadaFalha(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("10.00"), 30)
	rascunho := f.criarRascunho(t, pid, 1, "10.00")

	pagamentos := []dto.PagamentoRequest{{Metodo: model.MetodoDinheiro, Valor: dec("10.00")}}
	_, err := f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID: rascunho.VendaID, Pagamentos: pagamentos,
	})
	require.NoError(t, err)

	_, err = f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID: rascunho.VendaID, Pagamentos: pagamentos,
	})
	assert.ErrorIs(t, err, ErrVendaNaoRascunho)

	// Estoque debitado uma única vez
	p, _ := f.produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 29, p.EstoqueAtual)
}

func TestCancelarVendaFinalizadaEstornaEstoque(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("10.00"), 30)
	rascunho := f.criarRascunho(t, pid, 3, "10.00")

	_, err := f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID:    rascunho.VendaID,
		Pagamentos: []dto.PagamentoRequest{{Metodo: model.MetodoDinheiro, Valor: dec("30.00")}},
	})
	require.NoError(t, err)

	motivo := "cliente desistiu"
	resp, err := f.svc.CancelarVenda(context.Background(), f.usuarioID, dto.CancelarVendaRequest{
		VendaID: rascunho.VendaID, Motivo: &motivo,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	// Estoque de volta ao original, com movimento de estorno registrado
	p, _ := f.produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 30, p.EstoqueAtual)
	require.Len(t, f.estoque.movimentacoes, 2)
	estorno := f.estoque.movimentacoes[1]
	assert.Equal(t, model.EstoqueMovEstorno, estorno.Tipo)
	assert.Equal(t, 3, estorno.Quantidade)

	venda := f.vendas.vendas[uuid.MustParse(rascunho.VendaID)]
	assert.Equal(t, model.StatusVendaCancelada, venda.Status)
	assert.Equal(t, model.StatusPagamentoCancelado, venda.StatusPagamento)
	require.NotNil(t, venda.MotivoCancelamento)
	assert.Equal(t, motivo, *venda.MotivoCancelamento)
	require.NotNil(t, venda.CanceladaPorID)
	assert.Equal(t, f.usuarioID, *venda.CanceladaPorID)
}

func TestCancelarVendaDuasVezesFalha(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("10.00"), 30)
	rascunho := f.criarRascunho(t, pid, 3, "10.00")

	_, err := f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID:    rascunho.VendaID,
		Pagamentos: []dto.PagamentoRequest{{Metodo: model.MetodoDinheiro, Valor: dec("30.00")}},
	})
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), f.usuarioID, dto.CancelarVendaRequest{VendaID: rascunho.VendaID})
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), f.usuarioID, dto.CancelarVendaRequest{VendaID: rascunho.VendaID})
	assert.ErrorIs(t, err, ErrVendaJaCancelada)

	// Estorno aplicado exatamente uma vez
	p, _ := f.produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 30, p.EstoqueAtual)
}

func TestCancelamentoConcorrenteEstornaUmaVez(t *testing.T) {
	caixaSvc := NewCaixaService(newMemCaixaRepo())
	usuarioID := uuid.New()
	_, err := caixaSvc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)

	vendas := &staleVendaRepo{memVendaRepo: newMemVendaRepo()}
	produtos := newMemProdutoRepo()
	movEstoque := &memMovEstoqueRepo{}
	svc := NewVendaService(vendas, produtos, caixaSvc, NewEstoqueLedger(produtos, movEstoque), nil, dec("0.01"))

	pid := produtos.add("7891000100103", "Dipirona 500mg", dec("10.00"), 30)
	rascunho, err := svc.CriarVenda(context.Background(), usuarioID, dto.CriarVendaRequest{
		Itens: []dto.ItemVendaRequest{{
			ProdutoID: pid.String(), Quantidade: 3,
			PrecoUnitario: dec("10.00"), TotalItem: dec("30.00"),
		}},
		Subtotal: dec("30.00"),
		Total:    dec("30.00"),
	})
	require.NoError(t, err)

	_, err = svc.FinalizarVenda(context.Background(), usuarioID, dto.FinalizarVendaRequest{
		VendaID:    rascunho.VendaID,
		Pagamentos: []dto.PagamentoRequest{{Metodo: model.MetodoDinheiro, Valor: dec("30.00")}},
	})
	require.NoError(t, err)

	// Duas requisições de cancelamento leram a venda ainda finalizada; a
	// segunda escreve sobre um status que já mudou.
	vendaID := uuid.MustParse(rascunho.VendaID)
	vendas.congelar(vendaID)

	_, err = svc.CancelarVenda(context.Background(), usuarioID, dto.CancelarVendaRequest{VendaID: rascunho.VendaID})
	require.NoError(t, err)

	_, err = svc.CancelarVenda(context.Background(), usuarioID, dto.CancelarVendaRequest{VendaID: rascunho.VendaID})
	assert.ErrorIs(t, err, ErrVendaJaCancelada)

	// Estorno creditado exatamente uma vez, sem movimento duplicado
	p, _ := produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 30, p.EstoqueAtual)
	assert.Len(t, movEstoque.movimentacoes, 2)
}

func TestFinalizacaoConcorrenteNaoDuplicaEscritas(t *testing.T) {
	caixaSvc := NewCaixaService(newMemCaixaRepo())
	usuarioID := uuid.New()
	_, err := caixaSvc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)

	vendas := &staleVendaRepo{memVendaRepo: newMemVendaRepo()}
	produtos := newMemProdutoRepo()
	movEstoque := &memMovEstoqueRepo{}
	svc := NewVendaService(vendas, produtos, caixaSvc, NewEstoqueLedger(produtos, movEstoque), nil, dec("0.01"))

	pid := produtos.add("7891000100103", "Dipirona 500mg", dec("10.00"), 30)
	rascunho, err := svc.CriarVenda(context.Background(), usuarioID, dto.CriarVendaRequest{
		Itens: []dto.ItemVendaRequest{{
			ProdutoID: pid.String(), Quantidade: 1,
			PrecoUnitario: dec("10.00"), TotalItem: dec("10.00"),
		}},
		Subtotal: dec("10.00"),
		Total:    dec("10.00"),
	})
	require.NoError(t, err)

	// Ambas as requisições leram o rascunho antes da primeira finalizar
	vendaID := uuid.MustParse(rascunho.VendaID)
	vendas.congelar(vendaID)

	pagamentos := []dto.PagamentoRequest{{Metodo: model.MetodoDinheiro, Valor: dec("10.00")}}
	_, err = svc.FinalizarVenda(context.Background(), usuarioID, dto.FinalizarVendaRequest{
		VendaID: rascunho.VendaID, Pagamentos: pagamentos,
	})
	require.NoError(t, err)

	_, err = svc.FinalizarVenda(context.Background(), usuarioID, dto.FinalizarVendaRequest{
		VendaID: rascunho.VendaID, Pagamentos: pagamentos,
	})
	assert.ErrorIs(t, err, ErrVendaNaoRascunho)

	// Baixa de estoque e pagamento registrados uma única vez
	p, _ := produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 29, p.EstoqueAtual)
	assert.Len(t, movEstoque.movimentacoes, 1)
	assert.Len(t, vendas.memVendaRepo.vendas[vendaID].Pagamentos, 1)
}

func TestCancelarRascunhoNaoTocaEstoque(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("10.00"), 30)
	rascunho := f.criarRascunho(t, pid, 3, "10.00")

	_, err := f.svc.CancelarVenda(context.Background(), f.usuarioID, dto.CancelarVendaRequest{VendaID: rascunho.VendaID})
	require.NoError(t, err)

	p, _ := f.produtos.FindByID(context.Background(), pid)
	assert.Equal(t, 30, p.EstoqueAtual)
	assert.Empty(t, f.estoque.movimentacoes)

	venda := f.vendas.vendas[uuid.MustParse(rascunho.VendaID)]
	assert.Equal(t, model.StatusVendaCancelada, venda.Status)
}

func TestObterVendaInexistente(t *testing.T) {
	f := newVendaFixture(t)
	_, err := f.svc.ObterVenda(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrVendaNaoEncontrada)
}

func TestDiarioDeEstoqueConsultavel(t *testing.T) {
	f := newVendaFixture(t)
	ledger := NewEstoqueLedger(f.produtos, f.estoque)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("10.00"), 30)
	rascunho := f.criarRascunho(t, pid, 2, "10.00")

	_, err := f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID:    rascunho.VendaID,
		Pagamentos: []dto.PagamentoRequest{{Metodo: model.MetodoDinheiro, Valor: dec("20.00")}},
	})
	require.NoError(t, err)
	_, err = f.svc.CancelarVenda(context.Background(), f.usuarioID, dto.CancelarVendaRequest{VendaID: rascunho.VendaID})
	require.NoError(t, err)

	tudo, err := ledger.ListarMovimentacoes(context.Background(), repository.MovimentacaoEstoqueFilter{ProdutoID: &pid})
	require.NoError(t, err)
	assert.Equal(t, int64(2), tudo.Total)

	vendas, err := ledger.ListarMovimentacoes(context.Background(), repository.MovimentacaoEstoqueFilter{
		ProdutoID: &pid,
		Tipo:      model.EstoqueMovVenda,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), vendas.Total)
	assert.Equal(t, -2, vendas.Data[0].Quantidade)
	require.NotNil(t, vendas.Data[0].VendaID)
	assert.Equal(t, rascunho.VendaID, *vendas.Data[0].VendaID)
}

func TestListarVendasPorStatus(t *testing.T) {
	f := newVendaFixture(t)
	pid := f.produtos.add("7891000100103", "Dipirona 500mg", dec("10.00"), 30)

	primeira := f.criarRascunho(t, pid, 1, "10.00")
	f.criarRascunho(t, pid, 1, "10.00")

	_, err := f.svc.FinalizarVenda(context.Background(), f.usuarioID, dto.FinalizarVendaRequest{
		VendaID:    primeira.VendaID,
		Pagamentos: []dto.PagamentoRequest{{Metodo: model.MetodoDinheiro, Valor: dec("10.00")}},
	})
	require.NoError(t, err)

	finalizadas, err := f.svc.ListarVendas(context.Background(), dto.VendaFilter{Status: model.StatusVendaFinalizada})
	require.NoError(t, err)
	assert.Equal(t, int64(1), finalizadas.Total)

	rascunhos, err := f.svc.ListarVendas(context.Background(), dto.VendaFilter{Status: model.StatusVendaRascunho})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rascunhos.Total)
}
