//go:build integration

package repository

// integration_test.go
// Exercises the repositories against a real Postgres via testcontainers:
// the vendas_numero_seq sequence, the partial unique index that enforces a
// single active cash session, and the derived SUM queries.
// Run with: go test -tags integration ./internal/repository/... -v

import (
	"context"
	"testing"
	"time"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/infra"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("pharma_test"),
		tcPostgres.WithUsername("pharma"),
		tcPostgres.WithPassword("pharma"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	return db
}

func abrirSessao(t *testing.T, repo CaixaRepository, valorInicial string) *model.SessaoCaixa {
	t.Helper()
	v, _ := decimal.NewFromString(valorInicial)
	s := &model.SessaoCaixa{
		UsuarioAberturaID: uuid.New(),
		ValorInicial:      v,
		AbertaEm:          time.Now(),
		Ativa:             true,
	}
	require.NoError(t, repo.CreateSessao(context.Background(), s))
	return s
}

func TestProximoNumeroEstritamenteCrescente(t *testing.T) {
	db := setupDB(t)
	repo := NewVendaRepository(db)
	ctx := context.Background()

	var numeros []string
	for i := 0; i < 5; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			n, err := repo.ProximoNumero(ctx, tx)
			if err != nil {
				return err
			}
			numeros = append(numeros, n)
			return nil
		})
		require.NoError(t, err)
	}

	require.Len(t, numeros, 5)
	assert.Equal(t, "000001", numeros[0])
	for i := 1; i < len(numeros); i++ {
		assert.Greater(t, numeros[i], numeros[i-1])
		assert.Len(t, numeros[i], 6)
	}
}

func TestProximoNumeroPermiteLacunaEmRollback(t *testing.T) {
	db := setupDB(t)
	repo := NewVendaRepository(db)
	ctx := context.Background()

	// Tx que consome um número e faz rollback
	_ = db.Transaction(func(tx *gorm.DB) error {
		_, err := repo.ProximoNumero(ctx, tx)
		require.NoError(t, err)
		return assert.AnError
	})

	var depois string
	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := repo.ProximoNumero(ctx, tx)
		depois = n
		return err
	})
	require.NoError(t, err)

	// A lacuna é aceita; o que importa é continuar crescendo
	assert.Equal(t, "000002", depois)
}

func TestIndiceUnicoDeSessaoAtiva(t *testing.T) {
	db := setupDB(t)
	repo := NewCaixaRepository(db)
	ctx := context.Background()

	primeira := abrirSessao(t, repo, "100.00")

	segunda := &model.SessaoCaixa{
		UsuarioAberturaID: uuid.New(),
		ValorInicial:      decimal.NewFromInt(50),
		AbertaEm:          time.Now(),
		Ativa:             true,
	}
	err := repo.CreateSessao(ctx, segunda)
	assert.ErrorIs(t, err, ErrSessaoAtivaDuplicada)

	// Fechada a primeira, uma nova abertura passa
	primeira.Ativa = false
	agora := time.Now()
	primeira.FechadaEm = &agora
	require.NoError(t, repo.UpdateSessao(ctx, primeira))

	terceira := &model.SessaoCaixa{
		UsuarioAberturaID: uuid.New(),
		ValorInicial:      decimal.NewFromInt(80),
		AbertaEm:          time.Now(),
		Ativa:             true,
	}
	require.NoError(t, repo.CreateSessao(ctx, terceira))
}

func TestSumVendasFinalizadasIgnoraOutrosStatus(t *testing.T) {
	db := setupDB(t)
	caixaRepo := NewCaixaRepository(db)
	vendaRepo := NewVendaRepository(db)
	ctx := context.Background()

	sessao := abrirSessao(t, caixaRepo, "100.00")
	usuarioID := uuid.New()

	criar := func(numero, status, total string) {
		tot, _ := decimal.NewFromString(total)
		v := &model.Venda{
			Numero:        numero,
			SessaoCaixaID: sessao.ID,
			UsuarioID:     usuarioID,
			Subtotal:      tot,
			Total:         tot,
			Status:        status,
		}
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return vendaRepo.CreateTx(tx, v)
		}))
	}

	criar("000001", model.StatusVendaFinalizada, "59.90")
	criar("000002", model.StatusVendaFinalizada, "40.10")
	criar("000003", model.StatusVendaRascunho, "99.00")
	criar("000004", model.StatusVendaCancelada, "15.00")

	total, err := caixaRepo.SumVendasFinalizadas(ctx, sessao.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(100.00)), "total = %s", total)
}

func TestSumMovimentacoesPorTipo(t *testing.T) {
	db := setupDB(t)
	repo := NewCaixaRepository(db)
	ctx := context.Background()

	sessao := abrirSessao(t, repo, "100.00")
	usuarioID := uuid.New()

	registrar := func(tipo, valor string) {
		v, _ := decimal.NewFromString(valor)
		require.NoError(t, repo.CreateMovimentacao(ctx, &model.MovimentacaoCaixa{
			SessaoCaixaID: sessao.ID,
			Tipo:          tipo,
			Valor:         v,
			Descricao:     "movimentação de teste",
			UsuarioID:     usuarioID,
		}))
	}

	registrar(model.MovimentacaoSangria, "30.00")
	registrar(model.MovimentacaoSangria, "20.00")
	registrar(model.MovimentacaoSuprimento, "15.00")

	sangrias, err := repo.SumMovimentacoes(ctx, sessao.ID, model.MovimentacaoSangria)
	require.NoError(t, err)
	assert.True(t, sangrias.Equal(decimal.NewFromInt(50)))

	suprimentos, err := repo.SumMovimentacoes(ctx, sessao.ID, model.MovimentacaoSuprimento)
	require.NoError(t, err)
	assert.True(t, suprimentos.Equal(decimal.NewFromInt(15)))
}

func TestAjustarEstoqueAtomico(t *testing.T) {
	db := setupDB(t)
	repo := NewProdutoRepository(db)
	ctx := context.Background()

	p := &model.Produto{
		Codigo:       "7891000100103",
		Nome:         "Dipirona 500mg",
		PrecoVenda:   decimal.NewFromFloat(12.50),
		EstoqueAtual: 30,
		Ativo:        true,
	}
	require.NoError(t, db.Create(p).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.AjustarEstoqueTx(tx, p.ID, -3)
	}))

	atual, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 27, atual.EstoqueAtual)
}
