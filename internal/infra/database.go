package infra

import (
	"fmt"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (the sale number sequence and the partial unique index
// that enforces a single active cash session).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus the schema patches. Also used by
// integration tests against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Produto{},
		&model.Lote{},
		&model.SessaoCaixa{},
		&model.MovimentacaoCaixa{},
		&model.Venda{},
		&model.VendaItem{},
		&model.VendaPagamento{},
		&model.MovimentacaoEstoque{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Safe to re-run on an already-patched database.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Numeração de vendas: sequence do Postgres. Estritamente crescente
		// sob concorrência; lacunas em rollback são aceitas.
		{"create vendas_numero_seq",
			`CREATE SEQUENCE IF NOT EXISTS vendas_numero_seq START 1`},

		// No máximo uma sessão de caixa ativa no sistema inteiro. O índice
		// único parcial decide corridas de abertura concorrente no banco,
		// não em código de aplicação.
		{"create partial unique index on sessoes_caixa.ativa", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sessoes_caixa_unica_ativa') THEN
    CREATE UNIQUE INDEX idx_sessoes_caixa_unica_ativa
        ON sessoes_caixa (ativa)
        WHERE ativa;
  END IF;
END $$`},

		// Consulta do razão de estoque por produto
		{"create index on movimentacoes_estoque.produto_id", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimentacoes_estoque_produto') THEN
    CREATE INDEX idx_movimentacoes_estoque_produto
        ON movimentacoes_estoque (produto_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
