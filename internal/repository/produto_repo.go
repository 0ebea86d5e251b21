package repository

import (
	"context"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProdutoRepository é a fatia de catálogo que o PDV enxerga: leitura de
// preço/estoque e ajustes atômicos de quantidade dentro de transações.
type ProdutoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error)
	// AjustarEstoqueTx aplica um delta atômico em estoque_atual.
	AjustarEstoqueTx(tx *gorm.DB, id uuid.UUID, delta int) error
	AjustarEstoqueLoteTx(tx *gorm.DB, loteID uuid.UUID, delta int) error
	// FindByIDTx lê o produto dentro da transação corrente, para capturar
	// o saldo anterior no registro de movimentação.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Produto, error)
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Where("codigo = ? AND ativo = true", codigo).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := tx.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) AjustarEstoqueTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Produto{}).Where("id = ?", id).
		Update("estoque_atual", gorm.Expr("estoque_atual + ?", delta)).Error
}

func (r *produtoRepo) AjustarEstoqueLoteTx(tx *gorm.DB, loteID uuid.UUID, delta int) error {
	return tx.Model(&model.Lote{}).Where("id = ?", loteID).
		Update("quantidade", gorm.Expr("quantidade + ?", delta)).Error
}
