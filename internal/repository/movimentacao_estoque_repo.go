package repository

import (
	"context"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimentacaoEstoqueFilter filtra a listagem do diário de estoque.
type MovimentacaoEstoqueFilter struct {
	ProdutoID *uuid.UUID
	Tipo      string
	Page      int
	Limit     int
}

type MovimentacaoEstoqueRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimentacaoEstoque) error
	List(ctx context.Context, filter MovimentacaoEstoqueFilter) ([]model.MovimentacaoEstoque, int64, error)
}

type movimentacaoEstoqueRepo struct{ db *gorm.DB }

func NewMovimentacaoEstoqueRepository(db *gorm.DB) MovimentacaoEstoqueRepository {
	return &movimentacaoEstoqueRepo{db: db}
}

func (r *movimentacaoEstoqueRepo) CreateTx(tx *gorm.DB, m *model.MovimentacaoEstoque) error {
	return tx.Create(m).Error
}

func (r *movimentacaoEstoqueRepo) List(ctx context.Context, filter MovimentacaoEstoqueFilter) ([]model.MovimentacaoEstoque, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimentacaoEstoque{})
	if filter.ProdutoID != nil {
		q = q.Where("produto_id = ?", *filter.ProdutoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movs []model.MovimentacaoEstoque
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movs).Error
	return movs, total, err
}
