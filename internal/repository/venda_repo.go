package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/dto"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTransicaoInvalida é devolvido quando o status da venda mudou entre a
// leitura e a escrita — outra transação venceu a corrida.
var ErrTransicaoInvalida = errors.New("o status da venda mudou sob concorrência")

type VendaRepository interface {
	// CreateTx persiste a venda com todos os itens em cascata, dentro da tx.
	CreateTx(tx *gorm.DB, v *model.Venda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	// AtualizarStatusTx grava a transição de estado da venda somente se o
	// status persistido ainda for statusDe; caso contrário devolve
	// ErrTransicaoInvalida sem escrever nada. É o guard que decide corridas
	// de finalização/cancelamento no banco, não em memória.
	AtualizarStatusTx(tx *gorm.DB, id uuid.UUID, statusDe string, campos map[string]interface{}) error
	CreatePagamentosTx(tx *gorm.DB, pagamentos []model.VendaPagamento) error
	// ProximoNumero aloca o próximo número de venda, zero-padded com 6
	// dígitos. Usa uma sequence do Postgres: estritamente crescente sob
	// concorrência, sem garantia de ausência de lacunas.
	ProximoNumero(ctx context.Context, tx *gorm.DB) (string, error)
	List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)
	// DB expõe a conexão para o service abrir transações.
	DB() *gorm.DB
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) DB() *gorm.DB { return r.db }

func (r *vendaRepo) CreateTx(tx *gorm.DB, v *model.Venda) error {
	return tx.Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).Preload("Itens").Preload("Pagamentos").First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendaRepo) AtualizarStatusTx(tx *gorm.DB, id uuid.UUID, statusDe string, campos map[string]interface{}) error {
	res := tx.Model(&model.Venda{}).
		Where("id = ? AND status = ?", id, statusDe).
		Updates(campos)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransicaoInvalida
	}
	return nil
}

func (r *vendaRepo) CreatePagamentosTx(tx *gorm.DB, pagamentos []model.VendaPagamento) error {
	return tx.Create(&pagamentos).Error
}

func (r *vendaRepo) ProximoNumero(ctx context.Context, tx *gorm.DB) (string, error) {
	var num int64
	if err := tx.WithContext(ctx).Raw("SELECT nextval('vendas_numero_seq')").Scan(&num).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", num), nil
}

func (r *vendaRepo) List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venda{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DataDe != "" {
		q = q.Where("DATE(created_at) >= ?", filter.DataDe)
	}
	if filter.DataAte != "" {
		q = q.Where("DATE(created_at) <= ?", filter.DataAte)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	err := q.Preload("Itens").Preload("Pagamentos").
		Order("created_at DESC").
		Offset(filter.Offset).Limit(limit).
		Find(&vendas).Error

	return vendas, total, err
}
