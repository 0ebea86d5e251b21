package repository

import (
	"context"
	"errors"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrSessaoAtivaDuplicada é devolvido quando o índice único parcial de
// sessão ativa rejeita uma segunda abertura concorrente.
var ErrSessaoAtivaDuplicada = errors.New("já existe uma sessão de caixa ativa")

type CaixaRepository interface {
	// CreateSessao insere a sessão como ativa. Corridas de abertura são
	// decididas pelo índice único parcial — no máximo uma vence.
	CreateSessao(ctx context.Context, s *model.SessaoCaixa) error
	FindSessaoAtiva(ctx context.Context) (*model.SessaoCaixa, error)
	FindSessaoByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error)
	UpdateSessao(ctx context.Context, s *model.SessaoCaixa) error
	CreateMovimentacao(ctx context.Context, m *model.MovimentacaoCaixa) error
	ListMovimentacoes(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentacaoCaixa, error)
	// SumVendasFinalizadas soma os totais das vendas finalizadas da sessão,
	// direto das linhas persistidas — nenhum contador em cache.
	SumVendasFinalizadas(ctx context.Context, sessaoID uuid.UUID) (decimal.Decimal, error)
	SumMovimentacoes(ctx context.Context, sessaoID uuid.UUID, tipo string) (decimal.Decimal, error)
	ListSessoesFechadas(ctx context.Context, page, limit int) ([]model.SessaoCaixa, int64, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) CreateSessao(ctx context.Context, s *model.SessaoCaixa) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if err != nil && isUniqueViolation(err) {
		return ErrSessaoAtivaDuplicada
	}
	return err
}

// isUniqueViolation detecta a violação do índice idx_sessoes_caixa_unica_ativa
// (SQLSTATE 23505) sem acoplar ao driver.
func isUniqueViolation(err error) bool {
	type sqlStater interface{ SQLState() string }
	var st sqlStater
	if errors.As(err, &st) {
		return st.SQLState() == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (r *caixaRepo) FindSessaoAtiva(ctx context.Context) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).Where("ativa = true").First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) FindSessaoByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) UpdateSessao(ctx context.Context, s *model.SessaoCaixa) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *caixaRepo) CreateMovimentacao(ctx context.Context, m *model.MovimentacaoCaixa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *caixaRepo) ListMovimentacoes(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentacaoCaixa, error) {
	var movs []model.MovimentacaoCaixa
	err := r.db.WithContext(ctx).Where("sessao_caixa_id = ?", sessaoID).
		Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) SumVendasFinalizadas(ctx context.Context, sessaoID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Venda{}).
		Where("sessao_caixa_id = ? AND status = ?", sessaoID, model.StatusVendaFinalizada).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	return total, err
}

func (r *caixaRepo) SumMovimentacoes(ctx context.Context, sessaoID uuid.UUID, tipo string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.MovimentacaoCaixa{}).
		Where("sessao_caixa_id = ? AND tipo = ?", sessaoID, tipo).
		Select("COALESCE(SUM(valor), 0)").Scan(&total).Error
	return total, err
}

func (r *caixaRepo) ListSessoesFechadas(ctx context.Context, page, limit int) ([]model.SessaoCaixa, int64, error) {
	var sessoes []model.SessaoCaixa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SessaoCaixa{}).Where("ativa = false")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("aberta_em DESC").Offset(offset).Limit(limit).Find(&sessoes).Error
	return sessoes, total, err
}
