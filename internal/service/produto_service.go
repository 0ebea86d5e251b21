package service

import (
	"context"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/dto"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/repository"
)

type ProdutoService interface {
	ConsultarPreco(ctx context.Context, codigo string) (*dto.ConsultaPrecoResponse, error)
}

type produtoService struct {
	repo repository.ProdutoRepository
}

func NewProdutoService(repo repository.ProdutoRepository) ProdutoService {
	return &produtoService{repo: repo}
}

// ConsultarPreco busca um produto ativo pelo código de barras ou interno.
func (s *produtoService) ConsultarPreco(ctx context.Context, codigo string) (*dto.ConsultaPrecoResponse, error) {
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil || p == nil {
		return nil, ErrProdutoNaoEncontrado
	}
	return &dto.ConsultaPrecoResponse{
		ProdutoID:    p.ID.String(),
		Codigo:       p.Codigo,
		Nome:         p.Nome,
		PrecoVenda:   p.PrecoVenda,
		EstoqueAtual: p.EstoqueAtual,
	}, nil
}
