package router

import (
	"time"

	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/config"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/handler"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/middleware"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/model"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/repository"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/service"
	"github.com/ottoffilho/pharma-ai-sistema-completo-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	movEstoqueRepo := repository.NewMovimentacaoEstoqueRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo)
	caixaSvc := service.NewCaixaService(caixaRepo)
	estoque := service.NewEstoqueLedger(produtoRepo, movEstoqueRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	vendaSvc := service.NewVendaService(vendaRepo, produtoRepo, caixaSvc, estoque, dispatcher, cfg.Tolerancia())

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	pdvH := handler.NewPDVHandler(vendaSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	produtoH := handler.NewProdutoHandler(produtoSvc)
	estoqueH := handler.NewEstoqueHandler(estoque)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operacional := middleware.RequireRole(model.RolBalconista, model.RolFarmaceutico, model.RolAdministrador)
	v1 := r.Group("/v1", jwtMW)
	{
		// Endpoint único do PDV — multiplexa as ações de venda
		v1.POST("/pdv", operacional, pdvH.Dispatch)

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", operacional, caixaH.Abrir)
			caixa.POST("/movimentacao", operacional, caixaH.Movimentacao)
			caixa.POST("/fechar", operacional, caixaH.Fechar)
			caixa.GET("/atual", operacional, caixaH.Atual)
			caixa.GET("/historico", middleware.RequireRole(model.RolFarmaceutico, model.RolAdministrador), caixaH.Historico)
		}

		v1.GET("/produtos/:codigo/preco", operacional, produtoH.ConsultarPreco)

		// Diário de estoque — conferência de inventário
		v1.GET("/estoque/movimentacoes", middleware.RequireRole(model.RolFarmaceutico, model.RolAdministrador), estoqueH.Movimentacoes)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
