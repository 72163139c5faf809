package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"comanda-monitor/internal/config"
	"comanda-monitor/internal/httpx"
	"comanda-monitor/internal/order"
)

const version = "2.0.0"

func main() {
	cfg := config.Load()

	var repo order.Repository
	switch cfg.Storage {
	case "memory":
		repo = order.NewMemRepo()
		log.Printf("[main] usando armazenamento em memória")
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			cancel()
			log.Fatalf("[main] erro ao conectar no banco de dados: %v", err)
		}
		pg := order.NewPGRepo(pool)
		if err := pg.Setup(ctx); err != nil {
			cancel()
			log.Fatalf("[main] erro ao preparar a tabela de pedidos: %v", err)
		}
		cancel()
		log.Printf("[main] tabela 'pedidos' verificada/criada com sucesso")
		repo = pg
	}

	router := newRouter(cfg, repo)

	log.Printf("[main] Monitor de Comandas v%s escutando em %s", version, cfg.Addr)
	log.Fatal(router.Run(cfg.Addr))
}

func newRouter(cfg config.Config, repo order.Repository) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpx.RequestID())
	router.Use(httpx.Logger())
	router.Use(httpx.BodyLimit(1 << 10))
	router.Use(httpx.NewRateLimiter(60, time.Minute).Middleware())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "x-api-key"},
		MaxAge:       24 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	admin := httpx.APIKey(cfg.AdminAPIKey)

	router.POST("/pedido", createOrderHandler(repo))
	router.GET("/pedidos", listOrdersHandler(repo))
	router.DELETE("/pedidos", admin, deleteAllOrdersHandler(repo))
	router.GET("/pedido/:id", getOrderHandler(repo))
	router.PUT("/pedido/:id/finalizar", admin, finalizeOrderHandler(repo))
	router.DELETE("/pedido/:id", admin, deleteOrderHandler(repo))
	router.GET("/pedido/:id/imprimir", printOrderHandler(repo))
	router.GET("/pedido/:id/card", cardOrderHandler(repo))
	router.GET("/status", statusHandler(repo))

	// display board assets
	router.Static("/monitor", cfg.StaticDir)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"erro": "Rota não encontrada."})
	})

	return router
}
