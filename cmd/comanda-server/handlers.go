package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comanda-monitor/internal/card"
	"comanda-monitor/internal/order"
	"comanda-monitor/internal/receipt"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"erro": "Pedido não encontrado."})
		return 0, false
	}
	return id, true
}

func createOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err != nil || len(raw) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "Corpo da requisição vazio ou inválido."})
			return
		}

		if errs := order.Validate(raw); len(errs) > 0 {
			log.Printf("[pedido] tentativa de pedido inválido: %v", errs)
			c.JSON(http.StatusBadRequest, gin.H{"erro": "Dados inválidos no pedido.", "detalhes": errs})
			return
		}

		o, err := repo.Insert(c.Request.Context(), raw)
		if err != nil {
			log.Printf("[pedido] erro ao salvar pedido: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno ao processar pedido."})
			return
		}

		log.Printf("[pedido] pedido recebido: ID %d - Display ID %v", o.ID, o.Payload["displayId"])
		c.JSON(http.StatusCreated, o)
	}
}

func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.List(c.Request.Context())
		if err != nil {
			log.Printf("[pedido] erro ao buscar pedidos: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno ao buscar pedidos."})
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		o, err := repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"erro": "Pedido não encontrado."})
			return
		}
		if err != nil {
			log.Printf("[pedido] erro ao buscar pedido: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno ao buscar pedido."})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func finalizeOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		o, err := repo.UpdateStatus(c.Request.Context(), id, order.StatusFinalized, map[string]any{
			"finalizadoEm": time.Now().UTC().Format(time.RFC3339),
		})
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"erro": "Pedido não encontrado."})
			return
		}
		if err != nil {
			log.Printf("[pedido] erro ao finalizar pedido: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno ao finalizar pedido."})
			return
		}
		log.Printf("[pedido] pedido #%d marcado como finalizado", id)
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		o, err := repo.DeleteByID(c.Request.Context(), id)
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"erro": "Pedido não encontrado."})
			return
		}
		if err != nil {
			log.Printf("[pedido] erro ao remover pedido: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno ao remover pedido."})
			return
		}
		log.Printf("[pedido] pedido #%d removido", id)
		c.JSON(http.StatusOK, gin.H{"mensagem": "Pedido removido com sucesso.", "pedido": o})
	}
}

func deleteAllOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.DeleteAll(c.Request.Context()); err != nil {
			log.Printf("[pedido] erro ao limpar pedidos: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno ao limpar pedidos."})
			return
		}
		log.Printf("[pedido] lista de pedidos limpa")
		c.JSON(http.StatusOK, gin.H{"mensagem": "Lista de pedidos limpa com sucesso."})
	}
}

func printOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		o, err := repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"erro": "Pedido não encontrado."})
			return
		}
		if err != nil {
			log.Printf("[pedido] erro ao gerar recibo: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno ao gerar recibo."})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(receipt.Render(*o)))
	}
}

func cardOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		o, err := repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"erro": "Pedido não encontrado."})
			return
		}
		if err != nil {
			log.Printf("[pedido] erro ao renderizar card: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno ao renderizar card."})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(card.Render(*o, time.Now())))
	}
}

func statusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		database := "desconectado"
		count := 0
		if repo.Ping(ctx) {
			database = "conectado"
			if n, err := repo.Count(ctx); err == nil {
				count = n
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":        "online",
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
			"pedidosAtivos": count,
			"versao":        version,
			"database":      database,
		})
	}
}
