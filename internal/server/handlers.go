package server

import (
	"context"
	"net/http"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, model.Welcome{Message: Greeting})
}

func (s *Server) handleEndpoints(c *gin.Context) {
	c.JSON(http.StatusOK, model.EndpointList{
		Message:            EndpointsMessage,
		AvailableEndpoints: s.Routes(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCoffees(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	coffees, err := s.store.Coffees(ctx)
	if err != nil {
		internalError(c, err, "Failed to list coffees")
		return
	}
	c.JSON(http.StatusOK, coffees)
}

func (s *Server) handleProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	products, err := s.store.Products(ctx)
	if err != nil {
		internalError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) handleHistory(c *gin.Context) {
	productID := c.Param("product_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	history, err := s.store.History(ctx, productID)
	if err != nil {
		internalError(c, err, "Failed to load price history")
		return
	}
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// internalError logs err and answers 500 without leaking database details.
func internalError(c *gin.Context, err error, msg string) {
	common.LogError(err, msg, common.Fields{"path": c.FullPath()})
	c.JSON(http.StatusInternalServerError, gin.H{"detail": msg})
}
