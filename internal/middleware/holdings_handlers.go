package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/AgusMolinaCode/stockly/internal/repository"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) GetHoldings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"holdings": h.Holdings.GetAll(c.Request.Context())})
}

func (h *Handlers) CreateHolding(c *gin.Context) {
	var input models.HoldingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holdings, err := h.Holdings.Upsert(c.Request.Context(), input.Ticker, input.Shares, input.PurchasePrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Holding saved",
		"holdings": holdings,
	})
}

func (h *Handlers) UpdateHolding(c *gin.Context) {
	var input models.HoldingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holdings, err := h.Holdings.Edit(c.Request.Context(), c.Param("ticker"), input.Shares, input.PurchasePrice)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrHoldingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Holding updated",
		"holdings": holdings,
	})
}

func (h *Handlers) DeleteHolding(c *gin.Context) {
	holdings := h.Holdings.Delete(c.Request.Context(), c.Param("ticker"))
	c.JSON(http.StatusOK, gin.H{
		"message":  "Holding deleted",
		"holdings": holdings,
	})
}

// GetHoldingHistory devuelve los cierres diarios recientes de un ticker
func (h *Handlers) GetHoldingHistory(c *gin.Context) {
	days := h.HistoryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	ticker := repository.NormalizeTicker(c.Param("ticker"))
	points, err := h.Oracle.History(c.Request.Context(), ticker, days)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"ticker":    ticker,
			"available": false,
			"history":   []models.PricePoint{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":    ticker,
		"available": true,
		"history":   points,
	})
}
