package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/AgusMolinaCode/stockly/internal/logger"
	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/AgusMolinaCode/stockly/internal/report"
	"github.com/AgusMolinaCode/stockly/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
)

// GetPerformance devuelve el snapshot en vivo, o {"empty": true} si la cartera está vacía
func (h *Handlers) GetPerformance(c *gin.Context) {
	snapshot, err := h.Portfolio.Snapshot(c.Request.Context())
	if errors.Is(err, services.ErrEmptyPortfolio) {
		c.JSON(http.StatusOK, gin.H{"empty": true})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetNarrative devuelve la explicación en texto y en HTML
func (h *Handlers) GetNarrative(c *gin.Context) {
	text, _, err := h.Portfolio.Narrative(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrEmptyPortfolio):
		c.JSON(http.StatusNotFound, gin.H{"error": "Add holdings to see a performance summary"})
		return
	case errors.Is(err, services.ErrNoPricedHoldings):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Prices are currently unavailable for your holdings"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(text), &html); err != nil {
		logger.WarnWithErr(c.Request.Context(), "Failed to render narrative html", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"text": text,
		"html": html.String(),
	})
}

// snapshotForExport obtiene el snapshot y responde 404 si la cartera está vacía
func (h *Handlers) snapshotForExport(c *gin.Context) (models.PerformanceSnapshot, bool) {
	snapshot, err := h.Portfolio.Snapshot(c.Request.Context())
	if errors.Is(err, services.ErrEmptyPortfolio) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No holdings to export"})
		return snapshot, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return snapshot, false
	}
	return snapshot, true
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (h *Handlers) ExportCSV(c *gin.Context) {
	snapshot, ok := h.snapshotForExport(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, snapshot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating CSV"})
		return
	}

	attachment(c, report.Filename("csv", h.now()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportPDF genera el reporte; incluye recomendaciones si la petición trae
// un perfil de inversor (al menos un objetivo)
func (h *Handlers) ExportPDF(c *gin.Context) {
	snapshot, ok := h.snapshotForExport(c)
	if !ok {
		return
	}

	var picks []models.RecommendationPick
	if c.Query("goal") != "" {
		profile, err := bindProfile(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		picks, err = h.Recommender.Recommend(c.Request.Context(), profile)
		if err != nil {
			logger.WarnWithErr(c.Request.Context(), "Exporting without recommendations", err)
			picks = nil
		}
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, report.BuildDocument(snapshot, picks)); err != nil {
		logger.ErrorWithErr(c.Request.Context(), "Failed to render PDF", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating PDF"})
		return
	}

	attachment(c, report.Filename("pdf", h.now()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
