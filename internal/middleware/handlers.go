package middleware

import (
	"net/http"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/repository"
	"github.com/AgusMolinaCode/stockly/internal/services"
	"github.com/gin-gonic/gin"
)

// Handlers agrupa las dependencias que comparten los handlers HTTP
type Handlers struct {
	Holdings    *repository.HoldingsRepository
	Portfolio   *services.PortfolioService
	Oracle      services.PriceOracle
	Recommender services.Recommender
	// PriceUpdater es opcional; si está, /health informa la última actualización
	PriceUpdater *services.PriceUpdater
	HistoryDays  int
	now          func() time.Time
}

func NewHandlers(
	holdings *repository.HoldingsRepository,
	portfolio *services.PortfolioService,
	oracle services.PriceOracle,
	recommender services.Recommender,
) *Handlers {
	return &Handlers{
		Holdings:    holdings,
		Portfolio:   portfolio,
		Oracle:      oracle,
		Recommender: recommender,
		HistoryDays: 30,
		now:         time.Now,
	}
}

// Health informa que el servicio está vivo y el estado de la actualización de precios
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if h.PriceUpdater != nil {
		last, priced := h.PriceUpdater.LastUpdated()
		if !last.IsZero() {
			resp["prices_updated_at"] = last
			resp["prices_refreshed"] = priced
		}
	}
	c.JSON(http.StatusOK, resp)
}
