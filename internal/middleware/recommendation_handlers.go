package middleware

import (
	"net/http"

	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/AgusMolinaCode/stockly/internal/services"
	"github.com/gin-gonic/gin"
)

// profileRequest es el formulario de objetivos tal como lo envía el cliente
type profileRequest struct {
	Goal             string `json:"goal" form:"goal"`
	Risk             string `json:"risk" form:"risk"`
	CustomGoal       string `json:"custom_goal" form:"custom_goal"`
	InvestmentAmount string `json:"investment_amount" form:"investment_amount"`
	TimeHorizon      string `json:"time_horizon" form:"time_horizon"`
}

func (r profileRequest) toProfile() models.InvestorProfile {
	p := models.InvestorProfile{
		Goal:        r.Goal,
		Risk:        r.Risk,
		CustomGoal:  r.CustomGoal,
		TimeHorizon: r.TimeHorizon,
	}
	// Un monto inválido se trata como no especificado
	if amount, ok := services.ParseInvestmentAmount(r.InvestmentAmount); ok {
		p.InvestmentAmount = amount
	}
	return services.NormalizeProfile(p)
}

func bindProfile(c *gin.Context) (models.InvestorProfile, error) {
	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		return models.InvestorProfile{}, err
	}
	return req.toProfile(), nil
}

// SetGoals valida el formulario de objetivos y devuelve el perfil normalizado
func (h *Handlers) SetGoals(c *gin.Context) {
	profile, err := bindProfile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Handlers) GetRecommendations(c *gin.Context) {
	profile, err := bindProfile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	picks, err := h.Recommender.Recommend(c.Request.Context(), profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":         profile,
		"recommendations": picks,
	})
}
