package models

// Objetivos de inversión que acepta el formulario
const (
	GoalBuildWealth    = "build_wealth"
	GoalSaveForCollege = "save_for_college"
	GoalShortTerm      = "short_term"
	GoalRetirement     = "retirement"
	GoalEmergencyFund  = "emergency_fund"
)

// Tolerancias al riesgo
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// InvestorProfile guarda las respuestas del formulario de objetivos
type InvestorProfile struct {
	Goal        string `json:"goal" form:"goal"`
	Risk        string `json:"risk" form:"risk"`
	CustomGoal  string `json:"custom_goal,omitempty" form:"custom_goal"`
	TimeHorizon string `json:"time_horizon,omitempty" form:"time_horizon"`
	// InvestmentAmount es 0 si el inversor no indicó un monto
	InvestmentAmount float64 `json:"investment_amount,omitempty"`
}

// RecommendationPick es una sugerencia de acción o ETF
type RecommendationPick struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Why          string  `json:"why"`
	RiskLevel    string  `json:"risk_level"`
	Timeframe    string  `json:"timeframe"`
	Allocation   string  `json:"allocation"`
	DollarAmount float64 `json:"dollar_amount"`
}
