package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/logger"
	"github.com/AgusMolinaCode/stockly/internal/models"
)

// PriceOracle resuelve precios de mercado por ticker
type PriceOracle interface {
	// Quote devuelve el precio actual o un error que envuelve ErrPriceUnavailable
	Quote(ctx context.Context, ticker string) (float64, error)
	// History devuelve los cierres diarios de los últimos días, del más antiguo al más reciente
	History(ctx context.Context, ticker string, days int) ([]models.PricePoint, error)
}

const (
	defaultYahooEndpoint = "https://query1.finance.yahoo.com/v8/finance/chart"
	maxHistoryDays       = 365
)

type cachedPrice struct {
	Price     float64
	Timestamp time.Time
}

// YahooOracle lee precios del endpoint chart de Yahoo Finance y guarda las
// cotizaciones en caché durante un TTL corto
type YahooOracle struct {
	endpoint string
	ttl      time.Duration
	client   *http.Client

	priceCache map[string]cachedPrice
	mutex      sync.RWMutex
	now        func() time.Time
}

func NewYahooOracle(endpoint string, ttl time.Duration) *YahooOracle {
	if endpoint == "" {
		endpoint = defaultYahooEndpoint
	}
	return &YahooOracle{
		endpoint:   strings.TrimRight(endpoint, "/"),
		ttl:        ttl,
		client:     &http.Client{Timeout: 10 * time.Second},
		priceCache: make(map[string]cachedPrice),
		now:        time.Now,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (o *YahooOracle) Quote(ctx context.Context, ticker string) (float64, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	// Verificar si tenemos una cotización reciente en caché
	o.mutex.RLock()
	cached, exists := o.priceCache[ticker]
	o.mutex.RUnlock()
	if exists && o.now().Sub(cached.Timestamp) < o.ttl {
		return cached.Price, nil
	}

	ctx, span := logger.StartSpan(ctx, "yahoo.Quote")
	defer span.End()

	chart, err := o.fetch(ctx, ticker, "1d")
	if err != nil {
		logger.WarnWithErr(ctx, "Failed to fetch price", err, "ticker", ticker)
		return 0, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, ticker, err)
	}

	price := chart.Chart.Result[0].Meta.RegularMarketPrice
	if !usablePrice(price) {
		return 0, fmt.Errorf("%w: %s: no market price", ErrPriceUnavailable, ticker)
	}

	o.mutex.Lock()
	o.priceCache[ticker] = cachedPrice{Price: price, Timestamp: o.now()}
	o.mutex.Unlock()

	logger.Debug(ctx, "Price updated", "ticker", ticker, "price", price)
	return price, nil
}

func (o *YahooOracle) History(ctx context.Context, ticker string, days int) ([]models.PricePoint, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	days = clampDays(days)

	ctx, span := logger.StartSpan(ctx, "yahoo.History")
	defer span.End()

	chart, err := o.fetch(ctx, ticker, fmt.Sprintf("%dd", days))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, ticker, err)
	}

	result := chart.Chart.Result[0]
	var closes []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Yahoo deja cierres null en los días sin mercado
		if i >= len(closes) || closes[i] == nil || !usablePrice(*closes[i]) {
			continue
		}
		points = append(points, models.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Price: *closes[i],
		})
	}
	return points, nil
}

func (o *YahooOracle) fetch(ctx context.Context, ticker, rng string) (*chartResponse, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", rng)
	u := fmt.Sprintf("%s/%s?%s", o.endpoint, url.PathEscape(ticker), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rechaza peticiones sin un user agent de navegador
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; stockly/1.0)")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decoding chart response (http %d): %w", resp.StatusCode, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data for %s", ticker)
	}
	return &chart, nil
}

// usablePrice descarta precios cero, negativos o no finitos
func usablePrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

func clampDays(days int) int {
	if days <= 0 {
		return 30
	}
	if days > maxHistoryDays {
		return maxHistoryDays
	}
	return days
}

// StaticOracle sirve precios desde una tabla fija
type StaticOracle struct {
	prices map[string]float64
	now    func() time.Time
}

func NewStaticOracle(prices map[string]float64) *StaticOracle {
	normalized := make(map[string]float64, len(prices))
	for ticker, price := range prices {
		normalized[strings.ToUpper(ticker)] = price
	}
	return &StaticOracle{prices: normalized, now: time.Now}
}

func (o *StaticOracle) Quote(_ context.Context, ticker string) (float64, error) {
	price, ok := o.prices[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok || !usablePrice(price) {
		return 0, fmt.Errorf("%w: %s", ErrPriceUnavailable, ticker)
	}
	return price, nil
}

// History repite el precio fijo una vez por día
func (o *StaticOracle) History(ctx context.Context, ticker string, days int) ([]models.PricePoint, error) {
	price, err := o.Quote(ctx, ticker)
	if err != nil {
		return nil, err
	}
	days = clampDays(days)
	today := o.now().UTC().Truncate(24 * time.Hour)

	points := make([]models.PricePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		points = append(points, models.PricePoint{Date: today.AddDate(0, 0, -i), Price: price})
	}
	return points, nil
}
