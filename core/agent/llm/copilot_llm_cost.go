package llm

import (
	"strings"
	"sync"
	"time"
)

// modelPrices holds USD cost per 1K tokens (input, output). Demo-grade
// estimates; never verified against a billing source.
var modelPrices = map[string][2]float64{
	"gpt-4":               {0.03, 0.06},
	"gpt-4-turbo-preview": {0.01, 0.03},
	"gpt-4o":              {0.005, 0.015},
	"gpt-4o-mini":         {0.00015, 0.0006},
	"gpt-3.5-turbo":       {0.0005, 0.0015},
}

var defaultPrice = [2]float64{0.001, 0.002}

// CalculateCost estimates the USD cost of one completion.
func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	price, ok := modelPrices[model]
	if !ok {
		// Match on prefix so versioned model names ("gpt-4-0613") still price.
		for name, p := range modelPrices {
			if strings.HasPrefix(model, name) {
				price = p
				ok = true
				break
			}
		}
	}
	if !ok {
		price = defaultPrice
	}

	return float64(inputTokens)/1000*price[0] + float64(outputTokens)/1000*price[1]
}

// CostTracker accumulates process-local LLM usage stats.
type CostTracker struct {
	mu           sync.RWMutex
	totalCost    float64
	totalTokens  int64
	requestCount int64
	dailyCost    map[string]float64
	modelUsage   map[string]int64
}

func NewCostTracker() *CostTracker {
	return &CostTracker{
		dailyCost:  make(map[string]float64),
		modelUsage: make(map[string]int64),
	}
}

// Track records one completion and returns its estimated cost.
func (t *CostTracker) Track(model string, inputTokens, outputTokens int) float64 {
	cost := CalculateCost(model, inputTokens, outputTokens)

	t.mu.Lock()
	t.totalCost += cost
	t.totalTokens += int64(inputTokens + outputTokens)
	t.requestCount++

	today := time.Now().Format("2006-01-02")
	t.dailyCost[today] += cost
	t.modelUsage[model] += int64(inputTokens + outputTokens)
	t.mu.Unlock()

	return cost
}

// CostStats is a snapshot of aggregate usage.
type CostStats struct {
	TotalCost         float64          `json:"total_cost"`
	TotalTokens       int64            `json:"total_tokens"`
	RequestCount      int64            `json:"request_count"`
	AvgCostPerRequest float64          `json:"avg_cost_per_request"`
	ModelUsage        map[string]int64 `json:"model_usage"`
}

func (t *CostTracker) GetStats() CostStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	usage := make(map[string]int64, len(t.modelUsage))
	for k, v := range t.modelUsage {
		usage[k] = v
	}

	avg := 0.0
	if t.requestCount > 0 {
		avg = t.totalCost / float64(t.requestCount)
	}

	return CostStats{
		TotalCost:         t.totalCost,
		TotalTokens:       t.totalTokens,
		RequestCount:      t.requestCount,
		AvgCostPerRequest: avg,
		ModelUsage:        usage,
	}
}
