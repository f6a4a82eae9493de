package steering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platewise/platewise/internal/config"
)

func TestMatchHighestPriorityWins(t *testing.T) {
	e := NewEngine([]config.SteeringRule{
		{Name: "evening-local", Condition: `TimeOfDay == "evening"`, Backend: "ollama", Priority: 1},
		{Name: "premium-evening", Condition: `TimeOfDay == "evening" && Tier == "premium"`, Backend: "claude", Priority: 10},
	})

	backend, ok := e.Match(RoutingContext{TimeOfDay: "evening", Tier: "premium"})
	assert.True(t, ok)
	assert.Equal(t, "claude", backend)

	backend, ok = e.Match(RoutingContext{TimeOfDay: "evening", Tier: "free"})
	assert.True(t, ok)
	assert.Equal(t, "ollama", backend)
}

func TestMatchNoRules(t *testing.T) {
	e := NewEngine(nil)
	_, ok := e.Match(RoutingContext{Tier: "premium"})
	assert.False(t, ok)
}

func TestMatchNoRuleMatches(t *testing.T) {
	e := NewEngine([]config.SteeringRule{
		{Name: "big-input", Condition: "InputChars > 5000", Backend: "gemini-pro", Priority: 1},
	})
	_, ok := e.Match(RoutingContext{InputChars: 100})
	assert.False(t, ok)
}

func TestInvalidRuleIsSkipped(t *testing.T) {
	e := NewEngine([]config.SteeringRule{
		{Name: "broken", Condition: "Tier ==", Backend: "claude", Priority: 100},
		{Name: "empty", Condition: "", Backend: "claude", Priority: 99},
		{Name: "valid", Condition: "Priority", Backend: "gpt", Priority: 1},
	})

	backend, ok := e.Match(RoutingContext{Priority: true})
	assert.True(t, ok)
	assert.Equal(t, "gpt", backend)
}

func TestSetRulesReplacesActiveSet(t *testing.T) {
	e := NewEngine([]config.SteeringRule{
		{Name: "old", Condition: "HasInput", Backend: "gpt", Priority: 1},
	})
	e.SetRules([]config.SteeringRule{
		{Name: "new", Condition: "HasInput", Backend: "gemini-flash", Priority: 1},
	})

	backend, ok := e.Match(RoutingContext{HasInput: true})
	assert.True(t, ok)
	assert.Equal(t, "gemini-flash", backend)
}
