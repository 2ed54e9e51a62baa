package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInsight(t *testing.T) {
	t.Run("valid risk", func(t *testing.T) {
		in, err := ParseInsight(map[string]interface{}{
			"kind":        "risk",
			"severity":    "high",
			"description": "Vendor dependency on payment integration",
			"mitigation":  "Negotiate a fallback provider",
		})
		assert.NoError(t, err)
		assert.Equal(t, InsightKindRisk, in.Kind)
		assert.Equal(t, "high", in.Severity)
		if assert.NotNil(t, in.Mitigation) {
			assert.Equal(t, "Negotiate a fallback provider", *in.Mitigation)
		}
	})

	t.Run("mitigation optional", func(t *testing.T) {
		in, err := ParseInsight(map[string]interface{}{
			"kind":        "blocker",
			"severity":    "critical",
			"description": "Staging environment down",
		})
		assert.NoError(t, err)
		assert.Nil(t, in.Mitigation)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := ParseInsight(map[string]interface{}{
			"kind":        "opportunity",
			"severity":    "low",
			"description": "x",
		})
		assert.ErrorContains(t, err, "invalid insight kind")
	})

	t.Run("unknown severity rejected", func(t *testing.T) {
		_, err := ParseInsight(map[string]interface{}{
			"kind":        "risk",
			"severity":    "catastrophic",
			"description": "x",
		})
		assert.ErrorContains(t, err, "invalid insight severity")
	})

	t.Run("missing description rejected", func(t *testing.T) {
		_, err := ParseInsight(map[string]interface{}{
			"kind":     "risk",
			"severity": "low",
		})
		assert.ErrorContains(t, err, "description is required")
	})
}

func TestParseInsightsFailsWholeBatch(t *testing.T) {
	_, err := ParseInsights([]map[string]interface{}{
		{"kind": "risk", "severity": "low", "description": "fine"},
		{"kind": "nope", "severity": "low", "description": "broken"},
	})
	assert.ErrorContains(t, err, "insight 1")
}
