package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// homepageCPM is the CPM placement used throughout the pricing examples:
// $10 CPM, 100k monthly impressions, 50% share of voice.
func homepageCPM() Placement {
	return Placement{
		ItemPath:           "web/homepage",
		Channel:            ChannelWeb,
		PricingModel:       PricingCPM,
		Rate:               dec("10"),
		Frequency:          50,
		MonthlyImpressions: 100000,
	}
}
