package request

import (
	"fmt"

	"alphabot/internal/domain"
)

func singleInstrument(r *PlatformRequest) {
	if r.ticker.IsAggregated() && r.platform != domain.PlatformTradingView {
		r.setError(fmt.Sprintf("Aggregated tickers are only available on TradingView, %s cannot serve `%s`.", r.platform, r.ticker.Name), true)
	}
}

func exchangeRequired(r *PlatformRequest) {
	if r.exchange == nil {
		r.setError(r.notAvailable(), true)
	}
}

func pointAndFigureWithoutLog(r *PlatformRequest) {
	if r.hasParameter(r.chartStyles, "pnf") && r.hasParameter(r.imageStyles, "log") {
		r.setError(fmt.Sprintf("Point & Figure charts cannot be drawn in log scale on %s.", r.platform), true)
	}
}

// singleTimeframe keeps the first timeframe on platforms that draw one.
func singleTimeframe(r *PlatformRequest) {
	if len(r.timeframes) > 1 {
		r.setError(fmt.Sprintf("Only one timeframe is supported on %s.", r.platform), false)
		r.timeframes = r.timeframes[:1]
	}
}

func noForex(r *PlatformRequest) {
	if r.exchange != nil && r.exchange.ID == "forex" {
		r.setError(fmt.Sprintf("Forex markets are not available on %s.", r.platform), true)
	}
}

func singleLevel(r *PlatformRequest) {
	switch {
	case len(r.numerical) == 0:
		r.setError("An alert level must be provided.", true)
	case len(r.numerical) > 1:
		r.setError("Only one alert level can be set at a time.", true)
	case !r.numerical[0].IsPositive():
		r.setError("Alert level must be greater than zero.", true)
	}
}
