// Package analysis holds the dashboard's arithmetic: entry signal, market
// hours, position estimates, risk and performance aggregates.
package analysis

// Signal is the entry indicator shown next to the RSI readout.
type Signal string

const (
	SignalBuy  Signal = "BUY SIGNAL"
	SignalNone Signal = "NO SIGNAL"
)

// EvaluateSignal returns SignalBuy iff rsi < threshold. Equality is no signal.
func EvaluateSignal(rsi, threshold float64) Signal {
	if rsi < threshold {
		return SignalBuy
	}
	return SignalNone
}

// ThresholdDistance is rsi - threshold; negative means below the line.
func ThresholdDistance(rsi, threshold float64) float64 {
	return rsi - threshold
}
