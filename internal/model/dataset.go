package model

// Dataset is the full static fixture the dashboard boots from.
type Dataset struct {
	Market      MarketSnapshot     `yaml:"market" json:"market"`
	History     []RSIPoint         `yaml:"historical_rsi" json:"historical_rsi"`
	Positions   []Position         `yaml:"positions" json:"positions"`
	Performance PerformanceSummary `yaml:"performance" json:"performance"`
	Signals     []SignalEvent      `yaml:"signals" json:"signals"`
	Platforms   []Platform         `yaml:"platforms" json:"platforms"`
	Params      StrategyParams     `yaml:"strategy_params" json:"strategy_params"`
}
