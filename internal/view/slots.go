package view

// Element ids the browser addresses. Handlers and scripts refer to these,
// so they are part of the page contract.
const (
	SlotRSIValue        = "rsi-value"
	SlotSignalIndicator = "signal-indicator"
	SlotMarketStatus    = "market-status"
	SlotDateTime        = "current-datetime"
	SlotRSIChart        = "rsi-chart"
	SlotPositionsBody   = "positions-tbody"
	SlotWinRate         = "win-rate"
	SlotTotalPnL        = "total-pnl"
	SlotAvgDays         = "avg-days"
	SlotMonthPnL        = "month-pnl"
	SlotSignalsList     = "signals-list"
	SlotPlatformsGrid   = "platforms-grid"

	SlotStrategyForm = "strategy-form"
	SlotRSIThreshold = "rsi-threshold"
	SlotDaysExpiry   = "days-expiry"
	SlotProfitTarget = "profit-target"
	SlotPositionSize = "position-size"
	SlotMaxPositions = "max-positions"

	SlotAccountBalance = "account-balance"
	SlotRiskPercent    = "risk-percent"
	SlotMaxRisk        = "max-risk"
	SlotPortfolioRisk  = "portfolio-risk"

	SlotAddPositionBtn  = "add-position-btn"
	SlotModal           = "add-position-modal"
	SlotCloseModal      = "close-modal"
	SlotCancelModal     = "cancel-modal"
	SlotAddPositionForm = "add-position-form"
	SlotEntryDate       = "entry-date"
	SlotShortStrike     = "short-strike"
	SlotLongStrike      = "long-strike"
	SlotExpiryDate      = "expiry-date"
	SlotQuantity        = "quantity"
	SlotEntryCredit     = "entry-credit"
)
