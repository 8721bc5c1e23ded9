package model

type SignalAction string

const (
	ActionEntered SignalAction = "ENTERED"
	ActionSkipped SignalAction = "SKIPPED"
)

type SignalOutcome string

const (
	OutcomeWin  SignalOutcome = "WIN"
	OutcomeLoss SignalOutcome = "LOSS"
	OutcomeOpen SignalOutcome = "OPEN"
	OutcomeNA   SignalOutcome = "N/A"
)

// SignalEvent is one historical entry decision. Display only.
type SignalEvent struct {
	Date    Date          `yaml:"date" json:"date"`
	RSI     float64       `yaml:"rsi" json:"rsi"`
	Action  SignalAction  `yaml:"action" json:"action"`
	Outcome SignalOutcome `yaml:"outcome" json:"outcome"`
}
