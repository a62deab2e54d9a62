package domain

type OrderStep string

const (
	StepIdle                     OrderStep = "idle"
	StepAwaitingDateConfirmation OrderStep = "awaiting_date_confirmation"
	StepAwaitingDate             OrderStep = "awaiting_date"
	StepAwaitingTime             OrderStep = "awaiting_time"
	StepAwaitingName             OrderStep = "awaiting_name"
)
