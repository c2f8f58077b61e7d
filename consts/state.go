package consts

// Trade execution statuses.
const (
	TradeSuccess         = "SUCCESS"
	TradeFailed          = "FAILED"
	TradeError           = "ERROR"
	TradeNoTradeNeeded   = "NO_TRADE_NEEDED"
	TradePendingApproval = "PENDING_APPROVAL"
	TradeRejected        = "REJECTED"
)

// Error codes carried by a trade result.
const (
	CodeMissingField       = "MISSING_FIELD"
	CodeInvalidAction      = "INVALID_ACTION"
	CodeInvalidQuantity    = "INVALID_QUANTITY"
	CodeUnknownSymbol      = "UNKNOWN_SYMBOL"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeInsufficientShares = "INSUFFICIENT_SHARES"
)

// Hedging actions.
const (
	ActionBuy            = "BUY"
	ActionSell           = "SELL"
	ActionHold           = "HOLD"
	ActionNone           = "NONE"
	ActionNoActionNeeded = "NO ACTION NEEDED"
)

// Cycle envelope statuses.
const (
	CycleSuccess = "success"
	CycleError   = "error"
)
