package consts

const (
	// 流水线节点
	IngestionStage = "ingestion"
	RiskStage      = "risk"
	StrategyStage  = "strategy"
	ExecutionStage = "execution"
	SkipExecution  = "skip_execution"
	Reporter       = "report"
)

const (
	// Agent display names
	Agent_Ingestion = "Market Data Agent"
	Agent_Risk      = "Risk Agent"
	Agent_Strategy  = "Strategy Agent"
	Agent_Execution = "Execution Agent"
)
