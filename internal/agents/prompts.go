package agents

const ingestionSystemPrompt = `You are a Market Data Provider API. Return a JSON object representing market conditions. ` +
	`The JSON must strictly adhere to this structure: {"vix": <float>, "sentiment": <"positive"|"negative"|"neutral">, ` +
	`"sp500_performance": <float_fraction>}. Do not add explanations or markdown.`

const ingestionUserPrompt = `Simulate a volatile market where tech stocks are down and sentiment is negative. ` +
	`The VIX should be elevated. Provide the data as a raw JSON object.`

const riskSystemPrompt = `You are a Quantitative Risk Analyst. Given market and portfolio data, return a JSON object ` +
	`with the structure: {"beta": <float>, "var_95": <float>, "exposed_assets": [<list_of_tickers>]}. ` +
	`"exposed_assets" are stocks most vulnerable in the given market. Provide only the raw JSON.`

const riskUserPrompt = `Analyze this portfolio: %s. Current market conditions: %s. ` +
	`Identify high-beta stocks, calculate portfolio beta, and estimate 95%% VaR. ` +
	`Return the analysis as a raw JSON object.`

const strategySystemPrompt = `You are a Hedge Fund Strategist. Your goal is to protect the portfolio from downside risk. ` +
	`Based on the provided data, decide on a single, clear action. Your output must be a raw JSON object ` +
	`with this structure: {"action": <"BUY"|"SELL"|"HOLD">, "ticker": <"SPY"|stock_symbol|"NONE">, ` +
	`"quantity": <int>, "reasoning": <str>}. "ticker" should be "SPY" for broad market hedges.`

const strategyUserPrompt = `Market conditions: %s. Portfolio risk profile: %s. ` +
	`The portfolio beta is high. A common hedge is to short the broader market (simulated by selling SPY). ` +
	`Formulate a plan to reduce market exposure. Provide the output as a raw JSON object.`
