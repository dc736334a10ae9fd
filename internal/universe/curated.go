package universe

// curated is the built-in scan universe: liquid, retail-popular US names
// grouped by sector. The refresh client merges broker symbols on top.
var curated = []string{
	// Mega-cap tech
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "META", "NVDA", "TSLA",
	// Semiconductor
	"AMD", "INTC", "MU", "QCOM", "AVGO", "TSM", "MRVL", "ON",
	// EVs & clean energy
	"RIVN", "LCID", "NIO", "XPEV", "LI", "FSR", "PLUG", "FCEL", "BE",
	// Fintech & payments
	"SOFI", "HOOD", "COIN", "PYPL", "SQ", "AFRM", "UPST",
	// Retail & consumer
	"GME", "AMC", "BBBY", "COST", "WMT", "TGT", "HD", "LOW",
	// Biotech & pharma
	"MRNA", "BNTX", "PFE", "JNJ", "ABBV", "BMY", "LLY", "NVO",
	// Software & cloud
	"CRM", "SNOW", "PLTR", "NET", "DDOG", "ZS", "CRWD", "PANW",
	// Streaming & social
	"NFLX", "DIS", "ROKU", "SPOT", "SNAP", "PINS", "RBLX",
	// Travel & leisure
	"ABNB", "UBER", "LYFT", "DAL", "UAL", "AAL", "LUV", "CCL", "RCL", "NCLH",
	// Energy
	"XOM", "CVX", "OXY", "SLB", "DVN", "FANG", "MRO",
	// Financials
	"JPM", "BAC", "GS", "MS", "C", "WFC", "SCHW", "V", "MA", "AXP",
	// Industrials
	"BA", "CAT", "DE", "UPS", "FDX",
	// Telecom & media
	"T", "VZ", "TMUS", "CMCSA",
	// Real estate
	"O", "SPG", "AMT", "PLD",
	// Mining & materials
	"GOLD", "NEM", "FCX", "CLF", "X",
	// Cannabis
	"TLRY", "CGC", "ACB",
	// High-volatility names
	"BBIG", "MULN", "SNDL", "WISH", "CLOV", "SPCE",
	// China ADRs
	"BABA", "JD", "PDD", "BIDU",
	// Index and sector ETFs
	"SPY", "QQQ", "IWM", "DIA", "XLF", "XLE", "XLK",
}

// Curated returns a copy of the built-in universe.
func Curated() []string {
	return append([]string(nil), curated...)
}
