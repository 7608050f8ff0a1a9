// Package prompt holds the fixed prompt text sent to the completion API.
// Downstream consumers parse the reply by its section headers, so the
// template is kept byte-for-byte stable.
package prompt

import "fmt"

// SystemPersona is the system message of every analysis conversation.
const SystemPersona = "You are a professional market analyst providing concise, actionable market analysis."

const sentimentTemplate = "Analyze the current market sentiment for %s based on recent news and market data.\n" +
	"        \n" +
	"        Provide your analysis in exactly this format:\n" +
	"\n" +
	"        📈 Market Sentiment:\n" +
	"        • Direction: [Bullish/Bearish/Neutral]  # MUST start with exactly \"Direction: \"\n" +
	"        • Strength: [Strong/Moderate/Weak]\n" +
	"        • Key drivers: [Brief explanation]\n" +
	"\n" +
	"        💡 Trading Implications:\n" +
	"        • Short-term outlook\n" +
	"        • Risk assessment\n" +
	"        • Key levels to watch\n" +
	"\n" +
	"        ⚠️ Risk Factors:\n" +
	"        • List 2-3 key risks that could affect the price\n" +
	"        • Focus on immediate threats\n" +
	"\n" +
	"        🎯 Conclusion:\n" +
	"        A brief 2-3 line summary of the overall sentiment and key action points.\n" +
	"\n" +
	"        Keep the response concise and focused. Do not use markdown formatting (no ### or **).\n" +
	"        Do not add any additional sections or conclusions.\n" +
	"        "

// Build returns the user prompt for an already normalized symbol.
func Build(symbol string) string {
	return fmt.Sprintf(sentimentTemplate, symbol)
}
