// Package prompt holds the instruction texts sent to the language model by each tool.
package prompt

import (
	"fmt"
	"strings"

	"docinsight/internal/domain"
)

// InsightSystem is the system prompt for file insight extraction.
const InsightSystem = "You are an expert data analyst and insights extractor. Provide detailed, actionable insights based on the provided content."

var analysisInstructions = map[domain.AnalysisType]string{
	domain.AnalysisGeneral: `Analyze the provided file content and extract key insights. Focus on:
1. Main themes and patterns
2. Important data points or findings
3. Potential areas of interest or concern
4. Summary of key takeaways
5. Actionable recommendations if applicable`,
	domain.AnalysisData: `Perform a comprehensive data analysis on the provided content. Include:
1. Data structure and quality assessment
2. Statistical summaries and trends
3. Anomalies or outliers
4. Correlations and relationships
5. Business insights and recommendations`,
	domain.AnalysisSummary: `Create a comprehensive summary of the document including:
1. Executive summary
2. Key points and main arguments
3. Important facts and figures
4. Conclusions and recommendations
5. Action items if any`,
}

// AnalysisInstructions returns the analysis request for t. A custom analysis
// uses the caller's text; without one it degrades to the general instructions.
func AnalysisInstructions(t domain.AnalysisType, custom string) string {
	if t == domain.AnalysisCustom {
		if c := strings.TrimSpace(custom); c != "" {
			return c
		}
	}
	if s, ok := analysisInstructions[t]; ok {
		return s
	}
	return analysisInstructions[domain.AnalysisGeneral]
}

// Insight builds the per-file user prompt.
func Insight(fileName, instructions, content string) string {
	return fmt.Sprintf(`File: %s

Analysis Request: %s

File Content:
%s

Please provide a detailed analysis with clear insights and recommendations.`, fileName, instructions, content)
}

// QualitySystem is the system prompt for the document quality scorer.
const QualitySystem = `You are a meticulous document reviewer. You score documents against explicit criteria and always answer with a single JSON object and nothing else.`

// Quality builds the scoring prompt for a document and its criteria.
func Quality(fileName string, criteria []string, content string) string {
	var sb strings.Builder
	sb.WriteString("Evaluate the document below against each of these criteria on a scale from 0 to 10:\n")
	for i, c := range criteria {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c)
	}
	sb.WriteString(`
Respond with JSON in exactly this shape:
{"overall_score": <0-10>, "summary": "<two or three sentences>", "criteria": [{"name": "<criterion>", "score": <0-10>, "feedback": "<specific feedback>"}], "suggestions": ["<concrete improvement>"]}

`)
	fmt.Fprintf(&sb, "Document: %s\n\n%s", fileName, content)
	return sb.String()
}

// CategorizeSystem instructs the model to sort business messages into one of
// the two known categories and answer as "category|confidence".
const CategorizeSystem = `Du bist ein Experte für die Kategorisierung von Geschäftsnachrichten.
Deine Aufgabe ist es, Nachrichten in eine der folgenden Kategorien einzuteilen:

1. "Reporting anfragen" - Nachrichten die sich auf Berichte, Reportings, Analysen,
   Dashboards, KPIs, Metriken oder ähnliche Berichterstattung beziehen.

2. "Steuer anfragen" - Nachrichten die sich auf Steuern, Steuerberatung,
   Steuererklärungen, Steuerrecht oder steuerliche Angelegenheiten beziehen.

Antworte nur mit der Kategorie und einem Konfidenzwert zwischen 0 und 1,
getrennt durch ein Pipe-Symbol (|). Beispiel: "Reporting anfragen|0.85"`

// Categorize builds the user prompt for one message.
func Categorize(content string) string {
	return "Kategorisiere diese Nachricht:\n\n" + content
}

// AvatarAnalysis asks the vision model for a description of the person in a photo.
const AvatarAnalysis = "Analyze this photo and describe the person's key physical features, hair color/style, clothing, and any distinctive characteristics. Be specific but concise. Focus on features that would be recognizable in a cartoon avatar."

// Avatar builds the image-generation prompt from a photo description.
func Avatar(description string) string {
	return fmt.Sprintf(`Create a 3D cartoon-style character based on this description: %s

Transform this person into a polished, smooth, glossy cartoon style with large expressive eyes and a friendly expression. Preserve their recognizable facial features, hair color, hairstyle, and overall look from the description. Recreate their outfit, adapting it into the same stylized cartoon aesthetic, including any key accessories or details mentioned. Pose them in a confident, neutral standing position from head to feet with a transparent background. Please show the full body. Make it cute, modern, and suitable for use as a fun avatar.`, description)
}

// StockSystem is the system prompt for the stock tracker chat.
func StockSystem(symbol string) string {
	return fmt.Sprintf(`You are a knowledgeable equity research assistant discussing the stock %s.
Answer from general market knowledge, explain your reasoning, and say clearly when information may be outdated.
You have no access to live prices. Do not give personalised investment advice.`, strings.ToUpper(symbol))
}
