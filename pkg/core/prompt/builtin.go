package prompt

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	NarrativeCommentary string
	ChatAssistant       string
}{
	NarrativeCommentary: "narrative.commentary",
	ChatAssistant:       "chat.assistant",
}

var builtins = map[string]*PromptTemplate{
	PromptIDs.NarrativeCommentary: {
		ID:          PromptIDs.NarrativeCommentary,
		Name:        "Financial statement commentary",
		Category:    "narrative",
		Description: "Objective commentary on growth, asset structure and current liquidity",
		SystemPrompt: "You are a professional financial analyst. Write in plain prose, " +
			"state figures as given and do not invent data that is not in the input.",
		UserPromptTmpl: `Based on the financial indicators below, give an objective, concise commentary (about 3-4 paragraphs) on the company's financial position. Focus the assessment on the growth rate, the change in asset structure and the current liquidity (current ratio).

Raw data and indicators:
{{.Data}}
`,
		Variables: []PromptVariable{
			{Name: "Data", Description: "markdown snapshot of the enriched table and the headline indicators", Required: true},
		},
		Version: "1",
	},
	PromptIDs.ChatAssistant: {
		ID:           PromptIDs.ChatAssistant,
		Name:         "Chat assistant",
		Category:     "chat",
		Description:  "Free-form questions and answers",
		SystemPrompt: "You are a helpful assistant. Answer questions about finance and accounting clearly and concisely.",
		Version:      "1",
	},
}
