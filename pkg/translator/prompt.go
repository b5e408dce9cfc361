package translator

const DefaultMaxTokens = 4000

const SystemPrompt = `You are a skilled translator from Ancient Greek to English.
Focus on accuracy while maintaining readability.
Preserve the meaning, tone, and style of the original text.
When encountering specialized terminology or cultural references, translate them accurately.
Do not add explanatory notes or commentary to the translation.`

const userPromptPrefix = "Please translate the following Ancient Greek text into English. Provide the translation only, without any additional information or commentary. Text to translate:\n\n"

// BuildPrompt wraps a chunk of source text in the user instruction.
func BuildPrompt(chunk string) string {
	return userPromptPrefix + chunk
}
