package rag

import "strings"

// FallbackAnswer is returned when retrieval finds nothing to ground an
// answer on. No model call is made in that case.
const FallbackAnswer = "I could not find any relevant information in the uploaded documents to answer your question. Please upload documents related to your question and try again."

// BuildSystemPrompt embeds the assembled context into the grounding
// instructions sent as the system message.
func BuildSystemPrompt(context string) string {
	var sb strings.Builder

	sb.WriteString("You are a helpful assistant that answers questions based on the provided document context.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. Answer ONLY using the information in the context below.\n")
	sb.WriteString("2. If the context does not contain enough information to answer, say so explicitly.\n")
	sb.WriteString("3. When you use information from the context, cite it as \"Source N\" matching the source labels.\n")
	sb.WriteString("4. Never invent document names, sources, or content that is not in the context.\n\n")
	sb.WriteString("Context:\n")
	sb.WriteString(context)

	return sb.String()
}
