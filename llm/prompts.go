package llm

import (
	"fmt"
	"strings"
)

// buildLibraryContext renders the custom library documents injected into grounded prompts
func buildLibraryContext(documents []string) string {
	if len(documents) == 0 {
		return "The user's custom library is currently empty. Rely on general knowledge of Indian law and say so where relevant.\n"
	}

	var b strings.Builder
	b.WriteString("Reference documents from the user's custom library (prefer these over general knowledge):\n")
	for i, doc := range documents {
		fmt.Fprintf(&b, "\n--- Document %d ---\n%s\n", i+1, strings.TrimSpace(doc))
	}
	b.WriteString("--- End of documents ---\n")
	return b.String()
}

// The query and instructions come before the library documents so that
// prompt truncation only ever cuts document text.

func buildIdentifyLawsPrompt(query string, useCustomLibrary bool, documents []string) string {
	grounding := ""
	if useCustomLibrary {
		grounding = "\n" + buildLibraryContext(documents)
	}

	return fmt.Sprintf(`You are an AI legal assistant specializing in Indian law.
Based on the following legal query, identify and list the key Indian laws, legal acts, sections, or articles that are most relevant.
Be concise and focus on the primary legal instruments applicable. List the most relevant first.

Query: %s

Respond with a JSON object of the form {"laws": ["..."]}.
%s`, query, grounding)
}

func buildPrecedentPrompt(question string, useCustomLibrary bool, documents []string) string {
	source := "You will search the general knowledge base of Indian case law."
	grounding := ""
	if useCustomLibrary {
		source = "You will prioritize the user's custom uploaded case library, included below."
		grounding = "\n" + buildLibraryContext(documents)
	}

	return fmt.Sprintf(`You are an expert in Indian law with extensive knowledge of past Indian court cases.
%s

Based on the legal question or case details provided, retrieve relevant past Indian court cases that may serve as precedents or provide insights.
For each precedent, provide the case name, citation, and a brief summary of the case and its relevance.
If there is a notable difference between a precedent and the user's query, explain it in "differences". Omit "differences" otherwise.
Do not invent cases or citations. If no relevant precedent is known, return an empty list.

Legal Question or Case Details: %s

Respond with a JSON object of the form {"precedents": [{"caseName": "...", "citation": "...", "summary": "...", "differences": "..."}]}.
%s`, source, question, grounding)
}

func buildChecklistPrompt(query, jurisdiction string, useCustomLibrary bool, documents []string) string {
	grounding := ""
	if useCustomLibrary {
		grounding = "\n" + buildLibraryContext(documents)
	}

	return fmt.Sprintf(`You are an AI legal assistant.
Generate a high-level procedural checklist for the following legal matter within the specified jurisdiction: %s.
The checklist should outline key steps or considerations in the order they should be taken.

Legal Matter: %s

Respond with a JSON object of the form {"checklist": ["..."]}.
%s`, jurisdiction, query, grounding)
}

func buildStructuredPrompt(rawText string) string {
	return fmt.Sprintf(`You are an expert text processing AI. Parse the following raw text, which is the output of another AI assistant.
The text contains information about applicable laws, similar legal precedents, and a procedural checklist.
Extract this information and structure it strictly as JSON.

Ensure the following:
- "laws" is an array of strings, each a distinct law, section, or article.
- "precedents" is an array of objects. Each must have "caseName", "citation" and "summary" strings, and may have a "differences" string.
- "checklist" is an array of strings, each a distinct procedural step.

If any section is missing or cannot be reliably extracted from the text, return an empty array for that section. Do not invent information.

Raw text to parse:
%s`, rawText)
}

func buildSummaryPrompt(documentText string) string {
	return fmt.Sprintf(`You are an expert legal professional, skilled at summarizing complex legal documents.

Provide a concise summary of the following legal document, highlighting the key arguments, findings, and conclusions.

Document Text:
%s

Respond with a JSON object of the form {"summary": "..."}.`, documentText)
}

func buildAdvicePrompt(question string) string {
	return fmt.Sprintf(`You are an AI legal assistant providing preliminary legal guidance to clients based on Indian law.

Answer the following legal question to the best of your ability, citing relevant Indian laws where applicable.
List the relevant laws used to formulate the answer.
Be very clear that this advice is not a substitute for actual, professional, legal advice.

Question: %s

Respond with a JSON object of the form {"advice": "...", "relevantLaws": ["..."], "disclaimer": "..."}.`, question)
}
