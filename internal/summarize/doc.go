// Package summarize condenses extracted text with a language model.
// Long texts are split into chunks, each chunk is summarized on its
// own (the map phase), and the partial summaries are condensed once
// more into the final text (the reduce phase).
//
// Summarizers pair prompt templates with a registered method name.
// The method name is recorded on summary artifacts, so a summarizer's
// templates are frozen once released; prompt changes get a new name.
package summarize
