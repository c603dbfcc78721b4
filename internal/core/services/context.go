package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// UnknownSource is printed in a document header when it has no source path.
const UnknownSource = "unknown"

// contextSeparator marks the boundary between documents.
var contextSeparator = strings.Repeat("=", 50)

// AssembleContext formats ranked documents into a single context block.
// Rank order is preserved and the output is byte-identical for identical input.
func AssembleContext(docs []domain.RetrievedDocument) string {
	if len(docs) == 0 {
		return ""
	}

	parts := make([]string, len(docs))
	for i := range docs {
		parts[i] = formatDocument(i+1, docs[i])
	}

	var b strings.Builder
	b.WriteString(contextSeparator)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(parts, "\n\n"+contextSeparator+"\n\n"))
	b.WriteString("\n\n")
	b.WriteString(contextSeparator)
	return b.String()
}

// formatDocument renders one document: header, metadata block, content.
func formatDocument(rank int, doc domain.RetrievedDocument) string {
	source := doc.Metadata.Source
	if source == "" {
		source = UnknownSource
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[Document %d: %s]\n", rank, source)

	if fields := doc.Metadata.ContextFields(); len(fields) > 0 {
		b.WriteString("Metadata:\n")
		for _, f := range fields {
			fmt.Fprintf(&b, "%s: %s\n", f.Key, f.Value)
		}
	}

	b.WriteString("\nContent:\n")
	b.WriteString(doc.Content)
	return b.String()
}
