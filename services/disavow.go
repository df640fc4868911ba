package services

import (
	"strings"
	"time"
)

// RenderDisavowFile builds the disavow text file accepted by search engines:
// one "domain:" line per entry, comment header on top. Blank entries and
// entries already starting with a comment marker are dropped.
func RenderDisavowFile(domains []string, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("# Created by backlink-radar\n")
	b.WriteString("# Generated: " + generatedAt.UTC().Format(time.RFC3339) + "\n\n")
	for _, d := range domains {
		d = strings.TrimSpace(d)
		if d == "" || strings.HasPrefix(d, "#") {
			continue
		}
		b.WriteString("domain:" + d + "\n")
	}
	return b.String()
}
