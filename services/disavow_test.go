package services

import (
	"strings"
	"testing"
	"time"
)

func TestRenderDisavowFile(t *testing.T) {
	generatedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	content := RenderDisavowFile([]string{"spammysite.com", " badlinks.net ", "", "# a comment"}, generatedAt)

	if !strings.HasPrefix(content, "# Created by backlink-radar\n") {
		t.Errorf("missing header, got %q", content)
	}
	if !strings.Contains(content, "# Generated: 2024-06-01T12:00:00Z\n") {
		t.Errorf("missing or wrong timestamp line in %q", content)
	}
	if !strings.Contains(content, "domain:spammysite.com\n") {
		t.Error("missing spammysite.com entry")
	}
	if !strings.Contains(content, "domain:badlinks.net\n") {
		t.Error("entries should be trimmed before rendering")
	}
	if strings.Contains(content, "domain:#") || strings.Contains(content, "domain:\n") {
		t.Errorf("blank and comment entries must be dropped, got %q", content)
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	domainLines := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "domain:") {
			domainLines++
		}
	}
	if domainLines != 2 {
		t.Errorf("expected 2 domain lines, got %d", domainLines)
	}
}
