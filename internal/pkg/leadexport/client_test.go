package leadexport

import (
	"strings"
	"testing"
	"time"

	"github.com/mikeskafld/dojo-web/app/models"
)

func TestGetObjectKey(t *testing.T) {
	cfg := &Config{}
	at := time.Date(2026, 8, 28, 14, 5, 9, 0, time.UTC)

	got := cfg.GetObjectKey("creator-applications", at)
	want := "leads/2026/08/creator-applications-20260828-140509.csv"
	if got != want {
		t.Fatalf("object key = %q, want %q", got, want)
	}
}

func TestBuildCreatorCSV(t *testing.T) {
	apps := []models.CreatorApplication{
		{
			Reference:    "ref-1",
			Name:         "Ada Lovelace",
			Email:        "ada@example.com",
			Niche:        "programming",
			SocialLink:   "https://example.com/@ada",
			AudienceSize: "1k-10k",
			CreatedAt:    time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			Reference: "ref-2",
			Name:      `Quote "Me", Please`,
			Email:     "quote@example.com",
			CreatedAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	data, err := buildCreatorCSV(apps)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "reference,name,email,niche,social_link,audience_size,created_at" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "ref-1,Ada Lovelace,ada@example.com,programming,https://example.com/@ada,1k-10k,2026-08-01T09:00:00Z" {
		t.Fatalf("row = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"Quote ""Me"", Please"`) {
		t.Fatalf("expected csv quoting, got %q", lines[2])
	}
}

func TestBuildWaitlistCSV(t *testing.T) {
	entry := models.LearnerWaitlistEntry{
		Reference: "ref-9",
		Email:     "learner@example.com",
		Name:      "Sam",
		CreatedAt: time.Date(2026, 8, 3, 10, 30, 0, 0, time.UTC),
	}
	if err := entry.SetInterests([]string{"music", "design"}); err != nil {
		t.Fatalf("set interests: %v", err)
	}

	data, err := buildWaitlistCSV([]models.LearnerWaitlistEntry{entry})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if lines[1] != "ref-9,learner@example.com,Sam,music|design,2026-08-03T10:30:00Z" {
		t.Fatalf("row = %q", lines[1])
	}
}

func TestNewClientRejectsDisabledConfig(t *testing.T) {
	if _, err := NewClient(&Config{Enabled: false}); err == nil {
		t.Fatalf("expected error for disabled export")
	}
}
