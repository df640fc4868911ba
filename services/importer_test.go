package services

import (
	"errors"
	"testing"
	"time"

	"backlink-radar/models"

	"go.uber.org/zap"
)

type fakeBacklinkStore struct {
	links      []models.Backlink
	failAppend bool
}

func (f *fakeBacklinkStore) Append(link *models.Backlink) error {
	if f.failAppend {
		return errors.New("store unavailable")
	}
	f.links = append(f.links, *link)
	return nil
}

func (f *fakeBacklinkStore) All() ([]models.Backlink, error) {
	return f.links, nil
}

func newTestImporter() (*ImportService, *fakeBacklinkStore) {
	store := &fakeBacklinkStore{}
	return NewImportService(store, zap.NewNop()), store
}

func TestImportBatch_EmptyRejected(t *testing.T) {
	svc, _ := newTestImporter()

	if _, err := svc.ImportBatch(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
	if _, err := svc.ImportBatch([]Row{}); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch for empty slice, got %v", err)
	}
}

func TestImportBatch_NormalizesRows(t *testing.T) {
	svc, store := newTestImporter()

	rows := []Row{
		{
			"url_from":      "https://blog.example.com/post",
			"anchor":        "great tools",
			"url_to":        "https://mysite.com/tools",
			"da":            "45",
			"nofollow":      "Yes",
			"first_seen":    "2024-03-01",
			"type":          "editorial",
			"domain_from":   "blog.example.com",
			"unused_column": "ignored",
		},
	}

	report, err := svc.ImportBatch(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Inserted != 1 || report.Errors != 0 || report.TotalRows != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	link := store.links[0]
	if link.BacklinkSource != "https://blog.example.com/post" {
		t.Errorf("unexpected source: %q", link.BacklinkSource)
	}
	if link.AnchorText != "great tools" || link.TargetURL != "https://mysite.com/tools" {
		t.Errorf("anchor/target not mapped: %+v", link)
	}
	if link.DomainAuthority == nil || *link.DomainAuthority != 45 {
		t.Errorf("DA not coerced: %v", link.DomainAuthority)
	}
	if link.Nofollow == nil || !*link.Nofollow {
		t.Errorf("nofollow 'Yes' should coerce to true: %v", link.Nofollow)
	}
	if link.DateFound == nil || !link.DateFound.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date_found not parsed: %v", link.DateFound)
	}
	if link.SourceDomain != "blog.example.com" {
		t.Errorf("source domain not mapped: %q", link.SourceDomain)
	}
	// DA 45, dofollow, editorial: rule 1-5 all miss
	if link.RiskLevel != models.RiskLow {
		t.Errorf("expected derived risk low, got %q", link.RiskLevel)
	}
}

func TestImportBatch_RiskAlwaysDerived(t *testing.T) {
	svc, store := newTestImporter()

	// An input column claiming a risk level must be ignored; the tier is
	// recomputed from DA/nofollow/link type.
	rows := []Row{
		{"backlink_source": "https://spam.example/p", "da": "5", "risk_level": "low"},
	}
	if _, err := svc.ImportBatch(rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.links[0].RiskLevel != models.RiskHigh {
		t.Errorf("expected recomputed high tier, got %q", store.links[0].RiskLevel)
	}
}

func TestImportBatch_BadRowSkippedGoodRowKept(t *testing.T) {
	svc, store := newTestImporter()

	rows := []Row{
		{"backlink_source": "https://good.example/a", "da": "50"},
		{"some_other_column": "no mappable fields here"},
	}

	report, err := svc.ImportBatch(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Inserted != 1 || report.Errors != 1 || report.TotalRows != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(store.links) != 1 {
		t.Fatalf("expected exactly the good row persisted, got %d records", len(store.links))
	}
}

func TestImportBatch_CoercionFailuresAreRowErrors(t *testing.T) {
	svc, store := newTestImporter()

	rows := []Row{
		{"backlink_source": "https://a.example", "da": "not-a-number"},
		{"backlink_source": "https://b.example", "da": "30", "first_seen": "garbage-date"},
		{"backlink_source": "https://c.example", "da": "30"},
	}

	report, err := svc.ImportBatch(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Inserted != 1 || report.Errors != 2 || report.TotalRows != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(store.links) != 1 || store.links[0].BacklinkSource != "https://c.example" {
		t.Fatalf("only the clean row should persist, got %+v", store.links)
	}
}

func TestImportBatch_DateDefaultsToNow(t *testing.T) {
	svc, store := newTestImporter()

	before := time.Now().UTC()
	if _, err := svc.ImportBatch([]Row{{"backlink_source": "https://a.example"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := time.Now().UTC()

	got := store.links[0].DateFound
	if got == nil || got.Before(before) || got.After(after) {
		t.Errorf("date_found should default to ingestion time, got %v", got)
	}
}

func TestImportBatch_StoreFailureCountsAsError(t *testing.T) {
	svc, store := newTestImporter()
	store.failAppend = true

	report, err := svc.ImportBatch([]Row{{"backlink_source": "https://a.example"}})
	if err != nil {
		t.Fatalf("batch should not fail on per-row store errors: %v", err)
	}
	if report.Inserted != 0 || report.Errors != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"1", "true", "TRUE", "yes", "Yes", "y", "Y", " true "}
	for _, raw := range truthy {
		if !parseBool(raw) {
			t.Errorf("parseBool(%q) = false, want true", raw)
		}
	}
	falsy := []string{"", "0", "false", "no", "n", "off", "nofollow"}
	for _, raw := range falsy {
		if parseBool(raw) {
			t.Errorf("parseBool(%q) = true, want false", raw)
		}
	}
}

func TestImportBatch_NofollowAbsentStaysNil(t *testing.T) {
	svc, store := newTestImporter()

	if _, err := svc.ImportBatch([]Row{{"backlink_source": "https://a.example", "da": "40"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.links[0].Nofollow != nil {
		t.Errorf("nofollow should stay nil when the column is absent, got %v", *store.links[0].Nofollow)
	}
}
