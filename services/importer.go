package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"backlink-radar/models"
	"backlink-radar/storage"

	"go.uber.org/zap"
)

// ErrEmptyBatch is returned when an import batch contains no rows. The batch
// is rejected wholesale before any row is processed.
var ErrEmptyBatch = errors.New("import batch is empty")

// Row is one input row keyed by the column names of the source export.
type Row map[string]string

// ImportReport is the outcome of one import batch. Rows that fail coercion
// are skipped, never partially inserted, so Inserted+Errors <= TotalRows.
type ImportReport struct {
	Inserted  int `json:"inserted"`
	Errors    int `json:"errors"`
	TotalRows int `json:"total_rows"`
}

// ImportService normalizes heterogeneous backlink exports into Backlink
// records: column mapping, type coercion, risk classification, persistence.
type ImportService struct {
	Store  storage.BacklinkStore
	Logger *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(store storage.BacklinkStore, logger *zap.Logger) *ImportService {
	return &ImportService{Store: store, Logger: logger}
}

// dateLayouts are tried in order when coercing a date_found value.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ImportBatch maps, coerces, classifies and persists every row of a batch.
// A row that fails extraction or coercion is counted as an error and skipped;
// it never touches the store. The importer does not deduplicate.
func (s *ImportService) ImportBatch(rows []Row) (*ImportReport, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	mapping := MapColumns(availableColumns(rows))
	report := &ImportReport{TotalRows: len(rows)}

	for idx, row := range rows {
		link, err := s.buildRecord(mapping, row)
		if err == nil {
			err = s.Store.Append(link)
		}
		if err != nil {
			report.Errors++
			s.Logger.Warn("Skipping import row",
				zap.Int("row", idx+1),
				zap.Error(err))
			continue
		}
		report.Inserted++
	}

	s.Logger.Info("Import batch processed",
		zap.Int("inserted", report.Inserted),
		zap.Int("errors", report.Errors),
		zap.Int("total_rows", report.TotalRows))
	return report, nil
}

// buildRecord converts one raw row into a normalized Backlink.
func (s *ImportService) buildRecord(mapping map[string]string, row Row) (*models.Backlink, error) {
	source := pick(mapping, row, FieldBacklinkSource)
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("no backlink source column resolved for row")
	}

	var da *int
	if raw := pick(mapping, row, FieldDomainAuthority); raw != "" {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("domain authority %q is not an integer: %w", raw, err)
		}
		da = &v
	}

	var nofollow *bool
	if col, ok := mapping[FieldNofollow]; ok {
		if raw, present := row[col]; present {
			v := parseBool(raw)
			nofollow = &v
		}
	}

	dateFound := time.Now().UTC()
	if raw := pick(mapping, row, FieldDateFound); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return nil, err
		}
		dateFound = parsed
	}

	linkType := pick(mapping, row, FieldLinkType)

	return &models.Backlink{
		BacklinkSource:  source,
		AnchorText:      pick(mapping, row, FieldAnchorText),
		TargetURL:       pick(mapping, row, FieldTargetURL),
		DomainAuthority: da,
		Nofollow:        nofollow,
		DateFound:       &dateFound,
		LinkType:        linkType,
		SourceDomain:    pick(mapping, row, FieldSourceDomain),
		RiskLevel:       ClassifyRisk(da, nofollow, linkType),
	}, nil
}

// availableColumns collects the union of column names across all rows.
func availableColumns(rows []Row) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows {
		for col := range row {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				cols = append(cols, col)
			}
		}
	}
	return cols
}

// pick returns the row value for a canonical field, or "" when the field did
// not resolve to a column or the row lacks it.
func pick(mapping map[string]string, row Row, field string) string {
	col, ok := mapping[field]
	if !ok {
		return ""
	}
	return row[col]
}

// parseBool accepts the truthy spellings found in backlink exports; anything
// else is false.
func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date_found value %q", raw)
}
