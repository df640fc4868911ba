package services

// Canonical field names produced by the schema mapper.
const (
	FieldBacklinkSource  = "backlink_source"
	FieldAnchorText      = "anchor_text"
	FieldTargetURL       = "target_url"
	FieldDomainAuthority = "domain_authority"
	FieldNofollow        = "nofollow"
	FieldDateFound       = "date_found"
	FieldLinkType        = "link_type"
	FieldSourceDomain    = "source_domain"
)

// columnAliases maps each canonical field to the column names the known
// export tools (Ahrefs, SEMrush, Moz, ...) use for it, in priority order.
// New export formats are supported by extending this table, not by code.
var columnAliases = []struct {
	field   string
	aliases []string
}{
	{FieldBacklinkSource, []string{"backlink_source", "url_from", "source_url", "referring_page", "Backlink"}},
	{FieldAnchorText, []string{"anchor_text", "anchor", "text"}},
	{FieldTargetURL, []string{"target_url", "url_to", "target", "Destination URL"}},
	{FieldDomainAuthority, []string{"domain_authority", "da", "Domain Authority", "Authority Score", "Domain Rating"}},
	{FieldNofollow, []string{"nofollow", "is_nofollow", "nofollow?"}},
	{FieldDateFound, []string{"date_found", "first_seen", "Found On", "First seen"}},
	{FieldLinkType, []string{"link_type", "type", "Link Type"}},
	{FieldSourceDomain, []string{"source_domain", "domain_from", "Referring Domain", "root_domain"}},
}

// MapColumns resolves each canonical field to the first of its aliases
// present in the available input columns (case-sensitive exact match).
// Fields without a matching alias are absent from the result; callers must
// treat that as "not available in this export", not as an error.
func MapColumns(available []string) map[string]string {
	present := make(map[string]struct{}, len(available))
	for _, col := range available {
		present[col] = struct{}{}
	}

	mapping := make(map[string]string, len(columnAliases))
	for _, entry := range columnAliases {
		for _, alias := range entry.aliases {
			if _, ok := present[alias]; ok {
				mapping[entry.field] = alias
				break
			}
		}
	}
	return mapping
}
