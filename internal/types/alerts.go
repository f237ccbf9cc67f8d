package types

// Alert severity values as reported by the provider. The field is free text
// on the wire; these constants cover the documented vocabulary.
const (
	SeverityExtreme  = "Extreme"
	SeveritySevere   = "Severe"
	SeverityModerate = "Moderate"
	SeverityMinor    = "Minor"
)

// AlertFeature is an active hazard advisory from the weather authority.
// ID is the provider-assigned stable identifier (typically a URL) and is the
// dedup key for notifications. A full alerts fetch fully replaces the prior
// list; there is no merge.
//
// Effective and Sent are kept in their ISO-8601 string form: they are
// display-only and older provider variants omit them entirely.
type AlertFeature struct {
	ID          string `json:"id"`
	Event       string `json:"event"`
	Severity    string `json:"severity,omitempty"`
	Headline    string `json:"headline,omitempty"`
	AreaDesc    string `json:"area_desc,omitempty"`
	Description string `json:"description,omitempty"`
	Instruction string `json:"instruction,omitempty"`
	Effective   string `json:"effective,omitempty"`
	Sent        string `json:"sent,omitempty"`
}
