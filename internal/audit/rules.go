// =============================================================================
// Appraisal Fee Audit - Rule Tables
// =============================================================================
//
// Everything the engine treats as business data lives here: column positions
// in the order table, surcharges, tier thresholds, complexity keywords and
// quote keywords. The defaults reproduce the fee schedule policy the audit
// was written for; every value can be overridden from configuration.
//
// =============================================================================

package audit

// =============================================================================
// ORDER COLUMNS
// =============================================================================

// Columns gives the zero-based position of each field the engine reads from
// an order row.
type Columns struct {
	ReferenceID    int `yaml:"reference_id" validate:"gte=0"`
	City           int `yaml:"city" validate:"gte=0"`
	State          int `yaml:"state" validate:"gte=0"`
	Zip            int `yaml:"zip" validate:"gte=0"`
	County         int `yaml:"county" validate:"gte=0"`
	CompletedDate  int `yaml:"completed_date" validate:"gte=0"`
	Rush           int `yaml:"rush" validate:"gte=0"`
	SiteSize       int `yaml:"site_size" validate:"gte=0"`
	GLA            int `yaml:"gla" validate:"gte=0"`
	AppraisedValue int `yaml:"appraised_value" validate:"gte=0"`
	JobType        int `yaml:"job_type" validate:"gte=0"`
	ActualFee      int `yaml:"actual_fee" validate:"gte=0"`
	Notes          int `yaml:"notes" validate:"gte=0"`
}

// DefaultColumns is the order export layout.
func DefaultColumns() Columns {
	return Columns{
		ReferenceID:    0,
		City:           3,
		State:          4,
		Zip:            5,
		County:         6,
		CompletedDate:  8,
		Rush:           11,
		SiteSize:       12,
		GLA:            13,
		AppraisedValue: 14,
		JobType:        15,
		ActualFee:      16,
		Notes:          19,
	}
}

// Max returns the highest configured position.
func (c Columns) Max() int {
	m := 0
	for _, p := range []int{
		c.ReferenceID, c.City, c.State, c.Zip, c.County, c.CompletedDate,
		c.Rush, c.SiteSize, c.GLA, c.AppraisedValue, c.JobType, c.ActualFee, c.Notes,
	} {
		m = max(m, p)
	}
	return m
}

// =============================================================================
// FEES AND THRESHOLDS
// =============================================================================

// Fees are the surcharges added on top of the scheduled base fee.
type Fees struct {
	Tier2  int `yaml:"tier2" validate:"gte=0"`
	Tier3  int `yaml:"tier3" validate:"gte=0"`
	Rush   int `yaml:"rush" validate:"gte=0"`
	PerTag int `yaml:"per_tag" validate:"gte=0"`
}

// Limits are exclusive lower bounds: a property is in the tier when any one
// measurement is strictly greater than its limit.
type Limits struct {
	SiteAcres      float64 `yaml:"site_acres" validate:"gte=0"`
	GLA            int     `yaml:"gla" validate:"gte=0"`
	AppraisedValue int     `yaml:"appraised_value" validate:"gte=0"`
}

// Thresholds are checked Quote first, then Tier 3, then Tier 2.
type Thresholds struct {
	Tier2 Limits `yaml:"tier2"`
	Tier3 Limits `yaml:"tier3"`
	Quote Limits `yaml:"quote"`
}

// =============================================================================
// KEYWORD TABLES
// =============================================================================

// ComplexityRule emits Tag once when any keyword occurs in the notes.
// Matching is a case-sensitive substring search.
type ComplexityRule struct {
	Tag      string   `yaml:"tag" validate:"required"`
	Keywords []string `yaml:"keywords" validate:"min=1,dive,required"`
}

// Rules is the full pricing policy.
type Rules struct {
	Fees       Fees             `yaml:"fees"`
	Thresholds Thresholds       `yaml:"thresholds"`
	Complexity []ComplexityRule `yaml:"complexity_rules" validate:"dive"`

	// QuoteKeywords force an overcharged order to Quote.
	QuoteKeywords []string `yaml:"quote_keywords" validate:"dive,required"`

	// RushMarker marks a rush order when found in the rush cell.
	RushMarker string `yaml:"rush_marker" validate:"required"`

	// QuoteMarker marks a schedule fee that must be quoted.
	QuoteMarker string `yaml:"quote_marker" validate:"required"`
}

// DefaultRules returns the standard pricing policy.
func DefaultRules() Rules {
	return Rules{
		Fees: Fees{Tier2: 300, Tier3: 400, Rush: 150, PerTag: 105},
		Thresholds: Thresholds{
			Tier2: Limits{SiteAcres: 1.9, GLA: 1999, AppraisedValue: 1005000},
			Tier3: Limits{SiteAcres: 3.9, GLA: 2999, AppraisedValue: 2005000},
			Quote: Limits{SiteAcres: 8, GLA: 4999, AppraisedValue: 4005000},
		},
		Complexity: []ComplexityRule{
			{Tag: "rural/remote", Keywords: []string{"rural", "remote"}},
			{Tag: "waterfront", Keywords: []string{
				"waterfront", "riverfront", "oceanfront",
				"water front", "river front", "ocean front",
			}},
			{Tag: "solar energy home", Keywords: []string{"solar"}},
			{Tag: "golf course", Keywords: []string{"golf"}},
			{Tag: "gated community", Keywords: []string{"gated"}},
			{Tag: "condotel", Keywords: []string{"condotel"}},
			{Tag: "mixed use", Keywords: []string{"mixed use"}},
		},
		QuoteKeywords: []string{"outbuildings", "mountain"},
		RushMarker:    "Yes",
		QuoteMarker:   "Quote",
	}
}
