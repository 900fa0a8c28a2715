package audit

import (
	"strings"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

// AuditHeader titles the overcharge report. "Original Client Fee" holds the
// commensurate fee and "New Client Fee" the fee actually charged.
var AuditHeader = []string{
	"Reference ID #",
	"City",
	"State",
	"County",
	"Zip",
	"Product Type",
	"Completed Date",
	"Rush",
	"Site Size",
	"GLA",
	"Appraised Value",
	"Original Client Fee",
	"Increase Amount",
	"New Client Fee",
	"Increase %",
	"Complexity Reasons",
	"Comments",
}

// RushHeader titles the rush report.
var RushHeader = []string{
	"Reference ID #",
	"City",
	"State",
	"County",
	"Zip",
}

// Stats counts what happened during a run.
type Stats struct {
	Orders    int
	AuditRows int
	RushRows  int
	Quoted    int
	Errors    int
	Tiers     map[Tier]int
	Levels    map[string]int
}

// Report holds both output tables, with their title rows, and the orders
// that could not be priced.
type Report struct {
	Audit  types.Table
	Rush   types.Table
	Errors []*RecordError
	Stats  Stats
}

// NewReport returns a report with title rows only.
func NewReport() *Report {
	return &Report{
		Audit: types.Table{append([]string(nil), AuditHeader...)},
		Rush:  types.Table{append([]string(nil), RushHeader...)},
		Stats: Stats{
			Tiers:  make(map[Tier]int),
			Levels: make(map[string]int),
		},
	}
}

// add records the assessment and reports whether an audit row was emitted.
// Overcharges priced as Quote are left out of the audit table.
func (r *Report) add(a *Assessment, c Columns) bool {
	r.Stats.Tiers[a.Tier]++
	r.Stats.Levels[a.Level]++
	if a.Variance.Commensurate.Quote {
		r.Stats.Quoted++
	}

	if a.Variance.OverExpected && !a.Variance.Commensurate.Quote {
		r.Audit = append(r.Audit, AuditRow(a, c))
		r.Stats.AuditRows++
		return true
	}
	return false
}

// addRush records a rush order.
func (r *Report) addRush(o types.Record, c Columns) {
	r.Rush = append(r.Rush, RushRow(o, c))
	r.Stats.RushRows++
}

// AuditRow renders the 17 audit report cells for an assessment.
func AuditRow(a *Assessment, c Columns) []string {
	o := a.Order
	return []string{
		o.At(c.ReferenceID),
		o.At(c.City),
		o.At(c.State),
		o.At(c.County),
		o.At(c.Zip),
		o.At(c.JobType),
		o.At(c.CompletedDate),
		o.At(c.Rush),
		o.At(c.SiteSize),
		o.At(c.GLA),
		o.At(c.AppraisedValue),
		a.Variance.Commensurate.String(),
		a.Variance.IncreaseText(),
		o.At(c.ActualFee),
		a.Variance.PercentageText(),
		strings.Join(a.Tags, ", "),
		o.At(c.Notes),
	}
}

// RushRow renders the 5 rush report cells for an order.
func RushRow(o types.Record, c Columns) []string {
	return []string{
		o.At(c.ReferenceID),
		o.At(c.City),
		o.At(c.State),
		o.At(c.County),
		o.At(c.Zip),
	}
}
