// Package compliance builds GDPR reporting artifacts over the case
// registry: the ROPA (Record of Processing Activities) export, access
// report receipts, and the DPIA questionnaire template.
package compliance

import (
	"time"

	"github.com/justichain/justichain/internal/registry"
)

// ROPACase is one case row in a ROPA report. Digest fields stay raw;
// type, retention, and filing date carry human labels.
type ROPACase struct {
	CaseID             int64           `json:"caseId"`
	CaseHash           registry.Digest `json:"caseHash"`
	DataClassification registry.Digest `json:"dataClassification"`
	CaseType           string          `json:"caseType"`
	RetentionPeriod    string          `json:"retentionPeriod"`
	FilingDate         string          `json:"filingDate"`
	IsGDPRCase         bool            `json:"isGDPRCase"`
}

// ROPAReport is the full Record of Processing Activities export.
// TotalCases counts exported rows, not registered ids; cases that fail
// to export are skipped.
type ROPAReport struct {
	GeneratedDate string     `json:"generatedDate"`
	GeneratedBy   string     `json:"generatedBy"`
	TotalCases    int        `json:"totalCases"`
	GDPRCases     int        `json:"gdprCases"`
	Cases         []ROPACase `json:"cases"`
}

// AccessReport is the receipt for a generated subject-access report.
type AccessReport struct {
	CaseID      int64             `json:"caseId"`
	DataSubject registry.Identity `json:"dataSubject"`
	GeneratedBy registry.Identity `json:"generatedBy"`
	GeneratedAt time.Time         `json:"generatedAt"`
	ReportHash  registry.Digest   `json:"reportHash"`
}

// formatLabelDate renders a timestamp for report labels.
func formatLabelDate(t time.Time) string {
	if t.IsZero() {
		return "Not set"
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
