// internal/models/cutoff.go
package models

// Category is a reservation category code from the DCECE counselling rounds.
type Category string

const (
	CategoryUR  Category = "UR"
	CategorySC  Category = "SC"
	CategoryST  Category = "ST"
	CategoryOBC Category = "OBC"
	CategoryEWS Category = "EWS"
	CategoryEBC Category = "EBC"
	CategoryRCG Category = "RCG"
	CategoryDQ  Category = "DQ"
	CategoryBC  Category = "BC"
)

// Categories lists every accepted category code, in display order.
var Categories = []Category{
	CategoryUR, CategorySC, CategoryST, CategoryOBC, CategoryEWS,
	CategoryEBC, CategoryRCG, CategoryDQ, CategoryBC,
}

// IsValidCategory reports whether the code is a known reservation category.
func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if string(cat) == c {
			return true
		}
	}
	return false
}

// Branch is a course code as stored in the cutoff tables. The codes carry the
// punctuation and line breaks used in the official counselling PDFs, so they
// are matched exactly, never normalized.
type Branch string

const (
	BranchANM        Branch = "A.N.M."
	BranchGNM        Branch = "G.N.M."
	BranchPharmacy   Branch = "DIPLOMA IN\nPHARMACY"
	BranchOTA        Branch = "O.T. ASSISTANT"
	BranchLabTech    Branch = "LABORATORY\nTECHNICIAN"
	BranchXRay       Branch = "X' RAY\nTECHNICIAN"
	BranchOphthalmic Branch = "OPTHALMIC\nASSISTANT"
	BranchDresser    Branch = "DRESSER"
)

// BranchAll is the no-filter sentinel used by query requests. It is not a
// stored course code.
const BranchAll Branch = "All"

// Branches lists every known course code.
var Branches = []Branch{
	BranchANM, BranchGNM, BranchPharmacy, BranchOTA,
	BranchLabTech, BranchXRay, BranchOphthalmic, BranchDresser,
}

// branchLabels maps course codes to human-readable labels for responses.
// "OPTHALMIC" preserves the spelling used in the stored data.
var branchLabels = map[Branch]string{
	BranchANM:        "Auxiliary Nursing & Midwifery (ANM)",
	BranchGNM:        "General Nursing & Midwifery (GNM)",
	BranchPharmacy:   "Diploma in Pharmacy",
	BranchOTA:        "Operation Theatre Assistant (OT)",
	BranchLabTech:    "Laboratory Technician",
	BranchXRay:       "X-Ray Technician",
	BranchOphthalmic: "Ophthalmic Assistant",
	BranchDresser:    "Dresser",
}

// IsValidBranch reports whether the code is a known course code.
func IsValidBranch(b string) bool {
	_, ok := branchLabels[Branch(b)]
	return ok
}

// BranchLabel returns the display label for a course code. Unknown codes are
// returned unchanged so stray data stays visible rather than vanishing.
func BranchLabel(b string) string {
	if label, ok := branchLabels[Branch(b)]; ok {
		return label
	}
	return b
}

// ExamVariant identifies the DCECE paper the rank belongs to.
type ExamVariant string

const (
	ExamDCECEPM  ExamVariant = "DCECE_PM"
	ExamDCECEPMM ExamVariant = "DCECE_PMM"
)

// IsValidExamVariant reports whether the variant is a recognized paper.
// Recognized does not mean supported; PMM has no cutoff data yet.
func IsValidExamVariant(v string) bool {
	return v == string(ExamDCECEPM) || v == string(ExamDCECEPMM)
}

// ExamVariantLabel returns the display form used in API messages,
// for example DCECE_PM becomes "DCECE [PM]".
func ExamVariantLabel(v string) string {
	switch ExamVariant(v) {
	case ExamDCECEPM:
		return "DCECE [PM]"
	case ExamDCECEPMM:
		return "DCECE [PMM]"
	}
	return v
}

// CollegeType filters results by institute ownership.
type CollegeType string

const (
	CollegeTypeAll        CollegeType = "All"
	CollegeTypeGovernment CollegeType = "Government"
	CollegeTypePrivate    CollegeType = "Private"
)

// IsValidCollegeType reports whether the value is a known ownership filter.
func IsValidCollegeType(t string) bool {
	switch CollegeType(t) {
	case CollegeTypeAll, CollegeTypeGovernment, CollegeTypePrivate:
		return true
	}
	return false
}

// CutoffRecord is one row of the nursing_cutoffs table.
type CutoffRecord struct {
	ID          int64    `json:"id" db:"id"`
	Institute   string   `json:"institute" db:"institute"`
	Branch      Branch   `json:"branch" db:"branch"`
	OpeningRank int      `json:"openingRank" db:"opening_rank"`
	ClosingRank int      `json:"closingRank" db:"closing_rank"`
	Category    Category `json:"category" db:"category"`
	Year        int      `json:"year" db:"year"`
}

// CollegeResult is one eligible institute as returned to the caller, with the
// admission chance grading applied.
type CollegeResult struct {
	Institute    string  `json:"institute"`
	Branch       string  `json:"branch"`
	BranchLabel  string  `json:"branchLabel"`
	OpeningRank  int     `json:"openingRank"`
	ClosingRank  int     `json:"closingRank"`
	Category     string  `json:"category"`
	SafetyMargin float64 `json:"safetyMargin"`
	Chance       string  `json:"chance"`
}

// Chance grades, ordered from safest to tightest.
const (
	ChanceHigh   = "high"
	ChanceGood   = "good"
	ChanceMedium = "medium"
	ChanceLow    = "low"
)
