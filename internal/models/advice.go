// internal/models/advice.go
package models

// Fixed one-sentence counselling notes keyed by request field. Kept as static
// tables so the advisory fallback stays deterministic and both the prompt
// builder and the fallback read from the same source.

var categoryAdviceNotes = map[Category]string{
	CategoryUR:  "UR seats see the widest competition, so lock in your safer choices early in the rounds.",
	CategorySC:  "SC cutoffs close well beyond the UR list, so more colleges are within reach than the general list suggests.",
	CategoryST:  "ST seats are few but close at deep ranks, so fill every ST-eligible choice you are willing to join.",
	CategoryOBC: "OBC cutoffs track close to UR in popular colleges, so treat borderline options as reach choices.",
	CategoryEWS: "EWS seats are carved out of the UR pool, so compare both lists before ordering your choices.",
	CategoryEBC: "EBC cutoffs usually close later than OBC, which widens your middle-of-the-list options.",
	CategoryRCG: "Reserved category girl seats close at deeper ranks in most districts, so use them wherever eligible.",
	CategoryDQ:  "Disability quota seats need certificate verification at counselling, so keep your documents ready.",
	CategoryBC:  "BC cutoffs sit between UR and EBC in most colleges, so balance reach and safe choices.",
}

var branchAdviceNotes = map[Branch]string{
	BranchANM:        "ANM seats close at lower ranks than GNM seats, so your rank stretches further here.",
	BranchGNM:        "GNM is the most sought-after course and its cutoffs close earliest, so rank your GNM choices first.",
	BranchPharmacy:   "Pharmacy diploma cutoffs sit between GNM and the paramedical courses in most districts.",
	BranchOTA:        "OT assistant seats are limited but close at deeper ranks than the nursing courses.",
	BranchLabTech:    "Laboratory technician cutoffs close later than nursing cutoffs and lead to steady hospital jobs.",
	BranchXRay:       "X-Ray technician seats are few per institute, so spread your choices across districts.",
	BranchOphthalmic: "Ophthalmic assistant is a low-competition course, a strong backup beside nursing choices.",
	BranchDresser:    "Dresser seats close deepest of all courses, a dependable fallback option.",
}

// branchAdviceDefault covers the all-branches query.
const branchAdviceDefault = "ANM cutoffs generally close at lower ranks than GNM cutoffs, so adding ANM options widens your safety net."

var collegeTypeAdviceNotes = map[CollegeType]string{
	CollegeTypeGovernment: "Government seats fill first and cost the least, so attend the early rounds without fail.",
	CollegeTypePrivate:    "Private colleges admit deeper into the merit list, but compare fees and hostel costs before locking a seat.",
	CollegeTypeAll:        "Mixing government and private choices gives the best coverage across rounds.",
}

// CategoryAdviceNote returns the fixed counselling sentence for a category.
func CategoryAdviceNote(c string) string {
	return categoryAdviceNotes[Category(c)]
}

// BranchAdviceNote returns the fixed counselling sentence for a course code.
// An empty or unknown code gets the all-branches note.
func BranchAdviceNote(b string) string {
	if note, ok := branchAdviceNotes[Branch(b)]; ok {
		return note
	}
	return branchAdviceDefault
}

// CollegeTypeAdviceNote returns the fixed counselling sentence for an
// ownership filter. An empty filter gets the all-colleges note.
func CollegeTypeAdviceNote(t string) string {
	if note, ok := collegeTypeAdviceNotes[CollegeType(t)]; ok {
		return note
	}
	return collegeTypeAdviceNotes[CollegeTypeAll]
}
