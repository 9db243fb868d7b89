// internal/advisor/prompt_test.go
package advisor

import (
	"strings"
	"testing"

	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/models"
	"nursing-predictor/internal/predictor"

	"github.com/stretchr/testify/assert"
)

func promptService(t *testing.T) *Service {
	cfg := createGeneratorConfig("http://unused")
	return NewService(cfg, nil, nil, nil, logger.NewTestLogger(t))
}

func sampleResult() *predictor.Result {
	colleges := []models.CollegeResult{
		{
			Institute:   "G.N.M. SCHOOL, GAYA",
			Branch:      "G.N.M.",
			BranchLabel: "General Nursing & Midwifery (GNM)",
			ClosingRank: 9000,
			Chance:      models.ChanceHigh,
		},
		{
			Institute:   "DISTRICT ANM SCHOOL SIWAN",
			Branch:      "A.N.M.",
			BranchLabel: "Auxiliary Nursing & Midwifery (ANM)",
			ClosingRank: 12000,
			Chance:      models.ChanceGood,
		},
		{
			Institute:   "MATA PRIVATE NURSING COLLEGE",
			Branch:      "G.N.M.",
			BranchLabel: "General Nursing & Midwifery (GNM)",
			ClosingRank: 5100,
			Chance:      models.ChanceLow,
		},
	}
	return &predictor.Result{
		Colleges: colleges,
		Meta:     predictor.Meta{Count: len(colleges)},
	}
}

func TestSummarize(t *testing.T) {
	agg := summarize(sampleResult())

	assert.Equal(t, 3, agg.count)
	assert.Equal(t, 2, agg.safeCount)
	assert.Equal(t, []string{
		"General Nursing & Midwifery (GNM)",
		"Auxiliary Nursing & Midwifery (ANM)",
	}, agg.branches)
	assert.Equal(t, (9000+12000+5100)/3, agg.meanClosing)
}

func TestBuildPrompt_EmbedsQueryAndAggregates(t *testing.T) {
	svc := promptService(t)
	req := &predictor.Request{
		Rank:        5000,
		Category:    "UR",
		ExamType:    "DCECE_PM",
		Branch:      "G.N.M.",
		CollegeType: "Government",
	}

	prompt := svc.buildPrompt(req, sampleResult())

	assert.Contains(t, prompt, "DCECE [PM] rank 5000")
	assert.Contains(t, prompt, "UR category")
	assert.Contains(t, prompt, "General Nursing & Midwifery (GNM)")
	assert.Contains(t, prompt, "government colleges only")
	assert.Contains(t, prompt, "3 colleges accept this rank")
	assert.Contains(t, prompt, "2 with a high or good admission chance")
	assert.Contains(t, prompt, "G.N.M. SCHOOL, GAYA")
	assert.Contains(t, prompt, "under 154 words")
}

func TestBuildPrompt_SampleRowsCapped(t *testing.T) {
	svc := promptService(t)
	svc.config.SampleRows = 2

	prompt := svc.buildPrompt(&predictor.Request{Rank: 5000, Category: "UR", ExamType: "DCECE_PM"}, sampleResult())

	assert.Contains(t, prompt, "G.N.M. SCHOOL, GAYA")
	assert.Contains(t, prompt, "DISTRICT ANM SCHOOL SIWAN")
	assert.NotContains(t, prompt, "MATA PRIVATE NURSING COLLEGE")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	svc := promptService(t)
	req := &predictor.Request{Rank: 5000, Category: "UR", ExamType: "DCECE_PM"}

	assert.Equal(t, svc.buildPrompt(req, sampleResult()), svc.buildPrompt(req, sampleResult()))
}

func TestFallbackAdvice_CarriesFixedNotes(t *testing.T) {
	svc := promptService(t)
	req := &predictor.Request{
		Rank:        5000,
		Category:    "SC",
		ExamType:    "DCECE_PM",
		Branch:      "A.N.M.",
		CollegeType: "Private",
	}

	text := svc.fallbackAdvice(req, sampleResult())

	assert.Contains(t, text, "rank 5000")
	assert.Contains(t, text, "SC category")
	assert.Contains(t, text, "3 colleges")
	assert.Contains(t, text, models.BranchAdviceNote("A.N.M."))
	assert.Contains(t, text, models.CollegeTypeAdviceNote("Private"))
	assert.Contains(t, text, models.CategoryAdviceNote("SC"))
	assert.LessOrEqual(t, len(strings.Fields(text)), 154)
}

func TestFallbackAdvice_EveryCategoryHasNote(t *testing.T) {
	for _, c := range models.Categories {
		assert.NotEmpty(t, models.CategoryAdviceNote(string(c)), "category %s", c)
	}
}

func TestFallbackAdvice_Deterministic(t *testing.T) {
	svc := promptService(t)
	req := &predictor.Request{Rank: 5000, Category: "UR", ExamType: "DCECE_PM"}

	assert.Equal(t, svc.fallbackAdvice(req, sampleResult()), svc.fallbackAdvice(req, sampleResult()))
}
