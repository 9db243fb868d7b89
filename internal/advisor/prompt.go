// internal/advisor/prompt.go
package advisor

import (
	"fmt"
	"strings"

	"nursing-predictor/internal/models"
	"nursing-predictor/internal/predictor"
)

// aggregates are the statistics both the prompt and the fallback are built
// from, so the two texts always describe the same result set.
type aggregates struct {
	count       int
	branches    []string
	safeCount   int
	meanClosing int
}

func summarize(result *predictor.Result) aggregates {
	agg := aggregates{count: result.Meta.Count}
	seen := map[string]bool{}
	total := 0
	for _, c := range result.Colleges {
		if !seen[c.Branch] {
			seen[c.Branch] = true
			agg.branches = append(agg.branches, c.BranchLabel)
		}
		if c.Chance == models.ChanceHigh || c.Chance == models.ChanceGood {
			agg.safeCount++
		}
		total += c.ClosingRank
	}
	if len(result.Colleges) > 0 {
		agg.meanClosing = total / len(result.Colleges)
	}
	return agg
}

// buildPrompt assembles the generation prompt from the prediction outcome.
// Only a sample of rows is included to keep the prompt small.
func (s *Service) buildPrompt(req *predictor.Request, result *predictor.Result) string {
	agg := summarize(result)

	var parts []string
	parts = append(parts, "You are a counselling advisor for Bihar nursing and paramedical admissions. Answer based ONLY on the provided data.")
	parts = append(parts, fmt.Sprintf("\nThe candidate has %s rank %d in the %s category.",
		models.ExamVariantLabel(req.ExamType), req.Rank, req.Category))

	if req.Branch != "" {
		parts = append(parts, fmt.Sprintf("They are interested in %s.", models.BranchLabel(req.Branch)))
	}
	if req.CollegeType != "" && req.CollegeType != string(models.CollegeTypeAll) {
		parts = append(parts, fmt.Sprintf("They want %s colleges only.", strings.ToLower(req.CollegeType)))
	}

	parts = append(parts, fmt.Sprintf("\n%d colleges accept this rank based on last year's closing cutoffs, %d with a high or good admission chance.",
		agg.count, agg.safeCount))
	if agg.count > 0 {
		parts = append(parts, fmt.Sprintf("Courses present: %s. Average closing rank across the results is %d.",
			strings.Join(agg.branches, ", "), agg.meanClosing))
	}

	sample := result.Colleges
	if len(sample) > s.config.SampleRows {
		sample = sample[:s.config.SampleRows]
	}
	if len(sample) > 0 {
		parts = append(parts, "Closest matches, ordered by closing rank:")
		for _, c := range sample {
			parts = append(parts, fmt.Sprintf("- %s, %s, closing rank %d, admission chance %s",
				c.Institute, c.BranchLabel, c.ClosingRank, c.Chance))
		}
	}

	parts = append(parts, fmt.Sprintf("\nExplain in simple language what these results mean for the candidate, which colleges to prioritise, and what to do during counselling. Write plain prose with no markup characters. Stay under %d words. Do not invent colleges or ranks.", s.config.WordLimit))

	return strings.Join(parts, "\n")
}

// fallbackAdvice is the deterministic text used when generation fails. It is
// built from the aggregates and the fixed note tables only, so it must stand
// on its own as useful counselling guidance.
func (s *Service) fallbackAdvice(req *predictor.Request, result *predictor.Result) string {
	agg := summarize(result)

	var parts []string
	if agg.count == 0 {
		parts = append(parts, fmt.Sprintf(
			"With rank %d in the %s category, no college in our data closed at or beyond your rank last year. "+
				"Cutoffs move every year, so attend all counselling rounds anyway.",
			req.Rank, req.Category))
	} else {
		parts = append(parts, fmt.Sprintf(
			"Based on your rank %d in the %s category, %d colleges accepted ranks like yours in the last counselling round, %d of them with a high or good admission chance.",
			req.Rank, req.Category, agg.count, agg.safeCount))
		parts = append(parts, "The list is ordered by closing rank, so the colleges at the top are the closest matches.")
	}

	parts = append(parts, models.BranchAdviceNote(req.Branch))
	parts = append(parts, models.CollegeTypeAdviceNote(req.CollegeType))
	parts = append(parts, models.CategoryAdviceNote(req.Category))
	parts = append(parts, "Keep your documents verified and attend every round until you secure a seat.")

	return strings.Join(parts, " ")
}

// truncateWords enforces the word limit, appending an ellipsis when text
// was cut.
func truncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ") + "..."
}
