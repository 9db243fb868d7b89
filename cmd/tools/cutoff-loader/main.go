// cmd/tools/cutoff-loader/main.go

// cutoff-loader ingests counselling cutoff CSVs into PostgreSQL and refreshes
// the institute search index. Expected CSV columns:
// institute,branch,opening_rank,closing_rank,category
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"nursing-predictor/internal/common/config"
	"nursing-predictor/internal/common/database"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/models"
	"nursing-predictor/internal/ownership"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type row struct {
	institute   string
	branch      string
	openingRank int
	closingRank int
	category    string
}

func main() {
	filePath := flag.String("file", "", "Path to the cutoff CSV file")
	year := flag.Int("year", 0, "Counselling year the file belongs to")
	reindex := flag.Bool("reindex", false, "Rebuild the institute search index after loading")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	if *filePath == "" || *year == 0 {
		fmt.Println("Usage: cutoff-loader -file <cutoffs.csv> -year <year> [-reindex]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres failed", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rows, skipped, err := readRows(*filePath)
	if err != nil {
		zapLog.Fatal("csv read failed", zap.Error(err))
	}
	zapLog.Info("csv parsed",
		zap.Int("rows", len(rows)),
		zap.Int("skipped", skipped),
	)

	inserted, err := loadRows(ctx, pg.DB, rows, *year)
	if err != nil {
		zapLog.Fatal("load failed", zap.Error(err))
	}
	zapLog.Info("cutoffs loaded",
		zap.Int("inserted", inserted),
		zap.Int("year", *year),
	)

	if err := ensureIndexes(ctx, pg.DB); err != nil {
		zapLog.Fatal("index creation failed", zap.Error(err))
	}

	if *reindex {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch failed", zap.Error(err))
		}
		count, err := reindexInstitutes(ctx, pg.DB, esClient, cfg.Database.Elasticsearch.Index)
		if err != nil {
			zapLog.Fatal("reindex failed", zap.Error(err))
		}
		zapLog.Info("institutes reindexed", zap.Int("documents", count))
	}
}

// readRows parses and cleans the CSV. Rows failing the cleaning rules are
// counted and dropped, never repaired.
func readRows(path string) ([]row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 5

	// Header
	if _, err := reader.Read(); err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	var rows []row
	skipped := 0
	seen := make(map[string]bool)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		r, ok := cleanRecord(record)
		if !ok {
			skipped++
			continue
		}

		// One row per institute, branch, and category
		key := r.institute + "|" + r.branch + "|" + r.category
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true

		rows = append(rows, r)
	}

	return rows, skipped, nil
}

// cleanRecord applies the ingestion rules: known category, positive closing
// rank, and an opening rank that cannot exceed the closing rank.
func cleanRecord(record []string) (row, bool) {
	r := row{
		institute: strings.ToUpper(strings.TrimSpace(record[0])),
		branch:    strings.TrimSpace(record[1]),
		category:  strings.ToUpper(strings.TrimSpace(record[4])),
	}

	if r.institute == "" || !models.IsValidBranch(r.branch) || !models.IsValidCategory(r.category) {
		return row{}, false
	}

	closing, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil || closing <= 0 {
		return row{}, false
	}
	r.closingRank = closing

	// Opening rank is optional in the source sheets
	if opening, err := strconv.Atoi(strings.TrimSpace(record[2])); err == nil && opening > 0 {
		if opening > closing {
			// Swapped or corrupt pair, keep the row but drop the opening rank
			r.openingRank = 0
		} else {
			r.openingRank = opening
		}
	}

	return r, true
}

// loadRows replaces the year's data in one transaction so a failed load
// never leaves a half-written year behind.
func loadRows(ctx context.Context, db *sql.DB, rows []row, year int) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nursing_cutoffs WHERE year = $1`, year); err != nil {
		return 0, fmt.Errorf("clear year %d: %w", year, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nursing_cutoffs (institute, branch, opening_rank, closing_rank, category, year)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.institute, r.branch, r.openingRank, r.closingRank, r.category, year); err != nil {
			return 0, fmt.Errorf("insert %s: %w", r.institute, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func ensureIndexes(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_cutoffs_category ON nursing_cutoffs (category)`,
		`CREATE INDEX IF NOT EXISTS idx_cutoffs_closing_rank ON nursing_cutoffs (closing_rank)`,
		`CREATE INDEX IF NOT EXISTS idx_cutoffs_branch ON nursing_cutoffs (branch)`,
		`CREATE INDEX IF NOT EXISTS idx_cutoffs_institute ON nursing_cutoffs (institute)`,
	}
	for _, s := range statements {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// reindexInstitutes pushes one search document per institute, aggregating
// the branches it offers.
func reindexInstitutes(ctx context.Context, db *sql.DB, es *database.ElasticsearchClient, index string) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT institute, array_to_string(array_agg(DISTINCT branch), ',')
		FROM nursing_cutoffs GROUP BY institute`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var institute, branchList string
		if err := rows.Scan(&institute, &branchList); err != nil {
			return count, err
		}

		doc := map[string]interface{}{
			"institute":  institute,
			"branches":   strings.Split(branchList, ","),
			"government": ownership.IsGovernment(institute),
		}
		body, _ := json.Marshal(doc)

		req := esapi.IndexRequest{
			Index:      index,
			DocumentID: institute,
			Body:       strings.NewReader(string(body)),
		}
		res, err := req.Do(ctx, es.Client)
		if err != nil {
			return count, err
		}
		res.Body.Close()
		if res.IsError() {
			return count, fmt.Errorf("index %s: %s", institute, res.Status())
		}
		count++
	}

	return count, rows.Err()
}
