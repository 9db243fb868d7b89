// internal/server/handlers_test.go
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nursing-predictor/internal/advisor"
	"nursing-predictor/internal/common/config"
	"nursing-predictor/internal/common/database"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/leads"
	"nursing-predictor/internal/predictor"
	"nursing-predictor/internal/search"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	server *Server
	mock   sqlmock.Sqlmock
}

func newServerFixture(t *testing.T, groqHandler, esHandler http.HandlerFunc) *serverFixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewTestLogger(t)

	predCfg := &predictor.Config{
		DefaultYear:  2025,
		MaxResults:   50,
		MaxRank:      100000,
		HighMargin:   0.30,
		GoodMargin:   0.15,
		MediumMargin: 0.05,
		QueryTimeout: 2 * time.Second,
	}
	pred := predictor.NewService(predCfg, db, log)

	groqServer := httptest.NewServer(groqHandler)
	t.Cleanup(groqServer.Close)

	mr := miniredis.RunT(t)
	redisClient, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	advCfg := &advisor.Config{
		BaseURL:     groqServer.URL,
		APIKey:      "test-key",
		Model:       "llama-3.1-8b-instant",
		Timeout:     2 * time.Second,
		MaxTokens:   500,
		Temperature: 0.5,
		WordLimit:   154,
		SampleRows:  8,
		CacheTTL:    time.Minute,
	}
	adv := advisor.NewService(advCfg, pred, advisor.NewGenerator(advCfg, log), redisClient, log)

	leadSvc := leads.NewService(db, nil, log)

	esServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		esHandler(w, r)
	}))
	t.Cleanup(esServer.Close)

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{esServer.URL}})
	require.NoError(t, err)
	searchSvc := search.NewService(&search.Config{
		Index:      "institutes",
		Timeout:    2 * time.Second,
		MaxResults: 10,
	}, esClient, log)

	srv := New(config.ServerConfig{Port: 0, ShutdownTimeout: 1000}, Services{
		Predictor: pred,
		Advisor:   adv,
		Leads:     leadSvc,
		Search:    searchSvc,
	}, nil, redisClient, nil, log)

	return &serverFixture{server: srv, mock: mock}
}

func groqOK(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": text}},
			},
		}
		json.NewEncoder(w).Encode(body)
	}
}

func esEmpty(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"hits":{"hits":[]}}`))
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func predictBody() map[string]interface{} {
	return map[string]interface{}{
		"rank":     5000,
		"category": "UR",
		"examType": "DCECE_PM",
	}
}

func cutoffRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"institute", "branch", "opening_rank", "closing_rank", "category"})
}

func TestPredictEndpoint_Success(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)
	fix.mock.ExpectQuery(`FROM nursing_cutoffs`).
		WillReturnRows(cutoffRows().
			AddRow("G.N.M. SCHOOL, GAYA", "G.N.M.", 1200, 9000, "UR"))

	rec := doJSON(t, fix.server.Router(), "POST", "/api/predict", predictBody())
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Colleges []map[string]interface{} `json:"colleges"`
		Meta     map[string]interface{}   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Colleges, 1)
	assert.EqualValues(t, 1, resp.Meta["count"])
	assert.Equal(t, "database", resp.Meta["provider"])
	assert.EqualValues(t, 5000, resp.Meta["query_rank"])
}

func TestPredictEndpoint_SchemaValidation(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "missing rank", body: map[string]interface{}{"category": "UR", "examType": "DCECE_PM"}},
		{name: "rank as string", body: map[string]interface{}{"rank": "5000", "category": "UR", "examType": "DCECE_PM"}},
		{name: "unknown field", body: map[string]interface{}{"rank": 5000, "category": "UR", "examType": "DCECE_PM", "extra": true}},
		{name: "empty body", body: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, fix.server.Router(), "POST", "/api/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_FAILED", resp["code"])
		})
	}
}

func TestPredictEndpoint_ExamTypeOptional(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)
	fix.mock.ExpectQuery(`FROM nursing_cutoffs`).
		WillReturnRows(cutoffRows().
			AddRow("G.N.M. SCHOOL, GAYA", "G.N.M.", 1200, 9000, "UR"))

	rec := doJSON(t, fix.server.Router(), "POST", "/api/predict", map[string]interface{}{
		"rank":     5000,
		"category": "UR",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DCECE_PM", resp.Meta["query_examType"])
}

func TestPredictEndpoint_AllBranchAccepted(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)
	fix.mock.ExpectQuery(`FROM nursing_cutoffs`).
		WithArgs(2025, "UR", 5000, 50).
		WillReturnRows(cutoffRows().
			AddRow("DISTRICT ANM SCHOOL SIWAN", "A.N.M.", 800, 12000, "UR"))

	body := predictBody()
	body["branch"] = "All"

	rec := doJSON(t, fix.server.Router(), "POST", "/api/predict", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "All", resp.Meta["query_branch"])
	assert.NoError(t, fix.mock.ExpectationsWereMet())
}

func TestPredictEndpoint_PMMRejected(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)

	body := predictBody()
	body["examType"] = "DCECE_PMM"

	rec := doJSON(t, fix.server.Router(), "POST", "/api/predict", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "EXAM_DATA_NOT_AVAILABLE", resp["code"])
	assert.Equal(t, "DCECE [PMM] data is not available yet. Currently supporting DCECE [PM] only.", resp["error"])
}

func TestPredictEndpoint_DataUnavailableIs503(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)
	fix.mock.ExpectQuery(`FROM nursing_cutoffs`).
		WillReturnError(assert.AnError)

	rec := doJSON(t, fix.server.Router(), "POST", "/api/predict", predictBody())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DATA_UNAVAILABLE", resp["code"])
}

func TestAdviceEndpoint_GeneratedText(t *testing.T) {
	fix := newServerFixture(t, groqOK("Focus on the government GNM schools near the top of your list."), esEmpty)
	fix.mock.ExpectQuery(`FROM nursing_cutoffs`).
		WillReturnRows(cutoffRows().
			AddRow("G.N.M. SCHOOL, GAYA", "G.N.M.", 1200, 9000, "UR"))

	rec := doJSON(t, fix.server.Router(), "POST", "/api/advice", predictBody())
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AIExplanation string                 `json:"ai_explanation"`
		Meta          map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.AIExplanation, "government GNM schools")
	assert.Equal(t, "groq", resp.Meta["provider"])
	assert.EqualValues(t, 1, resp.Meta["colleges_count"])
}

func TestAdviceEndpoint_AcceptsSuppliedColleges(t *testing.T) {
	fix := newServerFixture(t, groqOK("Both seats on your list look safe."), esEmpty)
	// No cutoff query is expected; the advice comes from the supplied rows.

	body := predictBody()
	body["colleges"] = []map[string]interface{}{
		{"institute": "G.N.M. SCHOOL, GAYA", "branch": "G.N.M.", "openingRank": 1200, "closingRank": 9000, "category": "UR", "chance": "high"},
		{"institute": "DISTRICT ANM SCHOOL SIWAN", "branch": "A.N.M.", "openingRank": 800, "closingRank": 12000, "category": "UR", "chance": "good"},
	}

	rec := doJSON(t, fix.server.Router(), "POST", "/api/advice", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AIExplanation string                 `json:"ai_explanation"`
		Meta          map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.AIExplanation, "look safe")
	assert.Equal(t, "groq", resp.Meta["provider"])
	assert.EqualValues(t, 2, resp.Meta["colleges_count"])
	assert.NoError(t, fix.mock.ExpectationsWereMet())
}

func TestAdviceEndpoint_FallbackStillOK(t *testing.T) {
	fix := newServerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, esEmpty)
	fix.mock.ExpectQuery(`FROM nursing_cutoffs`).
		WillReturnRows(cutoffRows().
			AddRow("G.N.M. SCHOOL, GAYA", "G.N.M.", 1200, 9000, "UR"))

	rec := doJSON(t, fix.server.Router(), "POST", "/api/advice", predictBody())
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AIExplanation string                 `json:"ai_explanation"`
		Meta          map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fallback", resp.Meta["provider"])
	assert.NotEmpty(t, resp.AIExplanation)
}

func TestLeadsEndpoint_Created(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)
	fix.mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	fix.mock.ExpectExec(`INSERT INTO leads`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := doJSON(t, fix.server.Router(), "POST", "/api/leads", map[string]interface{}{
		"name":  "Anjali Kumari",
		"phone": "9876543210",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Lead map[string]interface{} `json:"lead"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Lead["id"])
}

func TestLeadsEndpoint_DuplicateIs409(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)
	fix.mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rec := doJSON(t, fix.server.Router(), "POST", "/api/leads", map[string]interface{}{
		"name":  "Anjali Kumari",
		"phone": "9876543210",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DUPLICATE_LEAD", resp["code"])
}

func TestSearchEndpoint(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits":{"hits":[{"_score":3.1,"_source":{"institute":"P.M.C.H., PATNA","district":"Patna","branches":["G.N.M."]}}]}}`))
	})

	rec := doJSON(t, fix.server.Router(), "GET", "/api/colleges/search?q=pmch", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Institutes []map[string]interface{} `json:"institutes"`
		Meta       map[string]interface{}   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Institutes, 1)
	assert.Equal(t, "P.M.C.H., PATNA", resp.Institutes[0]["institute"])
	assert.Equal(t, true, resp.Institutes[0]["government"])
	assert.EqualValues(t, 1, resp.Meta["count"])
}

func TestSearchEndpoint_MissingQuery(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)

	rec := doJSON(t, fix.server.Router(), "GET", "/api/colleges/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowedCarriesUsage(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)

	rec := doJSON(t, fix.server.Router(), "GET", "/api/predict", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "GET not allowed")
	assert.Equal(t, "METHOD_NOT_ALLOWED", resp["code"])
	assert.Contains(t, resp["usage"], "POST /api/predict")
}

func TestMetricsEndpointExposed(t *testing.T) {
	fix := newServerFixture(t, groqOK("unused"), esEmpty)

	rec := doJSON(t, fix.server.Router(), "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
