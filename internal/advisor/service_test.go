// internal/advisor/service_test.go
package advisor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"nursing-predictor/internal/common/config"
	"nursing-predictor/internal/common/database"
	commonerrors "nursing-predictor/internal/common/errors"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/models"
	"nursing-predictor/internal/predictor"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	service   *Service
	mock      sqlmock.Sqlmock
	groqCalls *int32
}

func newTestFixture(t *testing.T, groqHandler http.HandlerFunc) *testFixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		groqHandler(w, r)
	}))
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)
	redisClient, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	predCfg := &predictor.Config{
		DefaultYear:  2025,
		MaxResults:   50,
		MaxRank:      100000,
		HighMargin:   0.30,
		GoodMargin:   0.15,
		MediumMargin: 0.05,
		QueryTimeout: 2 * time.Second,
	}
	log := logger.NewTestLogger(t)
	pred := predictor.NewService(predCfg, db, log)

	advCfg := createGeneratorConfig(server.URL)
	advCfg.CacheTTL = time.Minute
	gen := NewGenerator(advCfg, log)

	return &testFixture{
		service:   NewService(advCfg, pred, gen, redisClient, log),
		mock:      mock,
		groqCalls: &calls,
	}
}

func adviceRequest() *Request {
	return &Request{
		Request: predictor.Request{
			Rank:     5000,
			Category: "UR",
			ExamType: "DCECE_PM",
		},
	}
}

func expectCutoffQuery(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM nursing_cutoffs`).
		WillReturnRows(sqlmock.NewRows([]string{"institute", "branch", "opening_rank", "closing_rank", "category"}).
			AddRow("G.N.M. SCHOOL, GAYA", "G.N.M.", 1200, 9000, "UR").
			AddRow("DISTRICT ANM SCHOOL SIWAN", "A.N.M.", 800, 12000, "UR"))
}

func TestAdvise_GeneratedText(t *testing.T) {
	fix := newTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletionBody("Your rank gives you good options in government GNM schools. Prioritise the top of the list.")))
	})
	expectCutoffQuery(fix.mock)

	result, err := fix.service.Advise(context.Background(), adviceRequest())
	require.NoError(t, err)

	assert.Equal(t, "groq", result.Meta.Provider)
	assert.Equal(t, 5000, result.Meta.QueryRank)
	assert.Equal(t, "UR", result.Meta.QueryCategory)
	assert.Equal(t, 2, result.Meta.CollegesCount)
	assert.Contains(t, result.AIExplanation, "government GNM schools")
}

func TestAdvise_FallbackOnGenerationFailure(t *testing.T) {
	fix := newTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	expectCutoffQuery(fix.mock)

	result, err := fix.service.Advise(context.Background(), adviceRequest())
	require.NoError(t, err)

	assert.Equal(t, "fallback", result.Meta.Provider)
	assert.Contains(t, result.AIExplanation, "rank 5000")
	assert.Contains(t, result.AIExplanation, "UR category")
	assert.Contains(t, result.AIExplanation, "2 colleges")
	assert.Contains(t, result.AIExplanation, "ANM")
}

func TestAdvise_FallbackWhenNoColleges(t *testing.T) {
	fix := newTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	fix.mock.ExpectQuery(`FROM nursing_cutoffs`).
		WillReturnRows(sqlmock.NewRows([]string{"institute", "branch", "opening_rank", "closing_rank", "category"}))

	result, err := fix.service.Advise(context.Background(), adviceRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Meta.CollegesCount)
	assert.Contains(t, result.AIExplanation, "no college")
	assert.Contains(t, result.AIExplanation, "counselling")
}

func TestAdvise_SuppliedCollegesSkipStore(t *testing.T) {
	fix := newTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletionBody("The GNM seat on your list is a strong bet.")))
	})
	// No cutoff query is expected; any store access fails the test.

	req := adviceRequest()
	req.Colleges = []models.CollegeResult{
		{Institute: "G.N.M. SCHOOL, GAYA", Branch: "G.N.M.", ClosingRank: 9000, Chance: "high"},
		{Institute: "DISTRICT ANM SCHOOL SIWAN", Branch: "A.N.M.", ClosingRank: 12000, Chance: "good"},
	}

	result, err := fix.service.Advise(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "groq", result.Meta.Provider)
	assert.Equal(t, 2, result.Meta.CollegesCount)
	assert.Contains(t, result.AIExplanation, "GNM seat")
	assert.NoError(t, fix.mock.ExpectationsWereMet())
}

func TestAdvise_SuppliedCollegesStillValidated(t *testing.T) {
	fix := newTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletionBody("unused")))
	})

	req := adviceRequest()
	req.Category = "GEN"
	req.Colleges = []models.CollegeResult{{Institute: "G.N.M. SCHOOL, GAYA"}}

	result, err := fix.service.Advise(context.Background(), req)
	assert.Nil(t, result)
	require.Error(t, err)

	se, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, se.Code)
}

func TestGenerationErrorClassification(t *testing.T) {
	se := generationError(ErrGenerationTimeout)
	assert.Equal(t, commonerrors.ErrCodeGenerationTimeout, se.Code)
	assert.False(t, se.Retryable)

	se = generationError(fmt.Errorf("%w: status 500", ErrGenerationFailed))
	assert.Equal(t, commonerrors.ErrCodeGenerationFailed, se.Code)

	// Generation failures never change the response status.
	assert.Equal(t, http.StatusOK, commonerrors.HTTPStatus(commonerrors.ErrCodeGenerationTimeout))
	assert.Equal(t, http.StatusOK, commonerrors.HTTPStatus(commonerrors.ErrCodeGenerationFailed))
}

func TestAdvise_SecondCallServedFromCache(t *testing.T) {
	fix := newTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletionBody("Cached advice text.")))
	})
	// The prediction still runs per request, only the advice text is cached.
	expectCutoffQuery(fix.mock)
	expectCutoffQuery(fix.mock)

	first, err := fix.service.Advise(context.Background(), adviceRequest())
	require.NoError(t, err)

	second, err := fix.service.Advise(context.Background(), adviceRequest())
	require.NoError(t, err)

	assert.Equal(t, first.AIExplanation, second.AIExplanation)
	assert.Equal(t, int32(1), atomic.LoadInt32(fix.groqCalls))
}

func TestAdvise_WordLimitEnforced(t *testing.T) {
	long := strings.Repeat("word ", 400)
	fix := newTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletionBody(long)))
	})
	expectCutoffQuery(fix.mock)

	result, err := fix.service.Advise(context.Background(), adviceRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(result.AIExplanation, "..."))
	assert.Len(t, strings.Fields(result.AIExplanation), 154)
}

func TestAdvise_PredictionErrorPropagates(t *testing.T) {
	fix := newTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletionBody("unused")))
	})

	req := adviceRequest()
	req.Category = "GEN"

	result, err := fix.service.Advise(context.Background(), req)
	assert.Nil(t, result)
	require.Error(t, err)

	se, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, se.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(fix.groqCalls))
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "under limit unchanged", text: "one two three", limit: 5, want: "one two three"},
		{name: "exactly at limit unchanged", text: "one two three", limit: 3, want: "one two three"},
		{name: "over limit truncated", text: "one two three four", limit: 2, want: "one two..."},
		{name: "empty text", text: "", limit: 10, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateWords(tt.text, tt.limit))
		})
	}
}
