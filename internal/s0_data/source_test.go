package s0_data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/pkg/config"
	"github.com/wonny/qscreen/pkg/httputil"
	"github.com/wonny/qscreen/pkg/logger"
	"github.com/wonny/qscreen/pkg/metrics"
)

const sampleCSV = `Stock Name,NSE Code,ISIN,Market Capitalization,PE TTM Price to Earnings,ROE Annual %,Revenue Growth Annual YoY %,Sector
Alpha Ltd,ALPHA,INE000A01001,"12,500",18.5,22,15%,Banks
Beta Ltd,BETA,INE000B01001,900,-,NA,8,Software
,,,,,,,
Gamma Ltd,GAMMA,,450,41,9,3,Banks
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_CSV(t *testing.T) {
	path := writeFile(t, "stocks.csv", sampleCSV)
	src := NewFileSource(path, "", logger.NewNop())

	recs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "file:stocks.csv", src.Name())
	assert.Equal(t, "ALPHA", recs[0].Symbol)
	require.NotNil(t, recs[0].MarketCap)
	assert.InDelta(t, 12500, *recs[0].MarketCap, 1e-9)
	require.NotNil(t, recs[0].RevenueGrowth)
	assert.InDelta(t, 15, *recs[0].RevenueGrowth, 1e-9)
	assert.Nil(t, recs[1].PETTM)
	assert.Nil(t, recs[1].ROE)
	assert.Equal(t, "Banks", recs[2].Sector)
}

func TestFileSource_HTMLByExtension(t *testing.T) {
	html := `<table>
		<tr><th>Stock Name</th><th>NSE Code</th><th>ROE</th></tr>
		<tr><td>Alpha</td><td>ALPHA</td><td>15.5</td></tr>
	</table>`
	path := writeFile(t, "stocks.html", html)

	recs, err := NewFileSource(path, "", logger.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].ROE)
	assert.InDelta(t, 15.5, *recs[0].ROE, 1e-9)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource("/nonexistent/stocks.csv", FormatCSV, logger.NewNop()).Load(context.Background())
	assert.Error(t, err)
}

func TestFileSource_UnknownHeader(t *testing.T) {
	path := writeFile(t, "bad.csv", "foo,bar\n1,2\n")

	_, err := NewFileSource(path, FormatCSV, logger.NewNop()).Load(context.Background())
	assert.ErrorIs(t, err, ErrNoColumns)
}

func testHTTPClient() *httputil.Client {
	cfg := &config.Config{Data: config.DataConfig{RequestTimeout: 5 * time.Second}}
	return httputil.New(cfg, logger.NewNop()).DisableRetry()
}

func TestHTTPSource_Load(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, FormatCSV, testHTTPClient(), DefaultBreakerConfig(), nil, logger.NewNop())

	recs, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	assert.Equal(t, "closed", src.BreakerState())
}

func TestHTTPSource_BreakerOpens(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := metrics.New(prometheus.NewRegistry())
	cfg := BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, MinRequests: 3}
	src := NewHTTPSource(server.URL, FormatCSV, testHTTPClient(), cfg, m, logger.NewNop())

	for i := 0; i < 3; i++ {
		_, err := src.Load(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSourceUnavailable)
	}

	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Equal(t, "open", src.BreakerState())
}
