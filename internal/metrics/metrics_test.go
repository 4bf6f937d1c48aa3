package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	c := New()

	router := mux.NewRouter()
	router.Use(c.Middleware)
	router.HandleFunc("/api/pessoa/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pessoa/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	got := testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/pessoa/{id}", "404"))
	assert.Equal(t, float64(2), got)
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestRecordersAndHandler(t *testing.T) {
	c := New()
	c.RecordLogin("success")
	c.RecordLogin("invalid")
	c.RecordLogin("invalid")
	c.RecordUpload("pessoa", true)
	c.RecordUpload("evento", false)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.logins.WithLabelValues("invalid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.uploads.WithLabelValues("evento", "error")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "cadastro_auth_logins_total"))
}

func TestNilCollectorsIgnoreRecords(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.RecordLogin("success")
		c.RecordUpload("pessoa", true)
	})
}
