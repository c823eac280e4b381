package countries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"country-insight-go/internal/config"
	"country-insight-go/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.Init("error", "console", "")
	os.Exit(m.Run())
}

const francePayload = `[{
	"name": {"common": "France", "official": "French Republic"},
	"capital": ["Paris"],
	"region": "Europe",
	"subregion": "Western Europe",
	"population": 67391582,
	"area": 551695.0,
	"languages": {"fra": "French"},
	"currencies": {"EUR": {"name": "Euro", "symbol": "€"}},
	"flag": "🇫🇷",
	"flags": {"png": "https://flagcdn.com/w320/fr.png"}
}]`

func newTestClient(baseURL string) *Client {
	return NewClient(config.CountriesConfig{BaseURL: baseURL, TimeoutSeconds: 2})
}

func TestFetchNormalizesCountry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/name/France", r.URL.Path)
		w.Write([]byte(francePayload))
	}))
	defer srv.Close()

	record, found := newTestClient(srv.URL).Fetch(context.Background(), "France")
	require.True(t, found)
	assert.Equal(t, "France", record.CommonName)
	assert.Equal(t, "French Republic", record.OfficialName)
	assert.Equal(t, "Paris", record.Capital)
	assert.Equal(t, "Europe", record.Region)
	assert.Equal(t, "Western Europe", record.Subregion)
	assert.Equal(t, int64(67391582), record.Population)
	assert.Equal(t, 551695.0, record.Area)
	assert.Equal(t, []string{"French"}, record.Languages)
	assert.Equal(t, []string{"EUR"}, record.Currencies)
	assert.Equal(t, "https://flagcdn.com/w320/fr.png", record.Flag)
}

func TestFetchSubstitutesPlaceholders(t *testing.T) {
	// capital/languages/currencies/subregion 全部缺失
	payload := `[{"name": {"common": "Atlantis"}, "region": "", "population": 1000, "area": 12.5}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	record, found := newTestClient(srv.URL).Fetch(context.Background(), "Atlantis")
	require.True(t, found)
	assert.Equal(t, "Unknown", record.Capital)
	assert.Equal(t, "Unknown", record.Region)
	assert.Equal(t, "Unknown", record.Subregion)
	assert.Equal(t, "Atlantis", record.OfficialName)
	require.NotNil(t, record.Languages)
	assert.Empty(t, record.Languages)
	require.NotNil(t, record.Currencies)
	assert.Empty(t, record.Currencies)
}

func TestFetchPreservesObjectOrder(t *testing.T) {
	payload := `[{
		"name": {"common": "India", "official": "Republic of India"},
		"languages": {"hin": "Hindi", "eng": "English", "tam": "Tamil"},
		"currencies": {"INR": {"name": "Indian rupee"}, "USD": {"name": "US dollar"}}
	}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	record, found := newTestClient(srv.URL).Fetch(context.Background(), "India")
	require.True(t, found)
	assert.Equal(t, []string{"Hindi", "English", "Tamil"}, record.Languages)
	assert.Equal(t, []string{"INR", "USD"}, record.Currencies)
}

func TestFetchSkipsNonStringLanguageValues(t *testing.T) {
	// 个别语言 value 不是字符串时只跳过该键，整条记录照常归一化
	payload := `[{
		"name": {"common": "Mixed"},
		"languages": {"a": 1, "b": "Bee", "c": "Cee"},
		"currencies": {"XXX": {"name": "Test"}, "YYY": 0}
	}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	record, found := newTestClient(srv.URL).Fetch(context.Background(), "Mixed")
	require.True(t, found)
	assert.Equal(t, []string{"Bee", "Cee"}, record.Languages)
	assert.Equal(t, []string{"XXX", "YYY"}, record.Currencies)
}

func TestFetchBlankInputSkipsNetwork(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(francePayload))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	for _, name := range []string{"", "   ", "\t"} {
		_, found := client.Fetch(context.Background(), name)
		assert.False(t, found)
	}
	assert.Equal(t, 0, calls)
}

func TestFetchAbsentOnErrorStatusAndEmptyResult(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"empty array", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[]`)) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{oops`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, found := newTestClient(srv.URL).Fetch(context.Background(), "France")
			assert.False(t, found)
		})
	}
}

func TestFetchAllLiveTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/all", r.URL.Path)
		w.Write([]byte(francePayload))
	}))
	defer srv.Close()

	records, source := newTestClient(srv.URL).FetchAll(context.Background())
	assert.Equal(t, SourceLive, source)
	require.Len(t, records, 1)
	assert.Equal(t, "France", records[0].CommonName)
}

func TestFetchAllFallsBackToRegions(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/region/europe":
			w.Write([]byte(francePayload))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	records, source := newTestClient(srv.URL).FetchAll(context.Background())
	assert.Equal(t, SourceRegions, source)
	require.Len(t, records, 1)
	assert.Equal(t, "France", records[0].CommonName)

	// /all 之后每个大区都被尝试了一次；任一大区成功则不得使用样本数据
	assert.Equal(t, []string{
		"/all",
		"/region/africa",
		"/region/americas",
		"/region/asia",
		"/region/europe",
		"/region/oceania",
	}, paths)
}

func TestFetchAllFallsBackToSample(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	records, source := newTestClient(srv.URL).FetchAll(context.Background())
	assert.Equal(t, SourceSample, source)
	assert.Len(t, records, 10)
	assert.Len(t, paths, 6) // /all + 5 个大区，每级各尝试一次
}
