package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iwilltry42/addrmatch/pkg/grammar"
	"github.com/iwilltry42/addrmatch/pkg/metrics"
	"github.com/iwilltry42/addrmatch/pkg/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noMatchAddress = "Grand Boulevard at Lakeview Avenue Chicago IL"

func newTestServer(t *testing.T, cfg types.Config) *httptest.Server {
	t.Helper()
	registry, err := grammar.NewDefaultRegistry()
	require.NoError(t, err)
	srv := httptest.NewServer(NewServer(registry, cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestParseSingle(t *testing.T) {
	srv := newTestServer(t, types.Config{})

	resp := post(t, srv.URL+PathParse, ParseRequest{Address: "123 Main St, Westminster, CO 80020"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ParseResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Matched)
	assert.Equal(t, "address", got.Rule)
	assert.Equal(t, []string{"number", "street", "city", "state", "zip"}, got.Captures.Keys())
	zip, ok := got.Captures.Get("zip")
	assert.True(t, ok)
	assert.Equal(t, "80020", zip)
}

func TestParseNoMatch(t *testing.T) {
	srv := newTestServer(t, types.Config{})

	resp := post(t, srv.URL+PathParse, ParseRequest{Address: noMatchAddress})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var got ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "no match", got.Error)
}

func TestParseWithRule(t *testing.T) {
	srv := newTestServer(t, types.Config{})

	resp := post(t, srv.URL+PathParse, ParseRequest{Address: "123 Main St", Rule: "intersection"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = post(t, srv.URL+PathParse, ParseRequest{Address: "123 Main St", Rule: "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestParseBadRequests(t *testing.T) {
	srv := newTestServer(t, types.Config{})

	resp := post(t, srv.URL+PathParse, ParseRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv.URL+PathParse, map[string]string{"street": "Main St"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	getResp, err := http.Get(srv.URL + PathParse)
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, getResp.StatusCode)
}

func TestParseBatch(t *testing.T) {
	srv := newTestServer(t, types.Config{Workers: 2})

	addresses := []string{
		"45 Lakeview Ave, Chicago, IL",
		noMatchAddress,
		"Grand Blvd & Lakeview Ave, Chicago, IL",
	}
	resp := post(t, srv.URL+PathParse, ParseRequest{Addresses: addresses})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ParseBatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Results, 3)
	for i, res := range got.Results {
		assert.Equal(t, addresses[i], res.Input)
	}
	assert.Equal(t, "address", got.Results[0].Rule)
	assert.False(t, got.Results[1].Matched)
	assert.Nil(t, got.Results[1].Captures)
	assert.Equal(t, "intersection", got.Results[2].Rule)
}

func TestParseBatchLimit(t *testing.T) {
	srv := newTestServer(t, types.Config{Server: types.ServerConfig{MaxBatch: 2}})

	resp := post(t, srv.URL+PathParse, ParseRequest{Addresses: []string{"1 A St", "2 B St", "3 C St"}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestMatch(t *testing.T) {
	srv := newTestServer(t, types.Config{})

	tests := []struct {
		name     string
		req      MatchRequest
		wantCode int
		want     map[string]string
		matched  bool
	}{
		{
			name:     "house and street",
			req:      MatchRequest{Pattern: `(?<house>\d+)\s+(?<street>\w+ St)`, Subject: "123 Main St"},
			wantCode: http.StatusOK,
			want:     map[string]string{"house": "123", "street": "Main St"},
			matched:  true,
		},
		{
			name:     "backtrack engine",
			req:      MatchRequest{Pattern: `(?<word>\w+)(?=!)`, Subject: "hey there!", Engine: "backtrack"},
			wantCode: http.StatusOK,
			want:     map[string]string{"word": "there"},
			matched:  true,
		},
		{
			name:     "no match",
			req:      MatchRequest{Pattern: `(?<digits>\d+)`, Subject: "abc"},
			wantCode: http.StatusOK,
		},
		{
			name:     "invalid pattern",
			req:      MatchRequest{Pattern: `(?<open>abc`, Subject: "abc"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown engine",
			req:      MatchRequest{Pattern: `a`, Subject: "a", Engine: "perl"},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+PathMatch, tt.req)
			require.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantCode != http.StatusOK {
				return
			}
			var got MatchResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.matched, got.Matched)
			if tt.matched {
				assert.Equal(t, tt.want, got.Captures.ToMap())
			} else {
				assert.Nil(t, got.Captures)
			}
		})
	}
}

func TestRulesAndHealth(t *testing.T) {
	srv := newTestServer(t, types.Config{})

	resp, err := http.Get(srv.URL + PathRules)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rules []RuleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rules))
	require.Len(t, rules, 3)
	assert.Equal(t, "address", rules[0].Name)
	assert.Equal(t, "re2", rules[0].Engine)
	assert.Equal(t, []string{"number", "street", "city", "state", "zip"}, rules[0].Groups)

	health, err := http.Get(srv.URL + PathHealth)
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestRequestMetrics(t *testing.T) {
	srv := newTestServer(t, types.Config{})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(PathParse, metrics.CodeGroup4xx.Name)
	before := testutil.ToFloat64(counter)
	post(t, srv.URL+PathParse, ParseRequest{Address: noMatchAddress})
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	resp, err := http.Get(srv.URL + PathMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth(t *testing.T) {
	auth := types.AuthConfig{Secret: "s3cr3t", Issuer: "addrmatch"}
	srv := newTestServer(t, types.Config{Auth: auth})
	body, err := json.Marshal(ParseRequest{Address: "123 Main St"})
	require.NoError(t, err)

	do := func(token string) int {
		req, err := http.NewRequest(http.MethodPost, srv.URL+PathParse, bytes.NewReader(body))
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("not-a-jwt"))

	wrongSecret, err := GenerateToken("other", "addrmatch", "tester", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(wrongSecret))

	wrongIssuer, err := GenerateToken(auth.Secret, "someone-else", "tester", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(wrongIssuer))

	expired, err := GenerateToken(auth.Secret, auth.Issuer, "tester", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(expired))

	valid, err := GenerateToken(auth.Secret, auth.Issuer, "tester", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(valid))

	// health and metrics stay open
	resp, err := http.Get(srv.URL + PathHealth)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	_, err := GenerateToken("", "addrmatch", "tester", time.Minute)
	assert.Error(t, err)
}

func TestListenAndServeShutdown(t *testing.T) {
	registry, err := grammar.NewDefaultRegistry()
	require.NoError(t, err)
	s := NewServer(registry, types.Config{Server: types.ServerConfig{ListenAddress: "127.0.0.1:0"}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
