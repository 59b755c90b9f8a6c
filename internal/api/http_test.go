package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landval/internal/domain"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *HTTP {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewHTTP(srv.URL+"/", srv.Client(), nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchOptions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /options", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{
			"cities": []string{"Austin", "Dallas"},
			"types":  []string{"House"},
			"neighborhood_mapping": map[string][]string{
				"Austin": {"Downtown", "Zilker"},
			},
		})
	})
	c := newTestClient(t, mux)

	opts, err := c.FetchOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Austin", "Dallas"}, opts.Cities)
	assert.Equal(t, []string{"House"}, opts.Types)
	assert.Equal(t, []string{"Downtown", "Zilker"}, opts.NeighborhoodMapping["Austin"])
}

func TestFetchMe_SendsBearer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"username": "ana", "email": "ana@example.com"})
	})
	c := newTestClient(t, mux)

	user, err := c.FetchMe(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, domain.User{Username: "ana", Email: "ana@example.com"}, user)

	_, err = c.FetchMe(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
	assert.Equal(t, "Could not validate credentials", DetailOf(err))
}

func TestExchangePassword_FormEncoded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") != "ana" || r.PostForm.Get("password") != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok-1", "token_type": "bearer"})
	})
	c := newTestClient(t, mux)

	grant, err := c.ExchangePassword(context.Background(), "ana", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", grant.AccessToken)
	assert.Equal(t, "bearer", grant.TokenType)

	_, err = c.ExchangePassword(context.Background(), "ana", "nope")
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", DetailOf(err))
}

func TestExchangeFederated_MissingTokenIsProtocolError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /google-login", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Credential string `json:"credential"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "id-token", in.Credential)
		writeJSON(w, http.StatusOK, map[string]string{"token_type": "bearer"})
	})
	c := newTestClient(t, mux)

	_, err := c.ExchangeFederated(context.Background(), "id-token")
	require.Error(t, err)
	assert.Equal(t, KindProtocol, KindOf(err))
}

func TestRegister_ValidationDetailList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{
				{"loc": []string{"body", "email"}, "msg": "value is not a valid email address"},
				{"loc": []string{"body", "password"}, "msg": "field required"},
			},
		})
	})
	c := newTestClient(t, mux)

	err := c.Register(context.Background(), domain.Registration{Username: "ana", Email: "bad"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "value is not a valid email address; field required", DetailOf(err))
}

func TestPredict_DecodesAndKeepsRaw(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		var sub domain.Submission
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, "Austin", sub.City)
		assert.Equal(t, 3, sub.Beds)
		writeJSON(w, http.StatusOK, map[string]any{
			"predicted_price": 412345.5,
			"formatted_price": "$412,346",
			"model":           "v2",
		})
	})
	c := newTestClient(t, mux)

	res, err := c.Predict(context.Background(), "tok-1", domain.Submission{City: "Austin", Beds: 3})
	require.NoError(t, err)
	assert.Equal(t, "$412,346", res.FormattedPrice)
	assert.InDelta(t, 412345.5, res.PredictedPrice, 0.001)
	assert.Contains(t, string(res.Raw), `"model":"v2"`)
}

func TestPredict_BusinessErrorDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Unknown neighborhood"})
	})
	c := newTestClient(t, mux)

	_, err := c.Predict(context.Background(), "tok-1", domain.Submission{})
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
	assert.Equal(t, KindValidation, re.Kind)
	assert.Equal(t, "Unknown neighborhood", re.Detail)
	assert.Contains(t, re.Error(), "http 400")
}

func TestOversizedErrorBodyHasNoDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": strings.Repeat("x", maxErrorBody)})
	})
	c := newTestClient(t, mux)

	_, err := c.Predict(context.Background(), "tok-1", domain.Submission{})
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindValidation, re.Kind)
	assert.Empty(t, re.Detail)
}

func TestReadLimited(t *testing.T) {
	body, truncated, err := readLimited(strings.NewReader("abcdef"), 6)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, "abcdef", string(body))

	body, truncated, err = readLimited(strings.NewReader("abcdefg"), 6)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, "abcdef", string(body))
}

func TestFetchHistory_EmptyIsNonNil(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})
	c := newTestClient(t, mux)

	entries, err := c.FetchHistory(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewHTTP(base, nil, nil)
	_, err := c.FetchOptions(context.Background())
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))
	assert.Empty(t, DetailOf(err))
}

func TestCanceledContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /options", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	c := newTestClient(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchOptions(ctx)
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtractDetail(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"detail":"Username already registered"}`, "Username already registered"},
		{"list", `{"detail":[{"msg":"a"},{"msg":"b"}]}`, "a; b"},
		{"object", `{"detail":{"msg":"nested"}}`, "nested"},
		{"message fallback", `{"message":"plain"}`, "plain"},
		{"not json", `<html>oops</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractDetail([]byte(tc.body)))
		})
	}
}
