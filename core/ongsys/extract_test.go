package ongsys

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL:  srv.URL,
		Username: "user",
		Password: "pass",
		MaxPages: 50,
	}, zap.NewNop())
	return client, srv
}

func pageParam(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchAll_StopsOnEmptyPage(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "user", user)
		require.Equal(t, "pass", pass)

		switch pageParam(r) {
		case 1:
			writeJSON(w, map[string]any{"data": []map[string]any{
				{"id": 1, "nomeProduto": "Arroz"},
				{"id": 2, "nomeProduto": "Feijão"},
			}})
		default:
			writeJSON(w, map[string]any{"data": []map[string]any{}})
		}
	})

	out := client.FetchAll(context.Background(), "/produtos", func(r Record) string {
		return r.String("id")
	})

	assert.Equal(t, 2, calls)
	assert.Len(t, out.Records, 2)
	assert.False(t, out.Truncated)
	assert.Equal(t, "Arroz", out.Records[0].String("nomeProduto"))
}

func TestFetchAll_StopsOn422Sentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if pageParam(r) > 1 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, map[string]any{"data": []map[string]any{{"id": 10}}})
	})

	out := client.FetchAll(context.Background(), "/pedidos", func(r Record) string {
		return r.String("id")
	})

	assert.Len(t, out.Records, 1)
	assert.False(t, out.Truncated)
}

func TestFetchAll_StopsOnNoMoreRecordsPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if pageParam(r) > 1 {
			writeJSON(w, map[string]any{"error": "Nenhum registro encontrado"})
			return
		}
		writeJSON(w, map[string]any{"data": []map[string]any{{"id": 1}}})
	})

	out := client.FetchAll(context.Background(), "/fornecedores", nil)
	assert.Len(t, out.Records, 1)
	assert.False(t, out.Truncated)
}

func TestFetchAll_StopsOnDeclaredTotal(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, map[string]any{
			"totalRecords": 2,
			"data": []map[string]any{
				{"id": pageParam(r)},
				{"id": pageParam(r) + 100},
			},
		})
	})

	out := client.FetchAll(context.Background(), "/produtos", func(r Record) string {
		return r.String("id")
	})

	assert.Equal(t, 1, calls)
	assert.Len(t, out.Records, 2)
	assert.Equal(t, 2, out.Declared)
}

func TestFetchAll_DeduplicatesAcrossPages(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch pageParam(r) {
		case 1:
			writeJSON(w, map[string]any{"data": []map[string]any{{"id": 1}, {"id": 2}}})
		case 2:
			// Overlapping page repeats id 2.
			writeJSON(w, map[string]any{"data": []map[string]any{{"id": 2}, {"id": 3}}})
		default:
			writeJSON(w, map[string]any{"data": []map[string]any{}})
		}
	})

	out := client.FetchAll(context.Background(), "/produtos", func(r Record) string {
		return r.String("id")
	})

	require.Len(t, out.Records, 3)
	keys := []string{}
	for _, rec := range out.Records {
		keys = append(keys, rec.String("id"))
	}
	assert.Equal(t, []string{"1", "2", "3"}, keys)
}

func TestFetchAll_PartialBatchOnServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if pageParam(r) > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
			return
		}
		writeJSON(w, map[string]any{"data": []map[string]any{{"id": 1}}})
	})

	out := client.FetchAll(context.Background(), "/produtos", func(r Record) string {
		return r.String("id")
	})

	assert.Len(t, out.Records, 1)
	assert.True(t, out.Truncated)
}

func TestFetchAll_HardPageCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never signals completion.
		writeJSON(w, map[string]any{"data": []map[string]any{
			{"id": fmt.Sprintf("p%d", pageParam(r))},
		}})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, MaxPages: 3}, zap.NewNop())
	out := client.FetchAll(context.Background(), "/produtos", func(r Record) string {
		return r.String("id")
	})

	assert.Equal(t, 3, out.Pages)
	assert.Len(t, out.Records, 3)
}

func TestRecordAccessors(t *testing.T) {
	rec := Record{
		"nomeEmpresa": "  ACME  ",
		"razaoSocial": "ACME LTDA",
		"status":      " Inativo ",
		"valor":       float64(12),
		"fornecedor":  map[string]any{"nome": "Fulano"},
		"itensPedido": []any{
			map[string]any{"idProduto": 7},
			"not-an-object",
		},
	}

	assert.Equal(t, "ACME", rec.String("nomeEmpresa"))
	assert.Equal(t, "12", rec.String("valor"))
	assert.Equal(t, "ACME", rec.FirstString("nomeEmpresa", "razaoSocial"))
	assert.Equal(t, "ACME LTDA", rec.FirstString("missing", "razaoSocial"))
	assert.Equal(t, "inativo", rec.Status())
	assert.Equal(t, "Fulano", rec.Child("fornecedor").String("nome"))
	require.Len(t, rec.Children("itensPedido"), 1)
	assert.Nil(t, rec.Child("missing"))
}
