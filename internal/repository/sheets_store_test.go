package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/sjperalta/billing-api/internal/models"
)

// fakeSheets serves the handful of Sheets v4 endpoints the store uses,
// backed by an in-memory grid.
type fakeSheets struct {
	mu      sync.Mutex
	title   string
	values  [][]interface{}
	cleared int
	fail    bool
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		http.Error(w, `{"error":{"code":500,"message":"backend unavailable"}}`, http.StatusInternalServerError)
		return
	}

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && !strings.Contains(path, "/values/"):
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sheets": []interface{}{
				map[string]interface{}{"properties": map[string]interface{}{"title": f.title}},
			},
		})
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"values": f.values})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.values = nil
		f.cleared++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	case r.Method == http.MethodPut:
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.values = body.Values
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	default:
		http.NotFound(w, r)
	}
}

func newFakeSheetsStore(t *testing.T, fake *fakeSheets) *SheetsStore {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewSheetsStore(context.Background(), "sheet-id", "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return store
}

func TestSheetsStore_SaveAndLoad(t *testing.T) {
	fake := &fakeSheets{title: "Billing"}
	store := newFakeSheetsStore(t, fake)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, models.Table{sampleRecord()}))
	assert.Equal(t, 1, fake.cleared)
	require.Len(t, fake.values, 2)
	assert.Equal(t, "Receipt No.", fake.values[0][0])
	assert.Equal(t, "R001", fake.values[1][0])
	assert.Equal(t, "", fake.values[1][11], "empty 2nd payment date is written as an empty string")

	table, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "Asha Kumar", table[0].CustomerName)
	assert.Equal(t, "550.00", table[0].Balance.StringFixed(2))
}

func TestSheetsStore_LoadEmptySheet(t *testing.T) {
	store := newFakeSheetsStore(t, &fakeSheets{title: "Sheet1"})

	table, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, table)
	assert.Empty(t, table)
}

func TestSheetsStore_BackendFailure(t *testing.T) {
	fake := &fakeSheets{title: "Sheet1", fail: true}
	store := newFakeSheetsStore(t, fake)
	ctx := context.Background()

	table, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrStoreIO)
	assert.NotNil(t, table)
	assert.Empty(t, table)

	err = store.Save(ctx, models.Table{sampleRecord()})
	assert.ErrorIs(t, err, ErrStoreIO)
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'Sheet1'", quoteSheet("Sheet1"))
	assert.Equal(t, "'Bob''s bills'", quoteSheet("Bob's bills"))
}
