package resolve_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/orders-analytics/internal/common"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/resolve"
)

func TestNew_PicksFirstPresentAlias(t *testing.T) {
	r := resolve.New([]string{"Customer_City", "City", "order_date", "payment_mode"}, nil)

	col, ok := r.Column(resolve.City)
	require.True(t, ok)
	assert.Equal(t, "City", col, "city outranks customer_city")

	col, ok = r.Column(resolve.PaymentMethod)
	require.True(t, ok)
	assert.Equal(t, "payment_mode", col)

	assert.False(t, r.Has(resolve.CustomerRating))
}

func TestNew_CaseAndWhitespaceInsensitive(t *testing.T) {
	r := resolve.New([]string{"  ORDER_DATE ", "Final_Amount_INR"}, nil)
	col, ok := r.Column(resolve.OrderDate)
	require.True(t, ok)
	assert.Equal(t, "  ORDER_DATE ", col)
	assert.True(t, r.Has(resolve.FinalAmount))
}

func TestValue_MissingColumnIsNil(t *testing.T) {
	r := resolve.New([]string{"order_date"}, nil)
	rec := entity.RawRecord{"order_date": "2024-01-02", "city": "Pune"}
	assert.Equal(t, "2024-01-02", r.Value(rec, resolve.OrderDate))
	assert.Nil(t, r.Value(rec, resolve.City), "city was not among the headers")
	assert.Equal(t, "", r.Text(rec, resolve.Brand))
}

func TestUnitPrice(t *testing.T) {
	amount := decimal.NewFromInt(1000)

	t.Run("derived from quantity", func(t *testing.T) {
		r := resolve.New([]string{"order_date", "quantity"}, nil)
		got := r.UnitPrice(entity.RawRecord{"quantity": "4"}, amount)
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromInt(250).Equal(got.Decimal))
	})

	t.Run("zero quantity is missing", func(t *testing.T) {
		r := resolve.New([]string{"order_date", "quantity"}, nil)
		got := r.UnitPrice(entity.RawRecord{"quantity": 0.0}, amount)
		assert.False(t, got.Valid)
	})

	t.Run("no quantity column is missing", func(t *testing.T) {
		r := resolve.New([]string{"order_date"}, nil)
		assert.False(t, r.UnitPrice(entity.RawRecord{}, amount).Valid)
	})

	t.Run("direct column wins", func(t *testing.T) {
		r := resolve.New([]string{"order_date", "unit_price_inr", "quantity"}, nil)
		got := r.UnitPrice(entity.RawRecord{"unit_price_inr": "₹300", "quantity": "4"}, amount)
		require.True(t, got.Valid)
		assert.True(t, decimal.NewFromInt(300).Equal(got.Decimal))
	})
}

func TestValidate(t *testing.T) {
	err := resolve.New([]string{"final_amount_inr", "city"}, nil).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingColumn))
	assert.True(t, common.IsBatchFatal(err))

	assert.NoError(t, resolve.New([]string{"purchase_date"}, nil).Validate())
}

func TestMissing(t *testing.T) {
	r := resolve.New([]string{"order_date", "final_amount_inr"}, nil)
	missing := r.Missing()
	assert.NotContains(t, missing, resolve.OrderDate)
	assert.NotContains(t, missing, resolve.FinalAmount)
	assert.Contains(t, missing, resolve.City)
	assert.Len(t, missing, len(resolve.Fields())-2)
}

func TestMerge_PrependsOverrides(t *testing.T) {
	merged := resolve.DefaultAliases().Merge(resolve.Aliases{
		resolve.City: {"town", "CITY"},
	})
	assert.Equal(t, []string{"town", "CITY", "customer_city"}, merged[resolve.City])
	assert.Equal(t, resolve.DefaultAliases()[resolve.Brand], merged[resolve.Brand])

	r := resolve.New([]string{"order_date", "city", "town"}, merged)
	col, _ := r.Column(resolve.City)
	assert.Equal(t, "town", col)
}

func TestIsField(t *testing.T) {
	for _, f := range resolve.Fields() {
		assert.True(t, resolve.IsField(string(f)), f)
	}
	assert.False(t, resolve.IsField("shipping_zone"))
	assert.False(t, resolve.IsField("City"), "field names are exact")
}

func TestParseAliases(t *testing.T) {
	got, err := resolve.ParseAliases([]byte("city:\n  - town\n  - locality\nquantity: [units]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"town", "locality"}, got[resolve.City])
	assert.Equal(t, []string{"units"}, got[resolve.Quantity])

	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "shipping_zone: [zone]\n"},
		{"empty list", "city: []\n"},
		{"not a list", "city: town\n"},
		{"duplicate alias", "city: [town, Town]\n"},
		{"bad yaml", "city: [town\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve.ParseAliases([]byte(tt.doc))
			require.Error(t, err)
			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, common.CodeAliasesFile, appErr.Code)
		})
	}
}

func TestLoadAliases(t *testing.T) {
	defaults, err := resolve.LoadAliases("")
	require.NoError(t, err)
	assert.Equal(t, resolve.DefaultAliases(), defaults)

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("order_date: [txn_date]\n"), 0o600))
	got, err := resolve.LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, "txn_date", got[resolve.OrderDate][0])

	_, err = resolve.LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
