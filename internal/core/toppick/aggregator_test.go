package toppick

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOperators_InitialAndApply(t *testing.T) {
	tests := []struct {
		name        string
		op          string
		incoming    decimal.Decimal
		current     decimal.Decimal
		next        decimal.Decimal
		wantInitial decimal.Decimal
		wantApply   decimal.Decimal
	}{
		{
			name:        "count ignores weight",
			op:          OpCount,
			incoming:    decimal.NewFromInt(123),
			current:     decimal.NewFromInt(9),
			next:        decimal.NewFromInt(456),
			wantInitial: decimal.NewFromInt(1),
			wantApply:   decimal.NewFromInt(10),
		},
		{
			name:        "count with zero weight",
			op:          OpCount,
			incoming:    decimal.Zero,
			current:     decimal.NewFromInt(1),
			next:        decimal.Zero,
			wantInitial: decimal.NewFromInt(1),
			wantApply:   decimal.NewFromInt(2),
		},
		{
			name:        "sum",
			op:          OpSum,
			incoming:    decimal.RequireFromString("0.99"),
			current:     decimal.RequireFromString("1.98"),
			next:        decimal.RequireFromString("0.99"),
			wantInitial: decimal.RequireFromString("0.99"),
			wantApply:   decimal.RequireFromString("2.97"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agg, ok := Operators[tc.op]
			require.True(t, ok)
			require.True(t, tc.wantInitial.Equal(agg.Initial(tc.incoming)))
			require.True(t, tc.wantApply.Equal(agg.Apply(tc.current, tc.next)))
		})
	}
}

func TestValidOperator(t *testing.T) {
	require.True(t, ValidOperator(OpCount))
	require.True(t, ValidOperator(OpSum))
	require.False(t, ValidOperator("max"))
	require.False(t, ValidOperator(""))
}
