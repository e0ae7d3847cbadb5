package gota

import (
	"context"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/dtimpute/pkg/impute"
	"github.com/wdm0006/dtimpute/pkg/table"
)

const sample = `n,x,s,b
1,1.5,a,true
NaN,NaN,NaN,false
3,2.5,a,NaN
`

func TestFromDataFrame(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader(sample))
	require.NoError(t, df.Err)

	f, err := FromDataFrame(df)
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "x", "s", "b"}, table.ColumnNames(f))
	assert.Equal(t, table.KindInt, f.ColumnKind(0))
	assert.Equal(t, table.KindFloat, f.ColumnKind(1))
	assert.Equal(t, table.KindString, f.ColumnKind(2))
	assert.Equal(t, table.KindBool, f.ColumnKind(3))
	for j := 0; j < 3; j++ {
		assert.True(t, f.Column(j).IsNull(1), "column %d", j)
	}
	assert.True(t, f.Column(3).IsNull(2))
	assert.Equal(t, int64(3), f.At(2, 0))
}

func TestImputeRoundTrip(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader(sample))
	f, err := FromDataFrame(df)
	require.NoError(t, err)

	out, err := impute.New(impute.Config{Strategy: impute.MostFrequent}).Apply(context.Background(), f)
	require.NoError(t, err)

	back := ToDataFrame(out)
	require.NoError(t, back.Err)
	assert.Equal(t, 3, back.Nrow())
	assert.Equal(t, "-1", back.Col("s").Elem(1).String())
	assert.Equal(t, 1.5, back.Col("x").Elem(1).Float())
	assert.False(t, back.Col("n").Elem(1).IsNA())
}
