package preprocessor

import (
	"github.com/relauto/engine/core"
	"github.com/relauto/engine/series"
)

func newStringSeries(name string, vals []any) *series.Series[any] {
	return series.New(name, vals, core.DtypeString)
}

func newFloatSeries(name string, vals []any) *series.Series[any] {
	return series.New(name, vals, core.DtypeFloat64)
}
