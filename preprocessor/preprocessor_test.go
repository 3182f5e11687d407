package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/schema"
)

func dummyDep() fingerprint.Fingerprint {
	return fingerprint.OrdinaryDataFrame("t", "0")
}

func TestEMailDomainDropsLowCardinalityColumn(t *testing.T) {
	df, err := dataframe.New(map[string]any{
		"addr": []string{"a@x.com", "b@x.com", "c@x.com"},
	})
	require.NoError(t, err)
	df.SetRole("addr", schema.RoleText.String())
	df.AddSubrole("addr", string(schema.SubroleEMail))

	p := NewEMailDomain(dummyDep())
	require.NoError(t, p.Fit(df))
	out, err := p.Transform(df)
	require.NoError(t, err)

	require.False(t, out.HasColumn("email_domain(addr)"), "single-domain column should be dropped")
}

func TestEMailDomainKeepsMultiDomainColumn(t *testing.T) {
	df, err := dataframe.New(map[string]any{
		"addr": []string{"a@x.com", "b@y.com", "c@x.com"},
	})
	require.NoError(t, err)
	df.SetRole("addr", schema.RoleText.String())
	df.AddSubrole("addr", string(schema.SubroleEMail))

	p := NewEMailDomain(dummyDep())
	require.NoError(t, p.Fit(df))
	out, err := p.Transform(df)
	require.NoError(t, err)

	require.True(t, out.HasColumn("email_domain(addr)"))
	col, err := out.Column("email_domain(addr)")
	require.NoError(t, err)
	require.Equal(t, 3, col.Len())
}

func TestEMailDomainRespectsExcludeSubrole(t *testing.T) {
	df, err := dataframe.New(map[string]any{
		"addr": []string{"a@x.com", "b@y.com"},
	})
	require.NoError(t, err)
	df.SetRole("addr", schema.RoleText.String())
	df.AddSubrole("addr", string(schema.SubroleEMail))
	df.AddSubrole("addr", string(schema.SubroleExcludePreprocessors))

	p := NewEMailDomain(dummyDep())
	require.NoError(t, p.Fit(df))
	require.Empty(t, p.columns)
}

func TestImputationFillsNullsWithMean(t *testing.T) {
	df, err := dataframe.New(map[string]any{
		"amount": []float64{10, 20, 30},
	})
	require.NoError(t, err)

	p := NewImputation(dummyDep(), ImputeMean, []string{"amount"})
	require.NoError(t, p.Fit(df))
	require.InDelta(t, 20.0, p.fillValue["amount"], 1e-9)

	out, err := p.Transform(df)
	require.NoError(t, err)
	require.True(t, out.HasColumn("was_null(amount)"))
}

func TestCategoryTrimmerBucketsRareCategories(t *testing.T) {
	df, err := dataframe.New(map[string]any{
		"city": []string{"NYC", "NYC", "NYC", "Rare"},
	})
	require.NoError(t, err)

	p := NewCategoryTrimmer(dummyDep(), 2, []string{"city"})
	require.NoError(t, p.Fit(df))
	out, err := p.Transform(df)
	require.NoError(t, err)

	col, err := out.Column("city")
	require.NoError(t, err)
	v, _ := col.Get(3)
	require.Equal(t, OtherCategory, v)

	kept, _ := col.Get(0)
	require.Equal(t, "NYC", kept)
}

func TestTextFieldSplitterProducesTokenPeripheral(t *testing.T) {
	df, err := dataframe.New(map[string]any{
		"notes": []string{"hello world", "foo, bar!"},
	})
	require.NoError(t, err)
	df.SetName("events")
	df.SetRole("notes", schema.RoleText.String())

	p := NewTextFieldSplitter(dummyDep())
	require.NoError(t, p.Fit(df))
	out, err := p.Transform(df)
	require.NoError(t, err)
	require.False(t, out.HasColumn("notes"))

	periphs := p.Peripherals()
	require.Len(t, periphs, 1)
	for name, periph := range periphs {
		require.Contains(t, name, "events")
		words, err := periph.Column("word")
		require.NoError(t, err)
		require.Equal(t, 4, words.Len())
	}
}
