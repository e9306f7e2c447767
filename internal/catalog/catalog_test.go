package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphabot/internal/domain"
)

func TestLookupIsCaseNormalizedExactMatch(t *testing.T) {
	t.Parallel()
	chart := Default().For(KindChart)

	p, ok := chart.Lookup(CategoryIndicator, "RSI")
	require.True(t, ok)
	assert.Equal(t, "rsi", p.ID)

	_, ok = chart.Lookup(CategoryIndicator, "rs")
	assert.False(t, ok, "lookup must not prefix match")
}

func TestLookupFirstEntryWins(t *testing.T) {
	t.Parallel()
	c := New(map[Category][]Parameter{
		CategoryFilter: {
			{ID: "a", Phrases: []string{"x"}},
			{ID: "b", Phrases: []string{"x", "y"}},
		},
	})
	p, ok := c.Lookup(CategoryFilter, "x")
	require.True(t, ok)
	assert.Equal(t, "a", p.ID)

	p, ok = c.Lookup(CategoryFilter, "y")
	require.True(t, ok)
	assert.Equal(t, "b", p.ID)
}

func TestSupports(t *testing.T) {
	t.Parallel()
	chart := Default().For(KindChart)

	elliott, ok := chart.Lookup(CategoryIndicator, "elliott")
	require.True(t, ok)
	assert.Equal(t, "Elliott Wave", elliott.Name)
	assert.True(t, Supports(elliott, domain.PlatformTradingView))
	assert.False(t, Supports(elliott, domain.PlatformBookmap))

	for _, id := range []string{"rsi", "macd"} {
		p, ok := chart.Find(CategoryIndicator, id)
		require.True(t, ok, id)
		assert.True(t, p.Supports(domain.PlatformTradingView), id)
		assert.True(t, p.Supports(domain.PlatformTradingLite), id)
	}
}

func TestTimeframesOrderedByDuration(t *testing.T) {
	t.Parallel()
	for _, kind := range []Kind{KindChart, KindHeatmap} {
		list := Default().For(kind).List(CategoryTimeframe)
		require.NotEmpty(t, list)
		for i := 1; i < len(list); i++ {
			assert.Less(t, list[i-1].Minutes, list[i].Minutes, "%s: %s before %s", kind, list[i-1].Name, list[i].Name)
		}
	}
}

func TestPhrasesDoNotOverlapWithinCategory(t *testing.T) {
	t.Parallel()
	set := Default()
	for _, kind := range Kinds() {
		c := set.For(kind)
		for _, cat := range Categories {
			seen := map[string]string{}
			for _, p := range c.List(cat) {
				for _, phrase := range p.Phrases {
					if prev, dup := seen[phrase]; dup {
						t.Errorf("%s %s: phrase %q claimed by %s and %s", kind, cat, phrase, prev, p.ID)
					}
					seen[phrase] = p.ID
				}
			}
		}
	}
}

func TestExclusionKey(t *testing.T) {
	t.Parallel()
	chart := Default().For(KindChart)
	light, _ := chart.Lookup(CategoryImageStyle, "light")
	dark, _ := chart.Lookup(CategoryImageStyle, "dark")
	assert.Equal(t, light.ExclusionKey(), dark.ExclusionKey())

	rsi, _ := chart.Lookup(CategoryIndicator, "rsi")
	assert.Equal(t, "rsi", rsi.ExclusionKey())
}

func TestOverlayAddsPhrases(t *testing.T) {
	t.Parallel()
	overlay, err := ParseOverlay([]byte(`
phrases:
  chart:
    indicator:
      rsi: [relstrength]
exchanges:
  bnc: binance
`))
	require.NoError(t, err)
	assert.Equal(t, "binance", overlay.Exchanges["bnc"])

	base := Default()
	extended, err := base.WithOverlay(overlay)
	require.NoError(t, err)

	p, ok := extended.For(KindChart).Lookup(CategoryIndicator, "relstrength")
	require.True(t, ok)
	assert.Equal(t, "rsi", p.ID)

	_, ok = base.For(KindChart).Lookup(CategoryIndicator, "relstrength")
	assert.False(t, ok, "base catalog must stay unchanged")
}

func TestOverlayRejectsUnknownEntries(t *testing.T) {
	t.Parallel()
	_, err := Default().WithOverlay(Overlay{Phrases: map[string]map[string]map[string][]string{
		"chart": {"indicator": {"nope": {"x"}}},
	}})
	assert.Error(t, err)

	_, err = Default().WithOverlay(Overlay{Phrases: map[string]map[string]map[string][]string{
		"trade": {"indicator": {"rsi": {"x"}}},
	}})
	assert.Error(t, err)

	_, err = Default().WithOverlay(Overlay{Phrases: map[string]map[string]map[string][]string{
		"alert": {"indicator": {"rsi": {"x"}}},
	}})
	assert.Error(t, err)
}

func TestLoadOverlayEmptyPath(t *testing.T) {
	t.Parallel()
	o, err := LoadOverlay("")
	require.NoError(t, err)
	assert.Empty(t, o.Phrases)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()
	c, ok := ParseCategory("chart_style")
	require.True(t, ok)
	assert.Equal(t, CategoryChartStyle, c)
	_, ok = ParseCategory("colour")
	assert.False(t, ok)
}
