package catalog

var (
	oneLength = Arity{Min: 1, Max: 1}
	upToTwo   = Arity{Min: 1, Max: 2}
	upToThree = Arity{Min: 1, Max: 3}
)

var chartIndicators = []Parameter{
	{ID: "accd", Name: "Accumulation/Distribution",
		Phrases: []string{"accd", "ad", "acc", "accumulationdistribution", "accumulation/distribution"},
		Parsed:  native{tv: "ACCD@tv-basicstudies", gc: "ACCUMULATION_DISTRIBUTION"}},
	{ID: "adr", Name: "ADR",
		Phrases: []string{"adr"},
		Parsed:  native{tv: "studyADR@tv-basicstudies"}},
	{ID: "aroon", Name: "Aroon",
		Phrases: []string{"aroon"},
		Parsed:  native{tv: "AROON@tv-basicstudies", gc: "AROON"},
		Dynamic: arity{tv: oneLength}},
	{ID: "atr", Name: "ATR",
		Phrases: []string{"atr"},
		Parsed:  native{tv: "ATR@tv-basicstudies", gc: "ATR"},
		Dynamic: arity{tv: oneLength, gc: oneLength}},
	{ID: "awesome", Name: "Awesome Oscillator",
		Phrases: []string{"awesome", "ao", "awesomeoscillator"},
		Parsed:  native{tv: "AwesomeOscillator@tv-basicstudies", gc: "AWESOME_OSCILLATOR"}},
	{ID: "bb", Name: "Bollinger Bands",
		Phrases: []string{"bb", "bbands", "bollinger", "bollingerbands"},
		Parsed:  native{tv: "BB@tv-basicstudies", tl: "bb", gc: "BOLLINGER_BANDS"},
		Dynamic: arity{tv: upToTwo, tl: upToTwo, gc: upToTwo}},
	{ID: "bbw", Name: "Bollinger Bands Width",
		Phrases: []string{"bbw", "bollingerbandswidth", "bollingerwidth"},
		Parsed:  native{tv: "BollingerBandsWidth@tv-basicstudies"}},
	{ID: "cci", Name: "CCI",
		Phrases: []string{"cci", "commoditychannelindex"},
		Parsed:  native{tv: "CCI@tv-basicstudies", gc: "CCI"},
		Dynamic: arity{tv: oneLength}},
	{ID: "chaikin", Name: "Chaikin Oscillator",
		Phrases: []string{"chaikin", "chaikinoscillator", "co"},
		Parsed:  native{tv: "ChaikinOscillator@tv-basicstudies"}},
	{ID: "cmf", Name: "Chaikin Money Flow",
		Phrases: []string{"cmf", "chaikinmoneyflow"},
		Parsed:  native{tv: "CMF@tv-basicstudies", gc: "CHAIKIN_MONEY_FLOW"}},
	{ID: "cvd", Name: "Cumulative Volume Delta", RequiresPro: true,
		Phrases: []string{"cvd", "cumulativevolumedelta", "volumedelta"},
		Parsed:  native{tl: "cvd", bm: "cvd"}},
	{ID: "dc", Name: "Donchian Channels",
		Phrases: []string{"dc", "donchian", "donchianchannels"},
		Parsed:  native{tv: "DONCH@tv-basicstudies", gc: "DONCHIAN_CHANNEL"},
		Dynamic: arity{tv: oneLength}},
	{ID: "dmi", Name: "Directional Movement",
		Phrases: []string{"dmi", "dm", "directionalmovement"},
		Parsed:  native{tv: "DM@tv-basicstudies", gc: "DMI"}},
	{ID: "ema", Name: "EMA",
		Phrases: []string{"ema", "exponentialmovingaverage"},
		Parsed:  native{tv: "MAExp@tv-basicstudies", tl: "ema", gc: "EMA"},
		Dynamic: arity{tv: oneLength, tl: upToThree, gc: oneLength}},
	{ID: "elliott", Name: "Elliott Wave",
		Phrases: []string{"elliott", "elliot", "ew", "elliottwave", "elliotwave"},
		Parsed:  native{tv: "ElliottWave@tv-basicstudies"}},
	{ID: "ichimoku", Name: "Ichimoku Cloud",
		Phrases: []string{"ichimoku", "ichi", "ic", "cloud", "ichimokucloud"},
		Parsed:  native{tv: "IchimokuCloud@tv-basicstudies", tl: "ichimoku", gc: "ICHIMOKU"}},
	{ID: "kc", Name: "Keltner Channels",
		Phrases: []string{"kc", "keltner", "keltnerchannels"},
		Parsed:  native{tv: "KLTNR@tv-basicstudies", gc: "KELTNER_CHANNEL"}},
	{ID: "macd", Name: "MACD",
		Phrases: []string{"macd"},
		Parsed:  native{tv: "MACD@tv-basicstudies", tl: "macd", gc: "MACD"},
		Dynamic: arity{tv: upToThree, gc: upToThree}},
	{ID: "mfi", Name: "Money Flow Index",
		Phrases: []string{"mfi", "moneyflow", "moneyflowindex"},
		Parsed:  native{tv: "MF@tv-basicstudies", gc: "MFI"},
		Dynamic: arity{tv: oneLength}},
	{ID: "mom", Name: "Momentum",
		Phrases: []string{"mom", "momentum"},
		Parsed:  native{tv: "MOM@tv-basicstudies", gc: "MOMENTUM"},
		Dynamic: arity{tv: oneLength}},
	{ID: "obv", Name: "On Balance Volume",
		Phrases: []string{"obv", "onbalancevolume"},
		Parsed:  native{tv: "OBV@tv-basicstudies", tl: "obv", gc: "OBV"}},
	{ID: "pivot", Name: "Pivot Points Standard",
		Phrases: []string{"pivot", "pivots", "pp", "pivotpoints"},
		Parsed:  native{tv: "PivotPointsStandard@tv-basicstudies", gc: "PIVOT_POINTS"}},
	{ID: "psar", Name: "Parabolic SAR",
		Phrases: []string{"psar", "sar", "parabolicsar"},
		Parsed:  native{tv: "PSAR@tv-basicstudies", gc: "PSAR"}},
	{ID: "roc", Name: "Rate Of Change",
		Phrases: []string{"roc", "rateofchange"},
		Parsed:  native{tv: "ROC@tv-basicstudies", gc: "ROC"},
		Dynamic: arity{tv: oneLength}},
	{ID: "rsi", Name: "RSI",
		Phrases: []string{"rsi", "relativestrengthindex"},
		Parsed:  native{tv: "RSI@tv-basicstudies", tl: "rsi", gc: "RSI"},
		Dynamic: arity{tv: oneLength, tl: oneLength, gc: oneLength}},
	{ID: "sma", Name: "MA",
		Phrases: []string{"ma", "sma", "movingaverage", "simplemovingaverage"},
		Parsed:  native{tv: "MASimple@tv-basicstudies", tl: "sma", gc: "SMA"},
		Dynamic: arity{tv: oneLength, tl: upToThree, gc: oneLength}},
	{ID: "srsi", Name: "Stochastic RSI",
		Phrases: []string{"srsi", "stochrsi", "stochasticrsi"},
		Parsed:  native{tv: "StochasticRSI@tv-basicstudies", tl: "stochrsi", gc: "STOCHASTIC_RSI"}},
	{ID: "stoch", Name: "Stochastic",
		Phrases: []string{"stoch", "stochastic"},
		Parsed:  native{tv: "Stochastic@tv-basicstudies", gc: "STOCHASTIC"},
		Dynamic: arity{tv: upToThree}},
	{ID: "volume", Name: "Volume",
		Phrases: []string{"volume", "vol", "v"},
		Parsed:  native{tv: "Volume@tv-basicstudies", tl: "volume", bm: "volume", gc: "VOLUME"}},
	{ID: "vwap", Name: "VWAP",
		Phrases: []string{"vwap"},
		Parsed:  native{tv: "VWAP@tv-basicstudies", tl: "vwap", bm: "vwap", gc: "VWAP"}},
	{ID: "vwma", Name: "VWMA",
		Phrases: []string{"vwma"},
		Parsed:  native{tv: "VWMA@tv-basicstudies", gc: "VWMA"},
		Dynamic: arity{tv: oneLength}},
	{ID: "wr", Name: "Williams %R",
		Phrases: []string{"wr", "williamsr", "williams%r", "%r"},
		Parsed:  native{tv: "WilliamR@tv-basicstudies", gc: "WILLIAMS_R"},
		Dynamic: arity{tv: oneLength}},
	{ID: "zz", Name: "ZigZag",
		Phrases: []string{"zz", "zigzag"},
		Parsed:  native{tv: "ZigZag@tv-basicstudies", gc: "ZIGZAG"}},
}
