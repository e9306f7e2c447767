package domain

import "strings"

// Platform identifies one external chart, data or trading provider.
type Platform int

const (
	PlatformTradingView Platform = iota + 1
	PlatformTradingLite
	PlatformBookmap
	PlatformGoCharting
	PlatformFinviz
	PlatformAlternativeMe
	PlatformWoobull
	PlatformCoinGecko
	PlatformCCXT
	PlatformIEXC
	PlatformQuandl
	PlatformLLD
	PlatformBitgur
)

// MarketClass groups platforms and exchanges by the instruments they serve.
type MarketClass int

const (
	ClassNone MarketClass = iota
	ClassCrypto
	ClassTraditional
	ClassMixed
)

type platformInfo struct {
	name  string
	class MarketClass
}

var platforms = map[Platform]platformInfo{
	PlatformTradingView:   {"TradingView", ClassMixed},
	PlatformTradingLite:   {"TradingLite", ClassCrypto},
	PlatformBookmap:       {"Bookmap", ClassCrypto},
	PlatformGoCharting:    {"GoCharting", ClassMixed},
	PlatformFinviz:        {"Finviz", ClassTraditional},
	PlatformAlternativeMe: {"Alternative.me", ClassNone},
	PlatformWoobull:       {"Woobull", ClassNone},
	PlatformCoinGecko:     {"CoinGecko", ClassCrypto},
	PlatformCCXT:          {"CCXT", ClassCrypto},
	PlatformIEXC:          {"IEXC", ClassTraditional},
	PlatformQuandl:        {"Quandl", ClassNone},
	PlatformLLD:           {"LLD", ClassCrypto},
	PlatformBitgur:        {"Bitgur", ClassCrypto},
}

// AllPlatforms lists every platform in declaration order.
func AllPlatforms() []Platform {
	out := make([]Platform, 0, len(platforms))
	for p := PlatformTradingView; p <= PlatformBitgur; p++ {
		out = append(out, p)
	}
	return out
}

func (p Platform) String() string {
	if info, ok := platforms[p]; ok {
		return info.name
	}
	return "Unknown"
}

// Class reports which instruments the platform can chart or quote.
func (p Platform) Class() MarketClass {
	return platforms[p].class
}

func (p Platform) IsValid() bool {
	_, ok := platforms[p]
	return ok
}

// ParsePlatform matches a platform by display name, ignoring case and dots.
func ParsePlatform(name string) (Platform, bool) {
	norm := normalizePlatformName(name)
	for p, info := range platforms {
		if normalizePlatformName(info.name) == norm {
			return p, true
		}
	}
	return 0, false
}

func normalizePlatformName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, ".", "")
}
