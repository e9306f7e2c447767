package catalog

import "alphabot/internal/domain"

// Short aliases keep the tables below readable.
const (
	tv = domain.PlatformTradingView
	tl = domain.PlatformTradingLite
	bm = domain.PlatformBookmap
	gc = domain.PlatformGoCharting
	fv = domain.PlatformFinviz
	am = domain.PlatformAlternativeMe
	wb = domain.PlatformWoobull
	cg = domain.PlatformCoinGecko
	cx = domain.PlatformCCXT
	ix = domain.PlatformIEXC
	ql = domain.PlatformQuandl
	ld = domain.PlatformLLD
	bg = domain.PlatformBitgur
)

type native = map[domain.Platform]string

type arity = map[domain.Platform]Arity

// on returns an encoding map where every listed platform uses the same value.
func on(value string, platforms ...domain.Platform) native {
	out := make(native, len(platforms))
	for _, p := range platforms {
		out[p] = value
	}
	return out
}

// merge combines encoding maps; later maps override earlier ones.
func merge(maps ...native) native {
	out := make(native)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
