package request

import (
	"fmt"
	"sort"
	"strings"

	"alphabot/internal/catalog"

	"github.com/cespare/xxhash/v2"
)

// Hash is a stable structural hash of the resolved request. Category lists
// are sorted so argument order does not change it.
func (r *PlatformRequest) Hash() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(r.canonical()))
}

func (r *PlatformRequest) canonical() string {
	var b strings.Builder
	field := func(name, value string) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteByte(';')
	}

	field("kind", string(r.kind))
	field("platform", r.platform.String())
	key := r.ticker.Key()
	field("ticker", strings.Join([]string{key.ID, key.Base, key.Quote, key.Symbol}, "|"))
	if r.exchange != nil {
		field("exchange", r.exchange.ID)
	}
	field("timeframes", sortedIDs(r.timeframes))
	field("chartStyles", sortedIDs(r.chartStyles))
	field("imageStyles", sortedIDs(r.imageStyles))
	field("filters", sortedIDs(r.filters))

	indicators := make([]string, 0, len(r.indicators))
	for _, ind := range r.indicators {
		args := make([]string, len(ind.Args))
		for i, a := range ind.Args {
			args[i] = a.String()
		}
		indicators = append(indicators, ind.ID+":"+strings.Join(args, ","))
	}
	sort.Strings(indicators)
	field("indicators", strings.Join(indicators, ","))

	numbers := make([]string, len(r.numerical))
	for i, n := range r.numerical {
		numbers[i] = n.String()
	}
	field("numerical", strings.Join(numbers, ","))
	field("pro", fmt.Sprint(r.requiresPro))
	return b.String()
}

func sortedIDs(params []catalog.Parameter) string {
	ids := make([]string, len(params))
	for i, p := range params {
		ids[i] = p.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
