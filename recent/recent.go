// Package recent remembers which scenarios were run and ranks them for completion.
package recent

import (
	"strings"
	"sync"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/key"
	"github.com/anisan-cli/mediapool/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank     int    `json:"rank"`
	Scenario string `json:"scenario"`
}

var (
	cacherOnce sync.Once
	cacher     *gache.Cache[map[string]*record]
)

func records() *gache.Cache[map[string]*record] {
	cacherOnce.Do(func() {
		cacher = gache.New[map[string]*record](&gache.Options{
			Path:       where.Recent(),
			FileSystem: &filesystem.GacheFs{},
		})
	})

	return cacher
}

// Remember records a run of the named scenario, increasing its rank by weight.
func Remember(name string, weight int) error {
	if !viper.GetBool(key.CliRecent) {
		return nil
	}

	name = sanitize(name)
	if name == "" {
		return nil
	}

	cached, expired, err := records().Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[name]; ok {
		r.Rank += weight
	} else {
		cached[name] = &record{Rank: weight, Scenario: name}
	}

	return records().Set(cached)
}

// Suggest returns the highest ranked scenario matching the partial name.
func Suggest(name string) mo.Option[string] {
	suggestions := SuggestMany(name)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}

	return mo.Some(suggestions[0])
}

// SuggestMany returns the remembered scenarios fuzzily matching the partial name, highest rank first.
func SuggestMany(name string) []string {
	if !viper.GetBool(key.CliRecent) {
		return []string{}
	}

	cached, expired, err := records().Get()
	if err != nil || expired || cached == nil {
		return []string{}
	}

	name = sanitize(name)
	matching := lo.Filter(lo.Values(cached), func(r *record, _ int) bool {
		return fuzzy.Match(name, r.Scenario)
	})

	slices.SortFunc(matching, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}

		return strings.Compare(a.Scenario, b.Scenario)
	})

	return lo.Map(matching, func(r *record, _ int) string {
		return r.Scenario
	})
}

func sanitize(name string) string {
	return strings.TrimSpace(name)
}
