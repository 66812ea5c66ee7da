// Package report computes the dashboard aggregates from one render's cleaned
// order lines and identity mapping.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"salesdash/pkg/engine"
	"salesdash/pkg/schema"
)

// DefaultTopN is the number of revenue days in TopRevenueDays.
const DefaultTopN = 5

// DayRevenue is the paid amount summed over one date key.
type DayRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenueUsd"`
}

// AuthorSales is the quantity sold for one author set.
type AuthorSales struct {
	Authors  []string `json:"authors"`
	Quantity float64  `json:"quantity"`
}

// Key returns the set's display form, authors sorted and comma separated.
func (a AuthorSales) Key() string {
	return strings.Join(a.Authors, ", ")
}

// UserSpending is the paid amount summed over one original user id.
type UserSpending struct {
	UserID       string  `json:"userId"`
	UniqueUserID int     `json:"uniqueUserId"`
	Spent        float64 `json:"spentUsd"`
}

// Dashboard is the full set of aggregates for one dataset.
type Dashboard struct {
	Dataset           string         `json:"dataset"`
	RenderID          string         `json:"renderId"`
	TopRevenueDays    []DayRevenue   `json:"topRevenueDays"`
	UniqueUsers       int            `json:"uniqueUsers"`
	UniqueAuthorSets  int            `json:"uniqueAuthorSets"`
	MostPopularAuthor *AuthorSales   `json:"mostPopularAuthor,omitempty"`
	BestSpendingUsers []UserSpending `json:"bestSpendingUsers"`
	DailyRevenue      []DayRevenue   `json:"dailyRevenue"`
	Orders            int            `json:"orders"`
	HasDates          bool           `json:"hasDates"`
	CurrencyFallbacks int            `json:"currencyFallbacks"`
	QuantityFallbacks int            `json:"quantityFallbacks"`

	Conflicts []engine.ColumnConflict `json:"conflicts,omitempty"`
}

// Options tunes Build. A zero TopN means DefaultTopN.
type Options struct {
	TopN int
}

// Build compiles a render result into a Dashboard.
func Build(result *engine.Result, opts Options) *Dashboard {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	lines := result.Lines()
	daily := DailyRevenue(lines)
	sets, popular := authorSales(lines)

	return &Dashboard{
		Dataset:           result.Dataset,
		RenderID:          result.RenderID,
		TopRevenueDays:    TopRevenueDays(daily, topN),
		UniqueUsers:       result.Identities.Count,
		UniqueAuthorSets:  sets,
		MostPopularAuthor: popular,
		BestSpendingUsers: BestSpendingUsers(lines),
		DailyRevenue:      daily,
		Orders:            len(lines),
		HasDates:          result.Clean.HasDates,
		CurrencyFallbacks: result.Clean.CurrencyFallbacks,
		QuantityFallbacks: result.Clean.QuantityFallbacks,
		Conflicts:         result.Conflicts,
	}
}

// DailyRevenue sums paid amounts per date key in ascending date order.
// Lines without a date key are left out.
func DailyRevenue(lines []schema.CleanedLine) []DayRevenue {
	sums := make(map[string]decimal.Decimal)
	for _, l := range lines {
		if l.DateKey == "" {
			continue
		}
		sums[l.DateKey] = sums[l.DateKey].Add(decimal.NewFromFloat(l.PaidAmount))
	}

	days := make([]DayRevenue, 0, len(sums))
	for date, sum := range sums {
		days = append(days, DayRevenue{Date: date, Revenue: sum.Round(2).InexactFloat64()})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// TopRevenueDays returns the n highest-revenue days. Ties go to the earlier date.
func TopRevenueDays(daily []DayRevenue, n int) []DayRevenue {
	top := make([]DayRevenue, len(daily))
	copy(top, daily)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].Date < top[j].Date
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// AuthorSet splits a comma separated author field into a sorted, trimmed set.
// An empty field yields nil.
func AuthorSet(field string) []string {
	var authors []string
	for _, a := range strings.Split(field, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	sort.Strings(authors)
	return authors
}

// UniqueAuthorSets counts distinct author sets over the order lines.
func UniqueAuthorSets(lines []schema.CleanedLine) int {
	n, _ := authorSales(lines)
	return n
}

// MostPopularAuthor returns the author set with the largest total quantity,
// or nil when no line carries an author.
func MostPopularAuthor(lines []schema.CleanedLine) *AuthorSales {
	_, best := authorSales(lines)
	return best
}

func authorSales(lines []schema.CleanedLine) (int, *AuthorSales) {
	totals := make(map[string]*AuthorSales)
	for _, l := range lines {
		authors := AuthorSet(l.Attr(schema.ColAuthor))
		if len(authors) == 0 {
			continue
		}
		key := strings.Join(authors, ", ")
		s, ok := totals[key]
		if !ok {
			s = &AuthorSales{Authors: authors}
			totals[key] = s
		}
		s.Quantity += l.Quantity
	}

	var best *AuthorSales
	for key, s := range totals {
		if best == nil || s.Quantity > best.Quantity || (s.Quantity == best.Quantity && key < best.Key()) {
			best = s
		}
	}
	return len(totals), best
}

// BestSpendingUsers sums paid amounts per original user id, highest first.
// Lines without a user id are left out.
func BestSpendingUsers(lines []schema.CleanedLine) []UserSpending {
	sums := make(map[string]decimal.Decimal)
	canonical := make(map[string]int)
	for _, l := range lines {
		if l.UserID == "" {
			continue
		}
		sums[l.UserID] = sums[l.UserID].Add(decimal.NewFromFloat(l.PaidAmount))
		canonical[l.UserID] = l.UniqueUserID
	}

	users := make([]UserSpending, 0, len(sums))
	for id, sum := range sums {
		users = append(users, UserSpending{
			UserID:       id,
			UniqueUserID: canonical[id],
			Spent:        sum.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Spent != users[j].Spent {
			return users[i].Spent > users[j].Spent
		}
		return schema.LessID(users[i].UserID, users[j].UserID)
	})
	return users
}
