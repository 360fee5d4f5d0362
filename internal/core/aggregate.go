package core

// KindGroup holds the meals of one kind in fetch order plus their
// calorie subtotal.
type KindGroup struct {
	Kind      Kind
	Items     []Meal
	TotalKcal int
}

// DaySummary is the grouped view of one day's meals: one group per
// canonical kind (always all four, possibly empty) and the grand total.
type DaySummary struct {
	Groups    []KindGroup
	TotalKcal int
}

// Group returns the group for k, applying the snack fallback.
func (s DaySummary) Group(k Kind) KindGroup {
	k = NormalizeKind(k)
	for _, g := range s.Groups {
		if g.Kind == k {
			return g
		}
	}
	return KindGroup{Kind: k}
}

// Aggregate buckets meals by kind and sums calories per bucket and
// overall. Single pass, stable with respect to input order. Meals with a
// kind outside the enum land in the snack bucket; absent calories count
// as zero.
func Aggregate(meals []Meal) DaySummary {
	groups := make([]KindGroup, len(KindOrder))
	index := make(map[Kind]int, len(KindOrder))
	for i, k := range KindOrder {
		groups[i] = KindGroup{Kind: k}
		index[k] = i
	}

	var total int
	for _, m := range meals {
		i := index[NormalizeKind(m.Kind)]
		groups[i].Items = append(groups[i].Items, m)
		groups[i].TotalKcal += m.Kcal()
		total += m.Kcal()
	}

	return DaySummary{Groups: groups, TotalKcal: total}
}
