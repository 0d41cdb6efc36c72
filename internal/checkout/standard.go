package checkout

import (
	"cmp"
	"slices"
)

// finishing doubles in the order they are preferred.
var preferredDoubles = []int{20, 16, 18, 12, 10, 8, 14, 6, 4, 2, BullSection, 19, 17, 15, 13, 11, 9, 7, 5, 3, 1}

func dart(section int, area Area) Dart {
	return Dart{Section: section, Area: area, Score: section * area.Multiplier()}
}

// setupDarts lists every scoring dart, highest score first. Ties prefer a
// single over a triple over a double.
func setupDarts() []Dart {
	out := make([]Dart, 0, 62)
	for s := 1; s <= 20; s++ {
		out = append(out, dart(s, AreaSingle), dart(s, AreaDouble), dart(s, AreaTriple))
	}
	out = append(out, dart(BullSection, AreaSingle), dart(BullSection, AreaDouble))

	rank := map[Area]int{AreaSingle: 0, AreaTriple: 1, AreaDouble: 2}
	slices.SortStableFunc(out, func(a, b Dart) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(rank[a.Area], rank[b.Area])
	})
	return out
}

// Standard generates the double-out checkout table for every finishable score
// from 2 to 170, each with the fewest darts possible.
func Standard() []Checkout {
	setup := setupDarts()
	byScore := make(map[int]Dart, len(setup))
	for _, d := range setup {
		if _, ok := byScore[d.Score]; !ok {
			byScore[d.Score] = d
		}
	}

	table := make([]Checkout, 0, MaxRemaining)
	for r := 2; r <= MaxRemaining; r++ {
		if darts := finish(r, setup, byScore); darts != nil {
			table = append(table, Checkout{Remaining: r, MinDarts: len(darts), Darts: darts})
		}
	}
	return table
}

func finish(r int, setup []Dart, byScore map[int]Dart) []Dart {
	for n := 1; n <= 3; n++ {
		for _, section := range preferredDoubles {
			double := dart(section, AreaDouble)
			rest := r - double.Score
			if rest < 0 {
				continue
			}
			switch n {
			case 1:
				if rest == 0 {
					return []Dart{double}
				}
			case 2:
				if d, ok := byScore[rest]; ok && rest > 0 {
					return []Dart{d, double}
				}
			case 3:
				for _, first := range setup {
					if second, ok := byScore[rest-first.Score]; ok && rest-first.Score > 0 {
						return []Dart{first, second, double}
					}
				}
			}
		}
	}
	return nil
}
