package schema

import (
	"sort"
	"strings"
)

// OrderByDependency lists tables so that every referenced (parent) table
// comes before the tables referencing it. Cycles are broken by picking the
// table with the fewest unresolved references; ties go to the name order.
func OrderByDependency(tables []string, fks []ForeignKey) []string {
	known := make(map[string]string, len(tables))
	for _, t := range tables {
		known[strings.ToUpper(t)] = t
	}

	deps := make(map[string][]string, len(tables))
	for _, fk := range fks {
		child, ok := known[strings.ToUpper(fk.Table)]
		if !ok {
			continue
		}
		parent, ok := known[strings.ToUpper(fk.RefTable)]
		if !ok || parent == child {
			continue
		}
		deps[child] = append(deps[child], parent)
	}

	pending := append([]string(nil), tables...)
	sort.Strings(pending)

	done := make(map[string]bool, len(tables))
	ordered := make([]string, 0, len(tables))
	for len(ordered) < len(tables) {
		added := false
		for _, t := range pending {
			if done[t] || !allDone(deps[t], done) {
				continue
			}
			ordered = append(ordered, t)
			done[t] = true
			added = true
		}
		if added {
			continue
		}

		// 순환 참조: 미해결 의존성이 가장 적은 테이블부터 끊는다
		best, bestScore := "", -1
		for _, t := range pending {
			if done[t] {
				continue
			}
			score := 0
			for _, d := range deps[t] {
				if !done[d] {
					score++
				}
			}
			if best == "" || score < bestScore {
				best, bestScore = t, score
			}
		}
		ordered = append(ordered, best)
		done[best] = true
	}
	return ordered
}

func allDone(deps []string, done map[string]bool) bool {
	for _, d := range deps {
		if !done[d] {
			return false
		}
	}
	return true
}
