package stats

import (
	"sort"

	"github.com/vbonduro/filmlog/internal/domain"
)

// Bucket is one category of a Distribution.
type Bucket struct {
	Value   string
	Count   int
	Percent float64
}

// Distribution holds value counts for one field, ascending by count.
type Distribution struct {
	Field   domain.Field
	Total   int
	Buckets []Bucket
}

// Compute counts the non-absent values of field across shots. Absent values
// are skipped, so Total can be smaller than len(shots). Buckets with equal
// counts keep the order in which their values were first seen.
func Compute(shots []domain.Shot, field domain.Field) Distribution {
	d := Distribution{Field: field}

	index := make(map[string]int)
	for _, shot := range shots {
		v, ok := shot.Value(field)
		if !ok {
			continue
		}
		i, seen := index[v]
		if !seen {
			i = len(d.Buckets)
			index[v] = i
			d.Buckets = append(d.Buckets, Bucket{Value: v})
		}
		d.Buckets[i].Count++
		d.Total++
	}

	for i := range d.Buckets {
		d.Buckets[i].Percent = float64(d.Buckets[i].Count) / float64(d.Total) * 100
	}

	sort.SliceStable(d.Buckets, func(i, j int) bool {
		return d.Buckets[i].Count < d.Buckets[j].Count
	})

	return d
}

// Values returns the bucket values in distribution order.
func (d Distribution) Values() []string {
	values := make([]string, len(d.Buckets))
	for i, b := range d.Buckets {
		values[i] = b.Value
	}
	return values
}
