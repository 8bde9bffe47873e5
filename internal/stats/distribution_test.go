package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/filmlog/internal/domain"
)

func film(name string) domain.Shot {
	return domain.Shot{Film: &name}
}

func TestComputeKodakIlford(t *testing.T) {
	shots := []domain.Shot{film("Kodak"), film("Ilford"), film("Kodak")}

	d := Compute(shots, domain.FieldFilm)

	assert.Equal(t, domain.FieldFilm, d.Field)
	assert.Equal(t, 3, d.Total)
	require.Len(t, d.Buckets, 2)
	assert.Equal(t, "Ilford", d.Buckets[0].Value)
	assert.Equal(t, 1, d.Buckets[0].Count)
	assert.InDelta(t, 33.333333, d.Buckets[0].Percent, 1e-4)
	assert.Equal(t, "Kodak", d.Buckets[1].Value)
	assert.Equal(t, 2, d.Buckets[1].Count)
	assert.InDelta(t, 66.666666, d.Buckets[1].Percent, 1e-4)
}

func TestComputeExcludesAbsent(t *testing.T) {
	shots := []domain.Shot{film("HP5"), {}, {}, film("HP5"), film("Gold 200")}

	d := Compute(shots, domain.FieldFilm)

	assert.Equal(t, 3, d.Total)
	assert.Equal(t, []string{"Gold 200", "HP5"}, d.Values())
	for _, b := range d.Buckets {
		assert.NotEmpty(t, b.Value, "absent values must not form a bucket")
	}
}

func TestComputeTiesKeepFirstSeenOrder(t *testing.T) {
	shots := []domain.Shot{
		film("Delta 100"), film("Ektar"), film("Ektar"), film("Acros"), film("Portra"), film("Portra"),
	}

	d := Compute(shots, domain.FieldFilm)

	assert.Equal(t, []string{"Delta 100", "Acros", "Ektar", "Portra"}, d.Values())
}

func TestComputeInvariants(t *testing.T) {
	brands := []string{"Kodak", "Ilford", "Kodak", "", "Fujifilm", "Kodak", "Foma", "Ilford"}
	var shots []domain.Shot
	nonAbsent := 0
	for _, b := range brands {
		if b == "" {
			shots = append(shots, domain.Shot{})
			continue
		}
		name := b
		shots = append(shots, domain.Shot{Brand: &name})
		nonAbsent++
	}

	d := Compute(shots, domain.FieldBrand)

	sumCounts := 0
	sumPercent := 0.0
	for i, b := range d.Buckets {
		sumCounts += b.Count
		sumPercent += b.Percent
		if i > 0 {
			assert.LessOrEqual(t, d.Buckets[i-1].Count, b.Count, "buckets must ascend by count")
		}
	}
	assert.Equal(t, nonAbsent, sumCounts)
	assert.Equal(t, nonAbsent, d.Total)
	assert.InDelta(t, 100.0, sumPercent, 1e-9)
}

func TestComputeNumericField(t *testing.T) {
	a, b := 400.0, 100.0
	shots := []domain.Shot{{ISO: &a}, {ISO: &b}, {ISO: &a}}

	d := Compute(shots, domain.FieldISO)

	assert.Equal(t, []string{"100", "400"}, d.Values())
}

func TestComputeEmpty(t *testing.T) {
	d := Compute([]domain.Shot{{}, {}}, domain.FieldFilm)

	assert.Zero(t, d.Total)
	assert.Empty(t, d.Buckets)
	assert.Empty(t, d.Values())
}
