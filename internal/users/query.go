// Provides filtering, ranking and aggregation over loaded users.

package users

import (
	"cmp"
	"slices"
	"strings"
)

// NextID returns one more than the largest id in existing, or 1 when empty.
//
// Two callers working from the same snapshot get the same id.
func NextID(existing []*User) int {
	maxID := 0
	for _, u := range existing {
		maxID = max(maxID, u.ID)
	}
	return maxID + 1
}

// FilterByNameOrCity returns the users whose name contains name or whose city
// contains city, ignoring case. An empty filter never matches; when both are
// empty, records is returned unchanged.
func FilterByNameOrCity(records []*User, name, city string) []*User {
	if name == "" && city == "" {
		return records
	}
	name = strings.ToLower(name)
	city = strings.ToLower(city)
	result := make([]*User, 0, len(records))
	for _, u := range records {
		if (name != "" && strings.Contains(strings.ToLower(u.Name), name)) ||
			(city != "" && strings.Contains(strings.ToLower(u.City), city)) {
			result = append(result, u)
		}
	}
	return result
}

// TopByRating returns the n best rated users, highest first. Ties keep their
// relative order from records. Users without a rating rank last.
func TopByRating(records []*User, n int) []*User {
	if n <= 0 {
		return []*User{}
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b *User) int {
		return cmp.Compare(ratingKey(b), ratingKey(a))
	})
	return sorted[:min(n, len(sorted))]
}

func ratingKey(u *User) int {
	if u.Rating == nil {
		return minRating - 1
	}
	return *u.Rating
}

// AverageAgeByCity returns the mean age per city over users that have both an
// age and a city. Cities without any age are omitted.
func AverageAgeByCity(records []*User) map[string]float64 {
	type acc struct {
		sum   int
		count int
	}
	byCity := make(map[string]*acc)
	for _, u := range records {
		if u.Age == nil || u.City == "" {
			continue
		}
		a := byCity[u.City]
		if a == nil {
			a = &acc{}
			byCity[u.City] = a
		}
		a.sum += *u.Age
		a.count++
	}
	result := make(map[string]float64, len(byCity))
	for city, a := range byCity {
		result[city] = float64(a.sum) / float64(a.count)
	}
	return result
}

// ByCity returns the users whose city is exactly city.
func ByCity(records []*User, city string) []*User {
	var result []*User
	for _, u := range records {
		if u.City == city {
			result = append(result, u)
		}
	}
	return result
}
