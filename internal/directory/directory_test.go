package directory

import (
	"fmt"
	"reflect"
	"testing"
)

func TestFilterCaseInsensitive(t *testing.T) {
	items := []string{"Cardiology", "Dermatology", "Pediatric Cardiology"}

	got := Filter(items, "cardio", func(s string) string { return s })
	want := []string{"Cardiology", "Pediatric Cardiology"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter = %v, want %v", got, want)
	}
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	items := []string{"a", "b"}
	got := Filter(items, "", func(s string) string { return s })
	if !reflect.DeepEqual(got, items) {
		t.Errorf("Filter with empty query = %v, want all items", got)
	}
}

func TestFilterNoMatch(t *testing.T) {
	items := []string{"a", "b"}
	if got := Filter(items, "zzz", func(s string) string { return s }); len(got) != 0 {
		t.Errorf("Filter = %v, want empty", got)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	p := Paginate(items, 1, 10)
	if len(p.Items) != 10 || p.Items[0] != 0 {
		t.Errorf("page 1 = %v", p.Items)
	}
	if p.TotalPages != 3 || p.TotalItems != 25 {
		t.Errorf("TotalPages = %d, TotalItems = %d", p.TotalPages, p.TotalItems)
	}
	if !p.HasNext() || p.HasPrev() {
		t.Errorf("page 1 navigation flags wrong: next=%v prev=%v", p.HasNext(), p.HasPrev())
	}

	p = Paginate(items, 3, 10)
	if len(p.Items) != 5 || p.Items[0] != 20 {
		t.Errorf("page 3 = %v", p.Items)
	}
	if p.HasNext() || !p.HasPrev() {
		t.Errorf("page 3 navigation flags wrong: next=%v prev=%v", p.HasNext(), p.HasPrev())
	}
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	items := []int{1, 2, 3}

	p := Paginate(items, 99, 10)
	if p.PageNumber != 1 {
		t.Errorf("PageNumber = %d, want 1", p.PageNumber)
	}
	p = Paginate(items, -1, 10)
	if p.PageNumber != 1 {
		t.Errorf("PageNumber = %d, want 1", p.PageNumber)
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]int(nil), 1, 10)
	if len(p.Items) != 0 || p.TotalPages != 1 || p.PageNumber != 1 {
		t.Errorf("empty input: %+v", p)
	}
}

func TestFilterThenPaginate(t *testing.T) {
	type doctor struct{ name string }
	var items []doctor
	for i := 0; i < 30; i++ {
		items = append(items, doctor{name: fmt.Sprintf("Dr. Smith %d", i)})
	}
	items = append(items, doctor{name: "Dr. Jones"})

	filtered := Filter(items, "smith", func(d doctor) string { return d.name })
	p := Paginate(filtered, 2, DefaultPageSize)
	if p.TotalItems != 30 {
		t.Errorf("TotalItems = %d, want 30", p.TotalItems)
	}
	if len(p.Items) != 10 || p.Items[0].name != "Dr. Smith 10" {
		t.Errorf("page 2 = %v", p.Items)
	}
}
