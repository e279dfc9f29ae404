package collection_test

import (
	"reflect"
	"testing"

	"github.com/idlikadai/backend/pkg/collection"
)

type item struct {
	Name     string
	Quantity int
	Price    float64
}

func TestMap(t *testing.T) {
	items := []item{
		{Name: "Idli", Quantity: 2, Price: 40},
		{Name: "Vada", Quantity: 1, Price: 30},
	}

	names := collection.Map(items, func(it item) string { return it.Name })
	if !reflect.DeepEqual(names, []string{"Idli", "Vada"}) {
		t.Fatalf("got %v", names)
	}

	totals := collection.Map(items, func(it item) float64 { return it.Price * float64(it.Quantity) })
	if !reflect.DeepEqual(totals, []float64{80, 30}) {
		t.Fatalf("got %v", totals)
	}
}

func TestMapEmpty(t *testing.T) {
	out := collection.Map(nil, func(s string) string { return s })
	if len(out) != 0 {
		t.Fatalf("got %v", out)
	}
}

func TestFilter(t *testing.T) {
	items := []item{
		{Name: "Idli", Price: 40},
		{Name: "Dosa", Price: 60},
		{Name: "Vada", Price: 30},
	}

	cheap := collection.Filter(items, func(it item) bool { return it.Price < 50 })
	if len(cheap) != 2 || cheap[0].Name != "Idli" || cheap[1].Name != "Vada" {
		t.Fatalf("got %v", cheap)
	}

	none := collection.Filter(items, func(item) bool { return false })
	if none != nil {
		t.Fatalf("got %v", none)
	}
}

func TestContains(t *testing.T) {
	statuses := []string{"pending", "preparing", "ready"}

	if !collection.Contains(statuses, func(s string) bool { return s == "ready" }) {
		t.Fatal("expected ready to be present")
	}
	if collection.Contains(statuses, func(s string) bool { return s == "shipped" }) {
		t.Fatal("shipped is not a status")
	}
}
