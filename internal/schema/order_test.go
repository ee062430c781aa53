package schema_test

import (
	"testing"

	"db-syncgen/internal/schema"
)

func TestOrderByDependency_Simple(t *testing.T) {
	// users <- orders <- order_items
	tables := []string{"order_items", "orders", "users"}
	fks := []schema.ForeignKey{
		{Table: "order_items", Column: "order_id", RefTable: "orders", RefColumn: "id"},
		{Table: "orders", Column: "user_id", RefTable: "users", RefColumn: "id"},
	}

	got := schema.OrderByDependency(tables, fks)
	want := []string{"users", "orders", "order_items"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("OrderByDependency = %v, want %v", got, want)
		}
	}
}

func TestOrderByDependency_Circular(t *testing.T) {
	// A -> B -> C -> A 순환, D 독립, E -> A
	tables := []string{"A", "B", "C", "D", "E"}
	fks := []schema.ForeignKey{
		{Table: "A", RefTable: "B"},
		{Table: "B", RefTable: "C"},
		{Table: "C", RefTable: "A"},
		{Table: "E", RefTable: "A"},
		{Table: "E", RefTable: "external"},
	}

	got := schema.OrderByDependency(tables, fks)
	if len(got) != len(tables) {
		t.Fatalf("expected %d tables, got %v", len(tables), got)
	}
	if got[0] != "D" {
		t.Errorf("independent table D should come first, got %v", got)
	}

	pos := map[string]int{}
	for i, name := range got {
		pos[name] = i
	}
	if pos["E"] < pos["A"] {
		t.Errorf("E references A and must follow it: %v", got)
	}
}
