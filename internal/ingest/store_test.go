package ingest

import (
	"errors"
	"path/filepath"
	"testing"

	"bloodsim/internal/distribution"
)

func TestStore_TableAndCaching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prob_a.xlsx")
	writeWorkbook(t, path, testHeader, [][]interface{}{
		{1, "5-15", 6, 0.6, 0.6, 59},
		{2, "45-55", 4, 0.4, 1.0, 100},
	})

	store := NewStore(map[distribution.Category]string{
		distribution.CategoryA: path,
	})

	table, err := store.Table(distribution.CategoryA)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if !table.Covers() {
		t.Error("expected full coverage")
	}
	if got := table.Sample(0); got != 10 {
		t.Errorf("Sample(0) = %d, want 10", got)
	}

	// Unchanged content returns the memoized table.
	again, err := store.Table(distribution.CategoryA)
	if err != nil {
		t.Fatalf("Table (cached): %v", err)
	}
	if again != table {
		t.Error("expected memoized table for unchanged workbook")
	}

	// Rewriting the workbook changes the content hash and reloads.
	writeWorkbook(t, path, testHeader, [][]interface{}{
		{1, "95-105", 10, 1.0, 1.0, 100},
	})
	reloaded, err := store.Table(distribution.CategoryA)
	if err != nil {
		t.Fatalf("Table (reloaded): %v", err)
	}
	if got := reloaded.Sample(0); got != 100 {
		t.Errorf("Sample(0) after rewrite = %d, want 100", got)
	}
}

func TestStore_Invalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prob_o.xlsx")
	writeWorkbook(t, path, testHeader, [][]interface{}{
		{1, "5-15", 6, 0.6, 0.6, 59},
		{2, "45-55", 4, 0.4, 1.0, 100},
	})

	store := NewStore(map[distribution.Category]string{
		distribution.CategoryO: path,
	})

	before, err := store.Table(distribution.CategoryO)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}

	store.Invalidate()

	after, err := store.Table(distribution.CategoryO)
	if err != nil {
		t.Fatalf("Table after Invalidate: %v", err)
	}
	if after == before {
		t.Error("expected a fresh table after Invalidate")
	}
	if got := after.Sample(0); got != 10 {
		t.Errorf("Sample(0) = %d, want 10", got)
	}
}

func TestStore_MissingGroup(t *testing.T) {
	store := NewStore(map[distribution.Category]string{})

	if _, err := store.Rows(distribution.CategoryAB); !errors.Is(err, ErrNoWorkbook) {
		t.Errorf("Rows error = %v, want ErrNoWorkbook", err)
	}
}

func TestStore_TablesOmitsUnavailableGroups(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "prob_a.xlsx")
	writeWorkbook(t, pathA, testHeader, [][]interface{}{
		{1, "5-15", 6, 0.6, 0.6, 59},
		{2, "45-55", 4, 0.4, 1.0, 100},
	})

	store := NewStore(map[distribution.Category]string{
		distribution.CategoryA: pathA,
		distribution.CategoryB: filepath.Join(dir, "missing.xlsx"),
	})

	tables := store.Tables()
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if _, ok := tables[distribution.CategoryA]; !ok {
		t.Error("group A table missing")
	}
	if _, ok := tables[distribution.CategoryB]; ok {
		t.Error("group B should be omitted, its workbook is missing")
	}
}
