package cipher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testRecipe(name string) *Recipe {
	return &Recipe{
		Name:        name,
		Description: "mirror then multiply",
		Tags:        []string{"test", "modular"},
		Pipeline: Pipeline{
			Operations: []OperationConfig{
				{Name: "mirror_encrypt"},
				{Name: "modular_encrypt", Parameters: map[string]interface{}{"key": 7}},
			},
			Reversible: true,
		},
	}
}

func TestRecipeManagerSaveAndGet(t *testing.T) {
	rm := NewRecipeManager("")

	if err := rm.SaveRecipe(testRecipe("test-recipe")); err != nil {
		t.Fatalf("SaveRecipe failed: %v", err)
	}

	retrieved, exists := rm.GetRecipe("test-recipe")
	if !exists {
		t.Fatal("recipe should exist")
	}
	if retrieved.Description != "mirror then multiply" {
		t.Errorf("unexpected description %q", retrieved.Description)
	}
	if retrieved.CreatedAt == "" || retrieved.UpdatedAt == "" {
		t.Error("timestamps should be set")
	}
}

func TestRecipeManagerKeepsCreatedAt(t *testing.T) {
	rm := NewRecipeManager("")
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rm.now = func() time.Time { return clock }

	rm.SaveRecipe(testRecipe("r"))
	clock = clock.Add(time.Hour)
	rm.SaveRecipe(testRecipe("r"))

	got, _ := rm.GetRecipe("r")
	if got.CreatedAt != "2024-01-01T00:00:00Z" {
		t.Errorf("CreatedAt changed to %s", got.CreatedAt)
	}
	if got.UpdatedAt != "2024-01-01T01:00:00Z" {
		t.Errorf("UpdatedAt not refreshed: %s", got.UpdatedAt)
	}
}

func TestRecipeManagerValidation(t *testing.T) {
	rm := NewRecipeManager("")

	if err := rm.SaveRecipe(&Recipe{}); !errors.Is(err, ErrInvalidRecipe) {
		t.Errorf("expected ErrInvalidRecipe for empty name, got %v", err)
	}
	if err := rm.SaveRecipe(&Recipe{Name: "empty"}); !errors.Is(err, ErrInvalidRecipe) {
		t.Errorf("expected ErrInvalidRecipe for recipe without operations, got %v", err)
	}
	bad := &Recipe{Name: "bad", Pipeline: Pipeline{Operations: []OperationConfig{{Name: "rot13"}}}}
	if err := rm.SaveRecipe(bad); !errors.Is(err, ErrInvalidRecipe) {
		t.Errorf("expected ErrInvalidRecipe for unknown operation, got %v", err)
	}
}

func TestRecipeManagerListAndDelete(t *testing.T) {
	rm := NewRecipeManager("")
	rm.SaveRecipe(testRecipe("zeta"))
	rm.SaveRecipe(testRecipe("alpha"))

	list := rm.ListRecipes()
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zeta" {
		t.Fatalf("expected [alpha zeta], got %v", list)
	}

	if err := rm.DeleteRecipe("alpha"); err != nil {
		t.Fatalf("DeleteRecipe failed: %v", err)
	}
	if _, exists := rm.GetRecipe("alpha"); exists {
		t.Error("recipe should be deleted")
	}
	if err := rm.DeleteRecipe("alpha"); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestRecipeManagerPersistence(t *testing.T) {
	dir := t.TempDir()

	rm := NewRecipeManager(dir)
	if err := rm.SaveRecipe(testRecipe("persist me")); err != nil {
		t.Fatalf("SaveRecipe failed: %v", err)
	}

	path := filepath.Join(dir, "persist_me.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("recipe file not written: %v", err)
	}

	rm2 := NewRecipeManager(dir)
	if err := rm2.LoadRecipes(); err != nil {
		t.Fatalf("LoadRecipes failed: %v", err)
	}

	loaded, exists := rm2.GetRecipe("persist me")
	if !exists {
		t.Fatal("recipe should be loaded from disk")
	}
	if len(loaded.Pipeline.Operations) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(loaded.Pipeline.Operations))
	}

	// params decoded from YAML must still drive the operation
	out, err := rm2.RunRecipe(context.Background(), "persist me", []byte("HI"), false)
	if err != nil {
		t.Fatalf("RunRecipe failed: %v", err)
	}
	back, err := rm2.RunRecipe(context.Background(), "persist me", out, true)
	if err != nil {
		t.Fatalf("reverse RunRecipe failed: %v", err)
	}
	if string(back) != "HI" {
		t.Errorf("expected %q, got %q", "HI", back)
	}

	if err := rm2.DeleteRecipe("persist me"); err != nil {
		t.Fatalf("DeleteRecipe failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("recipe file should be removed, stat err = %v", err)
	}
}

func TestRecipeManagerLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [unterminated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := NewRecipeManager(dir).LoadRecipes(); err == nil {
		t.Error("expected parse error")
	}
}

func TestRecipeManagerRunUnknown(t *testing.T) {
	_, err := NewRecipeManager("").RunRecipe(context.Background(), "missing", nil, false)
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestSearchRecipes(t *testing.T) {
	rm := NewRecipeManager("")
	rm.SaveRecipe(&Recipe{
		Name:        "board-twice",
		Description: "Two knight moves",
		Tags:        []string{"chess"},
		Pipeline:    Pipeline{Operations: []OperationConfig{{Name: "board_encrypt"}, {Name: "board_encrypt"}}},
	})
	rm.SaveRecipe(testRecipe("mod-mirror"))

	tests := []struct {
		query string
		want  int
	}{
		{"board", 1},
		{"KNIGHT", 1},
		{"chess", 1},
		{"modular", 1},
		{"-", 2},
		{"nothing", 0},
	}
	for _, tt := range tests {
		if got := len(rm.SearchRecipes(tt.query)); got != tt.want {
			t.Errorf("SearchRecipes(%q) returned %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"simple":      "simple",
		"with space":  "with_space",
		"../../etc":   "etc",
		"!!!":         "recipe",
		"mixed-Case_": "mixed-Case_",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
