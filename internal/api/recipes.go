package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
)

// RecipeSaveRequest represents a request to save a recipe
type RecipeSaveRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Tags        []string                 `json:"tags,omitempty"`
	Operations  []cipher.OperationConfig `json:"operations"`
	Reversible  *bool                    `json:"reversible,omitempty"`
}

// RecipeListResponse represents the list of recipes
type RecipeListResponse struct {
	Recipes []*cipher.Recipe `json:"recipes"`
	Count   int              `json:"count"`
}

// RecipeRunRequest runs a stored recipe forwards or backwards
type RecipeRunRequest struct {
	Input   string `json:"input"`
	Reverse bool   `json:"reverse,omitempty"`
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.svc.Recipes(r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recipes == nil {
		recipes = []*cipher.Recipe{}
	}
	s.writeJSON(w, http.StatusOK, RecipeListResponse{Recipes: recipes, Count: len(recipes)})
}

func (s *Server) handleSaveRecipe(w http.ResponseWriter, r *http.Request) {
	var req RecipeSaveRequest
	if !s.decode(w, r, &req) {
		return
	}
	reversible := true
	if req.Reversible != nil {
		reversible = *req.Reversible
	}
	recipe := &cipher.Recipe{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Tags:        req.Tags,
		Pipeline:    cipher.Pipeline{Operations: req.Operations, Reversible: reversible},
	}
	if err := s.svc.SaveRecipe(recipe); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, recipe)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.svc.Recipe(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRecipe(mux.Vars(r)["name"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunRecipe(w http.ResponseWriter, r *http.Request) {
	var req RecipeRunRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.svc.RunRecipe(r.Context(), mux.Vars(r)["name"], []byte(req.Input), req.Reverse)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, OutputResponse{Output: string(out)})
}
