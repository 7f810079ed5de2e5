package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/commette/backend/catalog"
	autherrors "github.com/commette/backend/internal/errors"
)

const noCache = "no-cache, no-store, must-revalidate"

func (s *Server) CardsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := s.deps.Catalog.Cards(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list cards")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not load cards")
			return
		}
		w.Header().Set("Cache-Control", noCache)
		writeJSON(w, http.StatusOK, cards)
	}
}

func (s *Server) CategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := s.deps.Catalog.Categories(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list categories")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not load categories")
			return
		}
		w.Header().Set("Cache-Control", noCache)
		writeJSON(w, http.StatusOK, categories)
	}
}

func (s *Server) BrandsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := s.deps.Catalog.Brands(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list brands")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not load brands")
			return
		}
		w.Header().Set("Cache-Control", noCache)
		writeJSON(w, http.StatusOK, brands)
	}
}

// CreateProductHandler lists a product for the seller in the session.
func (s *Server) CreateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product catalog.Product
		if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
			return
		}

		sellerID, _ := r.Context().Value(ContextKeyUserID).(int64)

		productID, err := s.deps.Catalog.Create(r.Context(), sellerID, product)
		if err != nil {
			log.Error().Err(err).Msg("create product")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not create product")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message":    "product created",
			"id_product": productID,
		})
	}
}

func (s *Server) UpdateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := strconv.ParseInt(r.PathValue("id_product"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "product id must be numeric")
			return
		}

		var update catalog.ProductUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
			return
		}
		update.ID = productID

		err = s.deps.Catalog.Update(r.Context(), update)
		if autherrors.Is(err, catalog.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("update product")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not update product")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "product updated"})
	}
}

func (s *Server) DeleteProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := strconv.ParseInt(r.PathValue("id_product"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "product id must be numeric")
			return
		}

		err = s.deps.Catalog.Delete(r.Context(), productID)
		if autherrors.Is(err, catalog.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("delete product")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not delete product")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
	}
}

func (s *Server) ProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := s.deps.Catalog.ProductInfo(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list products")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not load products")
			return
		}
		w.Header().Set("Cache-Control", noCache)
		writeJSON(w, http.StatusOK, infos)
	}
}

func (s *Server) ProductByIDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := strconv.ParseInt(r.PathValue("id_product"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "product id must be numeric")
			return
		}

		info, err := s.deps.Catalog.GetByID(r.Context(), productID)
		if autherrors.Is(err, catalog.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("get product")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not load product")
			return
		}

		w.Header().Set("Cache-Control", noCache)
		writeJSON(w, http.StatusOK, info)
	}
}

func (s *Server) ProductsByUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.PathValue("id_user"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "user id must be numeric")
			return
		}

		infos, err := s.deps.Catalog.ByUser(r.Context(), userID)
		if err != nil {
			log.Error().Err(err).Msg("list user products")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not load products")
			return
		}
		w.Header().Set("Cache-Control", noCache)
		writeJSON(w, http.StatusOK, infos)
	}
}
