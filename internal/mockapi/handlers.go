package mockapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status *bool `json:"status" validate:"required"`
}

func (s *Server) listListings(w http.ResponseWriter, r *http.Request) {
	writeData(w, "", s.store.allListings())
}

func (s *Server) getListing(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.listing(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	writeData(w, "", l)
}

func (s *Server) setListingStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := s.parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, err := s.store.setListingStatus(chi.URLParam(r, "id"), *req.Status, s.opts.Now)
	if err != nil {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	writeData(w, "Property status updated", l)
}

func (s *Server) deleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	switch err := s.store.deleteListing(id); {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, errInUse):
		// The backend reports this as a refused operation, not an HTTP error.
		writeJSON(w, http.StatusOK, envelope{
			Success: false,
			Message: "Property has contact inquiries and cannot be deleted",
		})
	default:
		s.logger.Info("listing deleted", zap.String("id", id))
		writeData(w, "Property deleted successfully", nil)
	}
}

func (s *Server) listInquiries(w http.ResponseWriter, r *http.Request) {
	writeData(w, "", s.store.allInquiries())
}

func (s *Server) getInquiry(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.inquiry(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Contact inquiry not found")
		return
	}
	writeData(w, "", q)
}

func (s *Server) setInquiryStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := s.parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q, err := s.store.setInquiryStatus(chi.URLParam(r, "id"), *req.Status)
	if err != nil {
		writeError(w, http.StatusNotFound, "Contact inquiry not found")
		return
	}
	writeData(w, "Contact inquiry status updated", q)
}

func (s *Server) deleteInquiry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.deleteInquiry(id); err != nil {
		writeError(w, http.StatusNotFound, "Contact inquiry not found")
		return
	}
	s.logger.Info("inquiry deleted", zap.String("id", id))
	writeData(w, "Contact inquiry deleted successfully", nil)
}
