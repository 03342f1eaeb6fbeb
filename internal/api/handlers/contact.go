package handlers

import (
	"net/http"

	"github.com/ddkspices/storefront/internal/models"
	service "github.com/ddkspices/storefront/internal/services"
	"github.com/ddkspices/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ContactHandler struct {
	contactService *service.ContactService
	validator      *validator.Validate
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		validator:      validator.New(),
	}
}

func (h *ContactHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ContactRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		receipt := h.contactService.SubmitInquiry(r.Context(), &req)

		response.Success(w, http.StatusOK, receipt)
	}
}
