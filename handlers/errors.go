package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/registry"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/suggest"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/workflow"
)

// Error codes let the UI tell authorization failures from validation ones.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeForbidden    = "NOT_AUTHORIZED"
	CodeConfirmation = "CONFIRMATION_FAILED"
	CodeState        = "INVALID_STATE"
	CodeNotFound     = "NOT_FOUND"
	CodeStore        = "STORE_UNAVAILABLE"
	CodeSuggest      = "SUGGESTIONS_UNAVAILABLE"
)

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrValidation):
		utils.RespondWithErrorCode(w, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, registry.ErrConfirmation):
		utils.RespondWithErrorCode(w, http.StatusForbidden, CodeConfirmation, err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		utils.RespondWithErrorCode(w, http.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, workflow.ErrPrecondition):
		utils.RespondWithErrorCode(w, http.StatusConflict, CodeState, err.Error())
	case errors.Is(err, workflow.ErrNotFound):
		utils.RespondWithErrorCode(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, registry.ErrPersistence):
		log.Printf("Store failure: %v", err)
		utils.RespondWithErrorCode(w, http.StatusBadGateway, CodeStore, "The registry could not be saved. Please retry.")
	case errors.Is(err, suggest.ErrUnavailable):
		utils.RespondWithErrorCode(w, http.StatusServiceUnavailable, CodeSuggest, err.Error())
	case errors.Is(err, suggest.ErrUpstream):
		log.Printf("Suggestion failure: %v", err)
		utils.RespondWithErrorCode(w, http.StatusBadGateway, CodeSuggest, "No suggestions available right now")
	default:
		log.Printf("Unhandled error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
