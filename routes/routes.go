package routes

import (
	"log"
	"strings"

	"github.com/gorilla/mux"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/handlers"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/middleware"
)

var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathAPI       = "/api"
	PathHealth    = "/health"
	PathWebSocket = "/ws"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// PUBLIC
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	// authenticates its own token query parameter
	r.HandleFunc(PathWebSocket, handlers.HandleWebSocket).Methods("GET")

	// ====================
	// PROTECTED API ROUTES
	// ====================
	api := r.PathPrefix(PathAPI).Subrouter()
	api.Use(middleware.AuthMiddleware)

	api.HandleFunc("/auth/me", handlers.GetCurrentUser).Methods(MethodsGetOnly...)

	// ====================
	// REGISTRY ENTRIES
	// ====================
	api.HandleFunc("/items", handlers.ListItems).Methods(MethodsGetOnly...)
	api.HandleFunc("/items", handlers.CreateItem).Methods(MethodsPostOnly...)
	api.HandleFunc("/items/{id}", handlers.GetItem).Methods(MethodsGetOnly...)
	api.HandleFunc("/items/{id}", handlers.UpdateItem).Methods(MethodsPutOnly...)
	api.HandleFunc("/items/{id}", handlers.DeleteItem).Methods(MethodsDeleteOnly...)
	api.HandleFunc("/items/{id}/audit-trail", handlers.GetAuditTrail).Methods(MethodsGetOnly...)

	// ====================
	// ACTION PLANS
	// ====================
	api.HandleFunc("/items/{id}/plans", handlers.AddActionPlan).Methods(MethodsPostOnly...)
	api.HandleFunc("/items/{id}/plans/{planId}", handlers.RemoveActionPlan).Methods(MethodsDeleteOnly...)
	api.HandleFunc("/items/{id}/plans/{planId}/submit", handlers.SubmitActionPlan).Methods(MethodsPostOnly...)
	api.HandleFunc("/items/{id}/plans/{planId}/review", handlers.ReviewActionPlan).Methods(MethodsPostOnly...)

	// ====================
	// IQA VERIFICATION
	// ====================
	api.HandleFunc("/items/{id}/verify", handlers.VerifyItem).Methods(MethodsPostOnly...)
	api.HandleFunc("/items/{id}/reopen", handlers.ReopenItem).Methods(MethodsPostOnly...)
	api.HandleFunc("/items/{id}/request-plan", handlers.RequestActionPlan).Methods(MethodsPostOnly...)

	// ====================
	// DASHBOARD
	// ====================
	api.HandleFunc("/dashboard/summary", handlers.GetDashboardSummary).Methods(MethodsGetOnly...)
	api.HandleFunc("/dashboard/overdue", handlers.GetOverduePlans).Methods(MethodsGetOnly...)

	// ====================
	// SUGGESTIONS
	// ====================
	api.HandleFunc("/suggestions/descriptions", handlers.SuggestDescriptions).Methods(MethodsPostOnly...)
	api.HandleFunc("/suggestions/action-plans", handlers.SuggestActionPlans).Methods(MethodsPostOnly...)
}

// LogRoutes prints the route table.
func LogRoutes(r *mux.Router) {
	r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		t, err := route.GetPathTemplate()
		if err == nil {
			methods, _ := route.GetMethods()
			log.Printf("Route: %s %s", strings.Join(methods, ","), t)
		}
		return nil
	})
}
