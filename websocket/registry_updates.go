package websocket

import (
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

const (
	TypeWelcome             = "WELCOME"
	TypeRegistryChanged     = "REGISTRY_CHANGED"
	TypeActionPlanRequested = "ACTION_PLAN_REQUESTED"
)

// Update is a realtime notice. Clients re-list the registry on
// REGISTRY_CHANGED rather than patching local state.
type Update struct {
	Type      string    `json:"type"`
	ItemID    string    `json:"itemId,omitempty"`
	Section   string    `json:"section,omitempty"`
	Process   string    `json:"process,omitempty"`
	UserName  string    `json:"userName,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RegistryChanged tells every session to reload.
func (h *Hub) RegistryChanged() {
	h.Broadcast(Update{Type: TypeRegistryChanged})
}

// ActionPlanRequested asks the owning section for an action plan.
func (h *Hub) ActionPlanRequested(item models.RegistryItem, by models.Actor) {
	h.Broadcast(Update{
		Type:     TypeActionPlanRequested,
		ItemID:   item.ID,
		Section:  item.Section,
		Process:  item.Process,
		UserName: by.Name,
	})
}
