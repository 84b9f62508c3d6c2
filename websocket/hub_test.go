package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

func dial(t *testing.T, hub *Hub, actor models.Actor) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, actor)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) Update {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var u Update
	if err := json.Unmarshal(data, &u); err != nil {
		t.Fatalf("Unmarshal %s: %v", data, err)
	}
	return u
}

func TestHubBroadcastsToEverySession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	owner := dial(t, hub, models.Actor{Name: "Pharmacy", Section: "Pharmacy"})
	auditor := dial(t, hub, models.Actor{Name: "IQA", IQA: true})

	if u := readUpdate(t, owner); u.Type != TypeWelcome || u.Section != "Pharmacy" {
		t.Errorf("owner welcome = %+v", u)
	}
	if u := readUpdate(t, auditor); u.Type != TypeWelcome {
		t.Errorf("auditor welcome = %+v", u)
	}

	hub.RegistryChanged()
	for _, conn := range []*websocket.Conn{owner, auditor} {
		if u := readUpdate(t, conn); u.Type != TypeRegistryChanged {
			t.Errorf("update = %+v, want %s", u, TypeRegistryChanged)
		}
	}

	hub.ActionPlanRequested(models.RegistryItem{ID: "r-1", Section: "Pharmacy", Process: "Dispensing"}, models.Actor{Name: "IQA", IQA: true})
	u := readUpdate(t, owner)
	if u.Type != TypeActionPlanRequested || u.ItemID != "r-1" || u.Section != "Pharmacy" || u.UserName != "IQA" {
		t.Errorf("request update = %+v", u)
	}
}

func TestBroadcastWithoutRunnerDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.RegistryChanged()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Broadcast blocked")
	}
}
