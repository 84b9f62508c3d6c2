package registry

import (
	"context"
	"log"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/config"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/database"
)

// OpenStore returns the store selected by STORE_BACKEND. The Mongo store
// needs database.Connect to have succeeded; with CHANGE_STREAMS set it also
// follows the collection's change stream until ctx is done.
func OpenStore(ctx context.Context) (Store, error) {
	if config.StoreBackend == config.BackendMemory {
		log.Println("Using in-memory registry store; entries are lost on exit")
		return database.NewMemoryStore(), nil
	}

	store := database.NewMongoStore(database.Collection(database.RegistryCollection))
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	if config.ChangeStreams {
		go func() {
			if err := store.Watch(ctx); err != nil {
				log.Printf("Change stream stopped, falling back to local notifications: %v", err)
			}
		}()
	}
	return store, nil
}
