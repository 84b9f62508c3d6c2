// config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"time"
)

var (
	Port          string
	MongoURI      string
	MongoDatabase string
	StoreBackend  string
	ChangeStreams bool
	StaticDir     string

	JWTKey        []byte
	JWTExpiration time.Duration

	UsersFile           string
	DefaultPasswordHash string

	SuggestEndpoint string
	SuggestAPIKey   string
	SuggestModel    string
	SuggestTimeout  time.Duration
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

func LoadConfig() {
	Port = getEnv("PORT", "8080")

	MongoURI = os.Getenv("MONGODB_URI")
	if MongoURI == "" {
		MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	}
	MongoDatabase = getEnv("MONGO_DATABASE", "registry")

	StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", BackendMongo))
	if StoreBackend != BackendMongo && StoreBackend != BackendMemory {
		log.Printf("Unknown STORE_BACKEND %q, using %s", StoreBackend, BackendMongo)
		StoreBackend = BackendMongo
	}
	ChangeStreams = strings.EqualFold(os.Getenv("CHANGE_STREAMS"), "true")
	StaticDir = os.Getenv("STATIC_DIR")

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		log.Println("WARNING: JWT_SECRET not set, using an insecure development key")
		JWTKey = []byte("secret")
	}
	JWTExpiration = parseDuration("JWT_EXPIRE", 24*time.Hour)

	UsersFile = getEnv("USERS_FILE", "users.yaml")
	DefaultPasswordHash = os.Getenv("DEFAULT_PASSWORD_HASH")

	SuggestEndpoint = os.Getenv("SUGGEST_ENDPOINT")
	SuggestAPIKey = os.Getenv("SUGGEST_API_KEY")
	SuggestModel = getEnv("SUGGEST_MODEL", "gemini-1.5-flash")
	SuggestTimeout = parseDuration("SUGGEST_TIMEOUT", 20*time.Second)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseDuration accepts Go durations plus whole days such as "7d".
func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if strings.HasSuffix(raw, "d") {
		if d, err := time.ParseDuration(strings.TrimSuffix(raw, "d") + "h"); err == nil {
			return d * 24
		}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s: %s, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
