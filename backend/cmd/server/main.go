// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/pairmatch/matchchat/backend/chat"
	"github.com/pairmatch/matchchat/backend/config"
	"github.com/pairmatch/matchchat/backend/directory"
	"github.com/pairmatch/matchchat/backend/handlers"
	"github.com/pairmatch/matchchat/backend/middleware"
	"github.com/pairmatch/matchchat/backend/notify"
	"github.com/pairmatch/matchchat/backend/storage/postgres"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	store := postgres.NewStore(db)
	if err := store.Migrate(); err != nil {
		log.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	cache := chat.NewRedisInboxCache(rdb, cfg.InboxCacheTTL)
	notifier := notify.NewRedisNotifier(rdb, log)

	registry := chat.NewThreadRegistry(store, notifier)
	blocks := chat.NewBlockRegistry(store, cache)
	consent := chat.NewConsentGate(store, cache)
	messages := chat.NewMessages(store, store, blocks, consent, registry, cache, notifier)
	reads := chat.NewReadTracker(store, store, cache)
	inbox := chat.NewInbox(store, store, blocks, cache, cfg.HideBlockedThreads)

	userDir := directory.Static{}

	threadHandler := handlers.NewThreadHandler(registry, consent, userDir)
	messageHandler := handlers.NewMessageHandler(registry, messages, reads)
	blockHandler := handlers.NewBlockHandler(blocks)
	inboxHandler := handlers.NewInboxHandler(inbox, reads)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)

	r := mux.NewRouter()
	r.Use(middleware.CORS)

	api := r.PathPrefix("/api/chat").Subrouter()
	api.Use(authMiddleware)

	// Thread endpoints
	api.HandleFunc("/threads/{userId}", threadHandler.StartChat).Methods("POST")
	api.HandleFunc("/threads/{uuid}", threadHandler.GetThread).Methods("GET")
	api.HandleFunc("/threads/{uuid}/consent", threadHandler.SetConsent).Methods("POST")

	// Message endpoints
	api.HandleFunc("/threads/{uuid}/messages", messageHandler.SendMessage).Methods("POST")
	api.HandleFunc("/threads/{uuid}/messages", messageHandler.ListMessages).Methods("GET")
	api.HandleFunc("/threads/{uuid}/seen", messageHandler.MarkSeen).Methods("POST")

	// Block endpoints
	api.HandleFunc("/block/{userId}", blockHandler.BlockUser).Methods("POST")
	api.HandleFunc("/block/{userId}", blockHandler.UnblockUser).Methods("DELETE")
	api.HandleFunc("/block/{userId}", blockHandler.GetBlockStatus).Methods("GET")

	// Inbox endpoints
	api.HandleFunc("/inbox", inboxHandler.GetInbox).Methods("GET")
	api.HandleFunc("/unread", inboxHandler.GetUnreadTotal).Methods("GET")

	// Health check (no auth required)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	log.Info("chat server starting", "port", cfg.Port, "issuer", cfg.JWTIssuer)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}
