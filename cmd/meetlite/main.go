package main

import (
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/folkengine/goname"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/pflag"

	"github.com/meetlite/meetlite/config"
	"github.com/meetlite/meetlite/globals"
	"github.com/meetlite/meetlite/mail"
	"github.com/meetlite/meetlite/persistence"
	"github.com/meetlite/meetlite/ws"
)

var (
	configPath = pflag.StringP("config", "c", "", "path to config file or directory")
	addr       = pflag.String("addr", "0.0.0.0:5000", "service address (including port)")
	sslCert    = pflag.String("ssl-cert", "", "SSL cert for websocket (optional)")
	sslKey     = pflag.String("ssl-key", "", "SSL key for websocket (optional)")

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	hub *ws.Hub
)

func main() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		<-c
		globals.AppLogger.Info("interrupted, shutting down")
		os.Exit(0)
	}()

	_ = godotenv.Load()

	flagSet := config.GetFlagSet()
	pflag.CommandLine.AddFlagSet(flagSet)
	pflag.Parse()

	globalConfig, err := config.ReadConfiguration(*configPath, flagSet)
	if err != nil {
		panic(err)
	}

	if globalConfig.LogLevel != "" {
		globals.AppLogger.SetLevel(hclog.LevelFromString(globalConfig.LogLevel))
	}

	persister, err := persistence.NewPersister(globalConfig)
	if err != nil {
		panic(err)
	}
	if persister != nil {
		defer persister.Close()
	}

	mailer := mail.New(globalConfig)

	hub = ws.NewHub(globalConfig, mailer, persister)
	go hub.Run()

	router := mux.NewRouter()
	router.HandleFunc("/ws", websocketHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	}).Handler(router)

	globals.AppLogger.Info("listening", "addr", *addr)
	if *sslCert != "" && *sslKey != "" {
		err = http.ListenAndServeTLS(*addr, *sslCert, *sslKey, handler)
	} else {
		err = http.ListenAndServe(*addr, handler)
	}
	globals.AppLogger.Error("stopped listening", "error", err)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Handle incoming websockets. Identity arrives later with create-room or
// join-room, so connections start out anonymous with a guest name.
func websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		globals.AppLogger.Error("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close() //nolint

	guestName := goname.New(goname.FantasyMap).FirstLast() + " (guest)"
	client := ws.NewClient(hub, conn, uuid.NewString(), guestName)

	hub.Register <- client
	defer func() {
		hub.Unregister <- client
	}()

	go client.WriteLoop()
	client.ReadLoop()
}
