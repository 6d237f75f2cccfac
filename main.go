package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/tmhr1850/kifu-app2-sub000/internal/search"
)

// waitShutdown stops e once sigint delivers an interrupt.
func waitShutdown(e *echo.Echo, sigint chan os.Signal, idleConnsClosed chan<- interface{}) {
	defer close(idleConnsClosed)

	signal.Notify(sigint, os.Interrupt)
	defer signal.Stop(sigint)

	<-sigint
	log.Info("received shutdown signal")

	idleError("HTTP server shutdown:", e.Shutdown(context.Background()))
}

func listenAndServe(srv *server, addr string, sigint chan os.Signal, idleConnsClosed chan<- interface{}) {
	e := apiHandler(srv)
	go waitShutdown(e, sigint, idleConnsClosed)

	e.Use(middleware.Logger())

	idleError("HTTP server end:", e.Start(addr))
}

// Open serves the API on addr until sigint delivers an interrupt.
func Open(srv *server, addr string, sigint chan os.Signal) {
	idleConnsClosed := make(chan interface{})
	go listenAndServe(srv, addr, sigint, idleConnsClosed)
	<-idleConnsClosed
}

// Close releases the server's database.
func (srv *server) Close() error {
	return closeDB(srv.db)
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	memory := flag.Bool("memory", false, "keep games in memory only")
	threads := flag.Int("threads", 1, "search threads per agent move")
	step := flag.Duration("step", 500*time.Millisecond, "agent thinking time per level")
	flag.Parse()

	var database *gorm.DB
	if !*memory {
		dbname, ok := os.LookupEnv("PGDATABASE")
		if !ok {
			dbname = "kifu"
		}
		opened, err := openDB(dbname)
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
		database = opened
	}

	options := search.NewOptions()
	options.Threads = *threads
	srv := newServer(database, search.NewEngine(options), *step)
	defer func() {
		idleError("close server:", srv.Close())
	}()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for now := range ticker.C {
			srv.idle(now)
		}
	}()
	Open(srv, *addr, make(chan os.Signal, 1))
}
