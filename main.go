package main

import (
	"log"
	"net/http"
	"os"

	"github.com/soggypotatoes/shop/app/cmd"
	"github.com/soggypotatoes/shop/app/configs"
	"github.com/soggypotatoes/shop/app/routes"
)

func main() {
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("INFO: Database connected")

	router := routes.NewRouter(db)

	port := configs.LoadENV.Port
	if port == "" {
		port = ":8080"
	}

	server := http.Server{
		Addr:    port,
		Handler: router,
	}

	log.Printf("INFO: Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server stopped:", err)
	}
}
