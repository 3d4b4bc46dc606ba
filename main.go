package main

import (
	"embed"
	"io/fs"
	"log"
	"path/filepath"

	"countrydash/internal/config"
	"countrydash/internal/dataset"
	"countrydash/internal/gallery"
	"countrydash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates/*.html ui/static
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	roots := config.SearchRoots()

	// A missing or broken dataset still serves every page with "no data"
	loader := dataset.NewLoader(dataset.LoaderConfig{
		DataDir:     appConfig.Data.Dir,
		FileName:    appConfig.Data.FileName,
		Candidates:  appConfig.Data.Candidates,
		SearchRoots: roots,
	})
	ds, err := loader.Load()
	if err != nil {
		log.Printf("Error loading data: %v", err)
	}

	builder := gallery.NewBuilder(gallery.Config{
		ServedDir: filepath.Join(appConfig.Gallery.StaticDir, "visualizations"),
		Sources:   config.ExpandPaths(appConfig.Gallery.Sources, roots),
	})

	assets, err := fs.Sub(embeddedFiles, "ui")
	if err != nil {
		log.Fatalf("Failed to open embedded assets: %v", err)
	}

	server := ui.NewServer(assets)
	server.ReadHeaderTimeout = appConfig.Server.ReadHeaderTimeout
	if err := server.Initialize(ds, builder); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Starting country dashboard on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
