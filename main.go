package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/storefront-listings/api"
	"github.com/raushankrgupta/storefront-listings/config"
	"github.com/raushankrgupta/storefront-listings/listings"
	"github.com/raushankrgupta/storefront-listings/measure"
	"github.com/raushankrgupta/storefront-listings/sources"
	"github.com/raushankrgupta/storefront-listings/sources/catalog"
	"github.com/raushankrgupta/storefront-listings/utils"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	if err := utils.InitLogger(config.LogLevel); err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer utils.Logger.Sync()

	pages, err := config.LoadPages(config.PagesFile)
	if err != nil {
		utils.Logger.Fatal("Failed to load page registry", zap.Error(err))
	}

	source, err := sources.GetSource(config.ListingsSource)
	if err != nil {
		utils.Logger.Fatal("Failed to pick listing source", zap.Error(err))
	}

	pipeline := listings.NewPipeline(source, config.ListingsSource)
	pipeline.ThumbWidth = config.ThumbWidth
	pipeline.Prober = listings.NewImageProber(config.PublicDir, config.ImageBaseURL)
	if config.MeasureBaseURL != "" {
		pipeline.Measurer = measure.NewCached(measure.Chain{
			measure.NewChromeDP(),
			measure.NewSelenium(config.ChromeDriver),
		})
	}

	listingsAPI := &api.ListingsAPI{
		Pipeline:       pipeline,
		Pages:          pages,
		PagesDir:       config.PagesDir,
		MeasureBaseURL: config.MeasureBaseURL,
		JWTSecret:      config.JWTSecret,

		AdminUser:         config.AdminUser,
		AdminPasswordHash: config.AdminPassHash,
	}
	if mailer := utils.NewMailer(config.SendGridKey, config.NotifyFrom, config.NotifyEmail); mailer != nil {
		listingsAPI.Mailer = mailer
	}

	// Initialize MongoDB when configured; it backs the admin import
	if config.MongoURI != "" {
		if err := utils.ConnectMongo(config.MongoURI); err != nil {
			utils.Logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		listingsAPI.Store = catalog.NewMongoStore(config.MongoDatabase)
	}

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           api.NewRouter(listingsAPI, config.PublicDir),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Logger.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("source", config.ListingsSource),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	utils.DisconnectMongo(ctx)
}
