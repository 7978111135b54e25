// Package server is the HTTP API server: detection, recommendation, auth, storage
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/classify"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/pestdata"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/auth"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/detect"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/recommend"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/storage"
	"github.com/caddyserver/certmagic"
	"github.com/julienschmidt/httprouter"
	"gorm.io/gorm"
)

// Version is overridden at build time via -ldflags
var Version = "dev"

type Server struct {
	Log    logs.Log
	DB     *gorm.DB
	Config Config

	signalIn   chan os.Signal
	httpServer *http.Server
	httpRouter *httprouter.Router
	auth       *auth.AuthServer
	recommend  *recommend.RecommendServer
	detect     *detect.DetectServer
	storage    storage.Storage
	classifier classify.Classifier
	startedAt  time.Time
}

func NewServer(configFile string) (*Server, error) {
	cfg := Config{}
	if cfgB, err := os.ReadFile(configFile); err != nil {
		return nil, err
	} else {
		if err := json.Unmarshal(cfgB, &cfg); err != nil {
			return nil, fmt.Errorf("Error parsing config file %v: %w", configFile, err)
		}
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 8080
	}
	logger, err := logs.NewLog()
	if err != nil {
		return nil, err
	}
	db, err := openDB(logger, cfg.DB)
	if err != nil {
		return nil, err
	}
	authServer := auth.NewAuthServer(logger, db)
	if err := bootstrapAdminUser(logger, db, authServer); err != nil {
		return nil, err
	}

	// Open blob store for archived detection images
	var storageServer storage.Storage
	if cfg.DetectionStorage.GCS != nil {
		// Google Cloud Storage
		storageServer, err = storage.NewStorageGCS(logger, cfg.DetectionStorage.GCS.Bucket)
		if err != nil {
			return nil, err
		}
	} else if cfg.DetectionStorage.Filesystem != nil {
		// Filesystem
		storageServer, err = storage.NewStorageFS(logger, cfg.DetectionStorage.Filesystem.Root)
		if err != nil {
			return nil, err
		}
	} else {
		return nil, fmt.Errorf("One of the storage options must be configured (i.e. either 'filesystem' or 'gcs')")
	}

	classifier, err := loadClassifier(logger, &cfg)
	if err != nil {
		return nil, err
	}

	recommendServer := recommend.NewRecommendServer(logger, db)
	discoverDir := ""
	if cfg.DataRoot != "" {
		discoverDir = pestdata.PestopiaDir(cfg.DataRoot)
	}
	if err := recommendServer.EnsureSeeded(cfg.PesticideCSV, discoverDir); err != nil {
		return nil, err
	}

	detectServer := detect.NewDetectServer(logger, db, classifier, recommendServer, storageServer)

	s := &Server{
		Log:        logger,
		DB:         db,
		Config:     cfg,
		auth:       authServer,
		recommend:  recommendServer,
		detect:     detectServer,
		storage:    storageServer,
		classifier: classifier,
		startedAt:  time.Now(),
	}
	if err := s.setupHttpRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load the classifier, failing with a message that names the missing
// artifact and the command that produces it.
func loadClassifier(log logs.Log, cfg *Config) (classify.Classifier, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("No model configured. Set 'model' to the path of the trained .onnx file")
	}
	if _, err := os.Stat(cfg.Model); err != nil {
		return nil, fmt.Errorf("Model file %v not found. Train the model, or point 'model' at an existing .onnx file: %w", cfg.Model, err)
	}
	modelConfig := classify.DefaultModelConfig()
	if cfg.ModelConfig != "" {
		loaded, err := classify.LoadModelConfig(cfg.ModelConfig)
		if err != nil {
			return nil, fmt.Errorf("Failed to load model config %v: %w", cfg.ModelConfig, err)
		}
		modelConfig = loaded
	}
	if len(modelConfig.Classes) == 0 {
		if cfg.ClassMapping == "" {
			return nil, fmt.Errorf("No class names configured. Set 'classMapping' to the class_mapping.json written by preprocess, or use a model config with a class list")
		}
		mapping, err := pestdata.LoadClassMapping(cfg.ClassMapping)
		if err != nil {
			return nil, fmt.Errorf("Failed to load class mapping %v (preprocess writes this file): %w", cfg.ClassMapping, err)
		}
		modelConfig.Classes = mapping.Classes()
	}
	return classify.NewOnnxClassifier(log, cfg.Model, modelConfig)
}

// port example: ":8081"
func (s *Server) ListenHTTP(port string) error {
	s.Log.Infof("Listening on %v", port)
	s.httpServer = &http.Server{
		Addr:    port,
		Handler: s.httpRouter,
	}
	return s.httpServer.ListenAndServe()
}

// ListenHTTPS serves the API over TLS, with certificates from Let's Encrypt.
// certDir is where certmagic stores its certificates.
func (s *Server) ListenHTTPS(certDir string) error {
	s.Log.Infof("Listening on https://%v", s.Config.Hostname)
	certmagic.Default.Storage = &certmagic.FileStorage{Path: certDir}
	certmagic.DefaultACME.Agreed = true
	listener, err := certmagic.Listen([]string{s.Config.Hostname})
	if err != nil {
		return err
	}
	s.httpServer = &http.Server{
		Handler: s.httpRouter,
	}
	return s.httpServer.Serve(listener)
}

func (s *Server) ListenForKillSignals() {
	s.Log.Infof("ListenForKillSignals starting")
	s.signalIn = make(chan os.Signal, 1)
	signal.Notify(s.signalIn, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig, ok := <-s.signalIn
		if ok {
			s.Log.Infof("Received OS signal '%v'. ListenForKillSignals will exit after shutdown", sig.String())
			s.Shutdown()
		} else {
			// This path gets hit when Shutdown() is called by something other than ourselves, and Shutdown() closes the signalIn channel.
			s.Log.Infof("signalIn closed. ListenForKillSignals will exit now")
		}
	}()
}

func (s *Server) Shutdown() {
	s.Log.Infof("Shutdown")
	signal.Stop(s.signalIn)
	close(s.signalIn)
	s.Log.Infof("Closing HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	err := s.httpServer.Shutdown(ctx)
	defer cancel()
	if err != nil {
		s.Log.Warnf("Shutdown complete, with error: %v", err)
	} else {
		s.Log.Infof("Shutdown complete")
	}
	s.classifier.Close()
	s.Log.Close()
}
