package server

import (
	"net/http"
	"os"
	"time"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/www"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/auth"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"github.com/julienschmidt/httprouter"
)

type pingJSON struct {
	Greeting string `json:"greeting"`
	Hostname string `json:"hostname"`
	Time     int64  `json:"time"`
}

// SYNC-SYSTEM-INFO-JSON
type systemInfoJSON struct {
	Version         string `json:"version"`
	Architecture    string `json:"architecture"` // Classifier model architecture, eg "mobilenetv2"
	ModelWidth      int    `json:"modelWidth"`
	ModelHeight     int    `json:"modelHeight"`
	NumClasses      int    `json:"numClasses"`
	NumDetections   int64  `json:"numDetections"`
	NumPesticides   int64  `json:"numPesticides"`
	NumFeedClients  int    `json:"numFeedClients"`
	UptimeSeconds   int64  `json:"uptimeSeconds"`
}

func (s *Server) httpSystemPing(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	hostname, _ := os.Hostname()
	ping := &pingJSON{
		Greeting: "I am PestServer",
		Hostname: hostname,
		Time:     time.Now().Unix(),
	}
	www.SendJSON(w, ping)
}

func (s *Server) httpSystemInfo(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	nDetections := int64(0)
	www.Check(s.DB.Model(&model.Detection{}).Count(&nDetections).Error)
	nPesticides := int64(0)
	www.Check(s.DB.Model(&model.Pesticide{}).Count(&nPesticides).Error)
	modelConfig := s.classifier.Config()
	info := &systemInfoJSON{
		Version:        Version,
		Architecture:   modelConfig.Architecture,
		ModelWidth:     modelConfig.Width,
		ModelHeight:    modelConfig.Height,
		NumClasses:     len(modelConfig.Classes),
		NumDetections:  nDetections,
		NumPesticides:  nPesticides,
		NumFeedClients: s.detect.NumFeedClients(),
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
	}
	www.SendJSON(w, info)
}

func (s *Server) httpSystemShutdown(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	www.SendText(w, "Shutting down...")
	// We run the shutdown from a new goroutine so that this HTTP handler can return,
	// which tells the HTTP framework that this request is finished.
	go s.Shutdown()
}
