// Package detect is the detection pipeline: decode an uploaded image, run
// the pest classifier, apply the caller's confidence threshold, persist the
// outcome, archive the image, and push it to websocket subscribers.
package detect

import (
	"bytes"
	"sync"
	"time"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/classify"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/recommend"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/storage"
	"github.com/bmharper/cimg/v2"
	"github.com/bmharper/ringbuffer"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// Number of detections kept in memory for the "recent" endpoint
const RecentBufferSize = 64

// JPEG quality of archived detection images
const archiveJPEGQuality = 90

type DetectServer struct {
	log         logs.Log
	db          *gorm.DB
	classifier  classify.Classifier
	recommender *recommend.RecommendServer
	storage     storage.Storage

	wsUpgrader websocket.Upgrader

	recentLock sync.Mutex
	recent     ringbuffer.RingP[model.Detection]

	feedLock     sync.Mutex
	feedClients  []*feedClient
	nFeedSent    int64
	nFeedDropped int64
	lastDropMsg  time.Time
}

func NewDetectServer(log logs.Log, db *gorm.DB, classifier classify.Classifier, recommender *recommend.RecommendServer, stor storage.Storage) *DetectServer {
	return &DetectServer{
		log:         log,
		db:          db,
		classifier:  classifier,
		recommender: recommender,
		storage:     stor,
		recent:      ringbuffer.NewRingP[model.Detection](RecentBufferSize),
	}
}

// Detect runs the classifier on img and persists the outcome.
// threshold is the confidence below which the detection is flagged uncertain.
// The archived JPEG gets the detection overlay, unless the result is
// uncertain, in which case we store the frame as-is.
func (s *DetectServer) Detect(img *cimg.Image, threshold float32, userID int64) (*model.Detection, error) {
	result, err := s.classifier.ClassifyImage(img)
	if err != nil {
		return nil, err
	}
	uncertain := result.Primary.Confidence < threshold

	archive := img
	if !uncertain {
		archive = classify.DrawOverlay(img, result.Primary.Label, result.Primary.Confidence)
	}
	jpg, err := classify.CompressJPEG(archive, archiveJPEGQuality)
	if err != nil {
		return nil, err
	}

	det := model.Detection{
		CreatedBy:  userID,
		CreatedAt:  dbh.MakeIntTime(time.Now()),
		PestClass:  result.Primary.Class,
		PestName:   result.Primary.Label,
		Confidence: result.Primary.Confidence,
		Uncertain:  uncertain,
		Top:        dbh.MakeJSONField(result.Top),
		HasImage:   true,
	}

	// The image key embeds the row ID, so the row must exist before we can
	// write to storage. If the storage write fails, the transaction rolls
	// back and the client gets an error, not a detection without an image.
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()
	if err := tx.Create(&det).Error; err != nil {
		return nil, err
	}
	if err := storage.WriteFile(s.storage, det.ImageKey(), bytes.NewReader(jpg)); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.addRecent(&det)
	s.publishDetection(&det)
	if uncertain {
		s.log.Infof("Detection %v: no pest above threshold %.2f (best %v %.3f)", det.ID, threshold, det.PestName, det.Confidence)
	} else {
		s.log.Infof("Detection %v: %v %.3f", det.ID, det.PestName, det.Confidence)
	}
	return &det, nil
}

// Recent returns up to count of the latest detections, newest first, without
// touching the database.
func (s *DetectServer) Recent(count int) []model.Detection {
	s.recentLock.Lock()
	defer s.recentLock.Unlock()
	if count <= 0 || count > s.recent.Len() {
		count = s.recent.Len()
	}
	out := make([]model.Detection, 0, count)
	for i := s.recent.Len() - 1; i >= s.recent.Len()-count; i-- {
		out = append(out, s.recent.Peek(i))
	}
	return out
}

func (s *DetectServer) addRecent(det *model.Detection) {
	s.recentLock.Lock()
	defer s.recentLock.Unlock()
	s.recent.Add(*det)
}
