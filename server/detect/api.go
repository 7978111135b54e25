package detect

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/classify"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/www"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/auth"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"github.com/bmharper/cimg/v2"
	"github.com/julienschmidt/httprouter"
	"gorm.io/gorm"
)

// Generous limit for phone camera photos
const maxUploadBytes = 16 * 1024 * 1024

// HttpDetect classifies the image in the request body.
// The body is either a raw image, or a multipart form with an "image" (or
// "file") field. The optional "threshold" query parameter overrides the
// default confidence threshold. The response carries the stored detection,
// plus treatment recommendations when a pest was identified.
func (s *DetectServer) HttpDetect(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	threshold := www.QueryFloat64(r, "threshold", classify.DefaultConfidenceThreshold)
	if threshold < 0 || threshold > 1 {
		www.PanicBadRequestf("threshold must be between 0 and 1")
	}
	img := s.readImage(w, r)

	det, err := s.Detect(img, float32(threshold), cred.UserID)
	www.Check(err)

	var recs []model.Pesticide
	if !det.Uncertain {
		recs, err = s.recommender.Lookup(det.PestName)
		www.Check(err)
	}
	www.SendJSON(w, &struct {
		Detection       *model.Detection  `json:"detection"`
		Recommendations []model.Pesticide `json:"recommendations,omitempty"`
	}{
		Detection:       det,
		Recommendations: recs,
	})
}

// HttpRecent returns the latest detections from the in-memory ring buffer,
// newest first. count=0 returns everything in the buffer.
func (s *DetectServer) HttpRecent(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	www.SendJSON(w, s.Recent(www.QueryInt(r, "count")))
}

// HttpList returns detection history from the database, newest first.
func (s *DetectServer) HttpList(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	count := www.QueryInt(r, "count")
	if count <= 0 {
		count = 100
	}
	dets := []model.Detection{}
	www.Check(s.db.Order("id DESC").Limit(count).Find(&dets).Error)
	www.SendJSON(w, dets)
}

// HttpImage serves the archived JPEG of a detection.
func (s *DetectServer) HttpImage(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	det := s.getDetectionOrPanic(params.ByName("id"))
	if !det.HasImage {
		www.PanicNotFound()
	}
	file, err := s.storage.ReadFile(det.ImageKey())
	www.Check(err)
	defer file.Reader.Close()
	w.Header().Set("Content-Type", "image/jpeg")
	io.Copy(w, file.Reader)
}

func (s *DetectServer) getDetectionOrPanic(idStr string) *model.Detection {
	det := model.Detection{}
	err := s.db.First(&det, www.ParseID(idStr)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		www.PanicNotFound()
	}
	www.Check(err)
	return &det
}

func (s *DetectServer) readImage(w http.ResponseWriter, r *http.Request) *cimg.Image {
	var raw []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, _, err := r.FormFile("image")
		if err == http.ErrMissingFile {
			file, _, err = r.FormFile("file")
		}
		if err != nil {
			www.PanicBadRequestf("Multipart upload needs an 'image' file field")
		}
		defer file.Close()
		raw, err = io.ReadAll(file)
		www.Check(err)
	} else {
		raw = www.ReadLimited(w, r, maxUploadBytes)
	}
	if len(raw) == 0 {
		www.PanicBadRequestf("Request contains no image")
	}
	img, err := classify.DecodeRGB(raw)
	if err != nil {
		www.PanicBadRequestf("Failed to decode image: %v", err)
	}
	return img
}
