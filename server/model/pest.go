package model

import (
	"fmt"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/classify"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
)

// Pesticide is one pest-to-pesticide recommendation row.
// Rows come either from the pestopia CSV or from the built-in fallback table,
// so ApplicationRate and Effectiveness can be empty.
type Pesticide struct {
	BaseModel
	PestName        string `json:"pestName"`
	PesticideName   string `json:"pesticideName"`
	ApplicationRate string `json:"applicationRate,omitempty" gorm:"default:null"`
	Effectiveness   string `json:"effectiveness,omitempty" gorm:"default:null"`
}

// Detection is one classified image.
// The image itself (with the detection overlay burned in) lives in blob
// storage under the key returned by ImageKey.
type Detection struct {
	BaseModel
	CreatedBy  int64                                 `json:"createdBy"`
	CreatedAt  dbh.IntTime                           `json:"createdAt"`
	PestClass  int                                   `json:"pestClass"`
	PestName   string                                `json:"pestName"`
	Confidence float32                               `json:"confidence"`
	Uncertain  bool                                  `json:"uncertain"` // Confidence below the caller's threshold
	Top        *dbh.JSONField[[]classify.Prediction] `json:"top"`
	HasImage   bool                                  `json:"hasImage"`
}

// ImageKey is the blob storage key of the archived image
func (d *Detection) ImageKey() string {
	return fmt.Sprintf("detections/%v/%v.jpg", d.CreatedAt.Get().Format("2006-01"), d.ID)
}
