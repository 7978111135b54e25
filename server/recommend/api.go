package recommend

import (
	"net/http"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/www"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/auth"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"github.com/julienschmidt/httprouter"
)

// HttpRecommend returns the treatments for the pest named in the URL.
// No match is an empty list, not an error.
func (s *RecommendServer) HttpRecommend(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	recs, err := s.Lookup(params.ByName("pest"))
	www.Check(err)
	www.SendJSON(w, recs)
}

// HttpAllPests returns the distinct pest names in the treatment table.
func (s *RecommendServer) HttpAllPests(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	pests, err := s.AllPests()
	www.Check(err)
	www.SendJSON(w, pests)
}

// HttpAddPesticide adds a single treatment row. Admin only.
func (s *RecommendServer) HttpAddPesticide(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	p := model.Pesticide{}
	www.ReadJSON(w, r, &p, 1024*1024)
	if err := s.AddPesticide(&p); err != nil {
		www.PanicBadRequestf("%v", err)
	}
	s.log.Infof("User %v added treatment %v for %v", cred.UserID, p.PesticideName, p.PestName)
	www.SendJSONID(w, p.ID)
}

// HttpImport loads the treatment table from a CSV request body. Admin only.
// mode=replace (the default) wipes the table first, mode=append adds rows.
func (s *RecommendServer) HttpImport(w http.ResponseWriter, r *http.Request, params httprouter.Params, cred *auth.Credentials) {
	mode := ImportMode(www.QueryValue(r, "mode"))
	switch mode {
	case "":
		mode = ImportReplace
	case ImportReplace, ImportAppend:
	default:
		www.PanicBadRequestf("Unknown import mode '%v'", mode)
	}
	r.Body = http.MaxBytesReader(w, r.Body, 32*1024*1024)
	nRows, err := s.ImportCSV(r.Body, mode)
	www.Check(err)
	s.log.Infof("User %v imported %v treatments (mode %v)", cred.UserID, nRows, mode)
	www.SendJSON(w, &struct {
		NumRows int `json:"numRows"`
	}{
		NumRows: nRows,
	})
}
