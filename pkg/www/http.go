package www

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/julienschmidt/httprouter"
)

// RunProtected runs 'handler' inside a panic handler that recognizes our special errors,
// and sends the appropriate HTTP response if a panic does occur.
func RunProtected(log logs.Log, w http.ResponseWriter, r *http.Request, handler func()) {
	defer func() {
		if rec := recover(); rec != nil {
			if hErr, ok := rec.(HTTPError); ok {
				log.Infof("Failed request %v: %v %v", r.URL.Path, hErr.Code, hErr.Message)
				SendError(w, hErr.Message, hErr.Code)
			} else if hErr, ok := rec.(*HTTPError); ok {
				log.Infof("Failed request %v: %v %v", r.URL.Path, hErr.Code, hErr.Message)
				SendError(w, hErr.Message, hErr.Code)
			} else if err, ok := rec.(runtime.Error); ok {
				// Show stack trace on runtime error
				log.Errorf("Runtime panic error %v: %v", r.URL.Path, err)
				log.Errorf("Stack Trace: %v", string(debug.Stack()))
				SendError(w, err.Error(), http.StatusInternalServerError)
			} else if err, ok := rec.(error); ok {
				// No stack trace on generic error
				log.Errorf("Panic error %v: %v", r.URL.Path, err)
				SendError(w, err.Error(), http.StatusInternalServerError)
			} else if err, ok := rec.(string); ok {
				log.Errorf("Panic string %v: %v", r.URL.Path, err)
				SendError(w, err, http.StatusInternalServerError)
			} else {
				log.Errorf("Unrecognized panic %v: %v", r.URL.Path, rec)
				SendError(w, "Unrecognized panic", http.StatusInternalServerError)
			}
		}
	}()

	handler()
}

// Handle adds a protected HTTP route to router (ie handle will run inside RunProtected, so you get a panic handler).
func Handle(log logs.Log, router *httprouter.Router, method, path string, handle httprouter.Handle) {
	wrapper := func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		RunProtected(log, w, r, func() { handle(w, r, p) })
	}
	router.Handle(method, path, wrapper)
}

// ParseID parses a 64-bit integer, and returns zero on failure.
func ParseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}

// Returns (value, true) if a query value exists (an empty string counts as existence).
// Returns ("", false) if the query value does not exist
func QueryValueEx(r *http.Request, s string) (string, bool) {
	val, exists := r.URL.Query()[s]
	if exists {
		if len(val) > 0 {
			return val[0], true
		} else {
			return "", true
		}
	} else {
		return "", false
	}
}

// Returns the named query value (or an empty string)
func QueryValue(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

// Returns the named form value (typically query value), or panics if the item is empty or missing
func RequiredQueryValue(r *http.Request, key string) string {
	v := QueryValue(r, key)
	if v == "" {
		PanicBadRequestf("Must specify %v", key)
	}
	return v
}

// Returns the named form value (typically query value) as an int64, or zero if the item is missing or not parseable as an integer
func QueryInt64(r *http.Request, key string) int64 {
	i, _ := strconv.ParseInt(r.FormValue(key), 10, 64)
	return i
}

// Returns the named form value (typically query value) as an int, or zero if the item is missing or not parseable as an integer
func QueryInt(r *http.Request, key string) int {
	return int(QueryInt64(r, key))
}

// Returns the named query value as a float64, or 'def' if the item is missing.
// Panics if the value is present but not parseable as a number.
func QueryFloat64(r *http.Request, key string, def float64) float64 {
	v, exists := QueryValueEx(r, key)
	if !exists || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		PanicBadRequestf("Must specify a number for %v", key)
	}
	return f
}

// Read the request body, but limit the number of bytes that will be read, to ensure
// the server isn't loaded heavily by faulty or malicious requests
func ReadLimited(w http.ResponseWriter, r *http.Request, maxBodyBytes int64) []byte {
	if r.Body == nil {
		Panic(http.StatusBadRequest, "ReadLimited failed: Request body is empty")
	}
	defer r.Body.Close()
	reader := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(reader)
	Check(err)
	return body
}

// ReadString reads the body of the request, and returns it as a string
func ReadString(w http.ResponseWriter, r *http.Request, maxBodyBytes int64) string {
	b := ReadLimited(w, r, maxBodyBytes)
	return string(b)
}

// ReadJSON reads the body of the request, and unmarshals it into 'obj'.
func ReadJSON(w http.ResponseWriter, r *http.Request, obj any, maxBodyBytes int64) {
	if r.Body == nil {
		Panic(http.StatusBadRequest, "ReadJSON failed: Request body is empty")
	}
	reader := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(obj); err != nil {
		Panic(http.StatusBadRequest, "ReadJSON failed: Failed to decode JSON - "+err.Error())
	}
}

// Set cache headers which indicate that this resource is immutable
// Apparently chrome is not going to implement the immutable cache-control
// tag, so we just set a long expiry date.
func CacheImmutable(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "public, max-age=2592000, immutable") // this is 30 days
}

// Set cache headers instructing the client never to cache
func CacheNever(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "max-age=0")
}

// SendError is identical to the standard library http.Error(), except that we don't append a \n to the message body
func SendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write([]byte(message))
}

// SendJSON encodes 'obj' to JSON, and sends it as an HTTP application/json response.
func SendJSON(w http.ResponseWriter, obj any) {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(obj)
	Check(err)
	w.Write(b)
}

// SendText sends text as an HTTP text/plain response
func SendText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(text))
}

// SendJSONID sends the ID as {"id":<value>}
func SendJSONID(w http.ResponseWriter, id int64) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(fmt.Sprintf(`{"id":%v}`, id)))
}

// SendID sends the ID as text/plain
func SendID(w http.ResponseWriter, id int64) {
	SendInt64(w, id)
}

// SendInt64 sends the number as text/plain
func SendInt64(w http.ResponseWriter, id int64) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(fmt.Sprintf("%v", id)))
}

// SendOK sends "OK" as a text/plain response.
func SendOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK"))
}
