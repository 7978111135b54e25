package www

import (
	"net/http"
	"time"
)

// You can disable this when running unit tests
var EnableRateLimiting bool

// This is simple, dumb, and wrong, but at least the intention is clearer than having time.Sleep() all over the place
// The key things broken here are:
// 1. We don't pay attention to who's calling
// 2. We always sleep
// 3. It's trivial to get around this by firing off 10000 simultaneous requests
func RateLimit(groupName string, maxPerSecond float64, w http.ResponseWriter, r *http.Request) {
	if EnableRateLimiting {
		delay := time.Nanosecond * time.Duration(1000*1000*1000/maxPerSecond)
		time.Sleep(delay)
	}
}

func init() {
	EnableRateLimiting = true
}
