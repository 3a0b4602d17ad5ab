package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/fitmate/logger"
)

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent, nothing left to tell the client.
		logger.Default().Errorf(context.Background(), "encode JSON response: %v", err)
	}
}

// RespondError sends a JSON error response and records the message in the
// request log buffer when one is given.
func RespondError(w http.ResponseWriter, logBuf *strings.Builder, message string, status int) {
	if logBuf != nil {
		AddToLogMessage(logBuf, message)
	}
	RespondJSON(w, status, map[string]string{"error": message})
}

// PresignImageURLs resolves outfit image keys to URLs. Values that are
// already http(s) URLs are kept; keys that fail to sign are returned as is.
func PresignImageURLs(ctx context.Context, bucket *ImageBucket, images []string) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if strings.HasPrefix(img, "http") || bucket == nil {
			urls = append(urls, img)
			continue
		}
		if url, err := bucket.PresignedURL(ctx, img); err == nil {
			urls = append(urls, url)
		} else {
			urls = append(urls, img)
		}
	}
	return urls
}

// LatencyMiddleware logs the duration of each request.
func LatencyMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Infof(r.Context(), "[LATENCY] %s %s - %v", r.Method, r.URL.Path, time.Since(start))
		})
	}
}
