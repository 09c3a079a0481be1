package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"GardaBoatsSaas/internal/logger"

	"github.com/gorilla/mux"
)

// createReverseProxy returns a reverse proxy handler for the given target URL
func createReverseProxy(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.RemoteAddr
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			clientIP = xff
		}
		logger.Audit(fmt.Sprintf("[Gateway] Incoming request: %s %s from %s", r.Method, r.URL.Path, clientIP))

		u, err := url.Parse(target)
		if err != nil {
			logger.Audit(fmt.Sprintf("[Gateway][ERROR] bad target URL %s for %s", target, r.URL.Path))
			http.Error(w, "Bad target URL", http.StatusInternalServerError)
			return
		}
		proxy := httputil.NewSingleHostReverseProxy(u)

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		proxy.ServeHTTP(rw, r)
		if rw.statusCode >= 400 {
			logger.Audit(fmt.Sprintf("[Gateway][ERROR] Proxied to %s for %s, status %d, error: %s",
				target, r.URL.Path, rw.statusCode, rw.body.String()))
		} else {
			logger.Audit(fmt.Sprintf("[Gateway] Proxied to %s for %s, status %d", target, r.URL.Path, rw.statusCode))
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and response body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// NewGatewayRouter wires every public route to its backing service.
func NewGatewayRouter() *mux.Router {
	router := mux.NewRouter()

	router.PathPrefix("/trips/").Handler(createReverseProxy("http://localhost:6143"))
	router.PathPrefix("/dash/").Handler(createReverseProxy("http://localhost:4143"))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Audit("[Gateway] [Error] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404 - Route not found"))
	})

	return router
}

// StartGateway starts the API gateway server
func StartGateway() {
	router := NewGatewayRouter()
	log.Println("API Gateway started on :8081")
	if err := http.ListenAndServe(":8081", router); err != nil {
		log.Fatalf("Gateway server failed: %v", err)
	}
}
