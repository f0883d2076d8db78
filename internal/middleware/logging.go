package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// SetLogger задаёт логгер для мидлварей пакета.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	data *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.data.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.data.status = statusCode
}

// Flush нужен потоковой отдаче файлов.
func (r *loggingResponseWriter) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// WithLogging логирует метод, URI, статус, размер ответа и длительность.
func WithLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data := &responseData{status: http.StatusOK}
		lw := &loggingResponseWriter{ResponseWriter: w, data: data}

		h.ServeHTTP(lw, r)

		logger.Infow("request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
		)
	})
}
