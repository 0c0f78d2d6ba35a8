package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"posecam/internal/logger"
	"strings"
)

var logFiles = map[string]string{
	"info":    "info.log",
	"warning": "warning.log",
	"error":   "error.log",
}

// LogsHandler serves /logs/{level} as text/plain and truncates the file on
// POST /logs/{level}/clear.
func LogsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/logs/")
		level, action, _ := strings.Cut(rest, "/")

		filename, ok := logFiles[level]
		if !ok || logger.Directory() == "" {
			http.NotFound(w, r)
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			serveLogFile(w, r, logger.Directory(), filename)
		case action == "clear" && r.Method == http.MethodPost:
			if err := logger.CleanLogs(filename); err != nil {
				logger.Error("Failed to clear %s: %v", filename, err)
				http.Error(w, "Failed to clear log", http.StatusInternalServerError)
				return
			}
			logger.Info("Log file %s has been cleared", filename)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// serveLogFile is a helper that sets headers and serves a log file if it exists.
func serveLogFile(w http.ResponseWriter, r *http.Request, logDir, filename string) {
	filePath := filepath.Join(logDir, filename)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Log file not found: " + filename))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	http.ServeFile(w, r, filePath)
}
