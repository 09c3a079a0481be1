package trips

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"GardaBoatsSaas/api"
	"GardaBoatsSaas/api/constants"
	"GardaBoatsSaas/internal/checksum"
	"GardaBoatsSaas/internal/logger"

	"github.com/google/uuid"
)

var uploadedDigests = checksum.NewRegistry()

// UploadTrips receives one or more trip-log workbooks, stores them in the
// data directory and rebuilds the dataset cache.
func UploadTrips(cfg Config, audit *AuditLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		files := r.MultipartForm.File["file"]
		if len(files) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, "Nessun file ricevuto")
			return
		}

		started := time.Now()
		batchID := uuid.New().String()
		var saved, skipped []string
		for _, fh := range files {
			src, err := fh.Open()
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "Impossibile aprire il file "+fh.Filename)
				return
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "Lettura file fallita: "+fh.Filename)
				return
			}
			if first, fresh := uploadedDigests.Remember(fh.Filename, data); !fresh {
				skipped = append(skipped, fh.Filename)
				logger.Audit(fmt.Sprintf("[TRIPS] %s identico a %s, ignorato", fh.Filename, first))
				continue
			}
			dest := filepath.Join(cfg.DataDir, filepath.Base(fh.Filename))
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, "Salvataggio file fallito: "+fh.Filename)
				return
			}
			saved = append(saved, filepath.Base(fh.Filename))
		}
		if len(saved) == 0 {
			api.RespondWithPayload(w, true, "", map[string]interface{}{
				"batch_id": batchID,
				"files":    []string{},
				"skipped":  skipped,
			})
			return
		}

		cfg.Store.Invalidate()
		if err := cfg.Store.Reload(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDatasetUnavailable+": "+err.Error())
			return
		}
		trips, _ := cfg.Store.Snapshot()
		warnings := cfg.Store.Warnings()
		audit.RecordRun(r.Context(), batchID, fmt.Sprintf("upload %v", saved),
			len(trips), 0, warnings, started, time.Now())
		logger.Audit(fmt.Sprintf("[TRIPS] upload batch %s: %d file, %d righe", batchID, len(saved), len(trips)))

		payload := map[string]interface{}{
			"batch_id": batchID,
			"files":    saved,
			"rows":     len(trips),
			"warnings": warnings,
		}
		if len(skipped) > 0 {
			payload["skipped"] = skipped
		}
		api.RespondWithPayload(w, true, "", payload)
	}
}

// UploadExpenses receives the cost ledger and swaps it into the cache.
func UploadExpenses(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		file, fh, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Nessun file ricevuto")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Lettura file fallita")
			return
		}

		expenses, err := IngestExpenses(data, fh.Filename)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if cfg.ExpensesFile != "" {
			if err := os.WriteFile(cfg.ExpensesFile, data, 0o644); err != nil {
				logger.Audit("[TRIPS] persist expenses file failed: " + err.Error())
			}
		}
		cfg.Store.SetExpenses(expenses)
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"rows": len(expenses),
		})
	}
}

// ReloadData drops the cache and rebuilds it from the source files.
func ReloadData(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		cfg.Store.Invalidate()
		if err := cfg.Store.Reload(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDatasetUnavailable+": "+err.Error())
			return
		}
		trips, _ := cfg.Store.Snapshot()
		logger.Audit(fmt.Sprintf("[TRIPS] manual reload: %d righe", len(trips)))
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"rows":     len(trips),
			"warnings": cfg.Store.Warnings(),
		})
	}
}

// Status reports the cache freshness and the last load's warnings.
func Status(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trips, err := cfg.Store.Snapshot()
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDatasetUnavailable+": "+err.Error())
			return
		}
		expenses, _ := cfg.Store.Expenses()
		loadedAt, loaded := cfg.Store.LoadedAt()
		payload := map[string]interface{}{
			"loaded":   loaded,
			"rows":     len(trips),
			"expenses": len(expenses),
			"warnings": cfg.Store.Warnings(),
		}
		if loaded {
			payload["loaded_at"] = loadedAt.Format(constants.DateTimeFormat)
		}
		api.RespondWithPayload(w, true, "", payload)
	}
}

// StartTripsService runs the ingestion HTTP server.
func StartTripsService(cfg Config) {
	audit := NewAuditLog(cfg.Pool)

	mux := http.NewServeMux()
	mux.HandleFunc("/trips/upload", UploadTrips(cfg, audit))
	mux.HandleFunc("/trips/upload-expenses", UploadExpenses(cfg))
	mux.HandleFunc("/trips/reload", ReloadData(cfg))
	mux.HandleFunc("/trips/status", Status(cfg))

	err := http.ListenAndServe(":6143", mux)
	if err != nil {
		logger.Audit("[TRIPS] server error: " + err.Error())
	}
}
