package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

// sendStatusJSON must be used instead of sendJSONOrLog when the status is
// not 200, because the header has to be set before WriteHeader.
func sendStatusJSON(w http.ResponseWriter, logger *slog.Logger, code int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error(
			"unable to encode response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(payload); err != nil {
		logger.Error("unable to send response", slog.Any("error", err))
	}
}

func sendError(w http.ResponseWriter, logger *slog.Logger, code int, msg string) {
	sendStatusJSON(w, logger, code, wrapError(msg))
}

func internalError(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	sendError(w, logger, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func wrapError(msg string) map[string]string {
	return map[string]string{
		"error": msg,
	}
}
