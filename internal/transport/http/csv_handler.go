package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"trivia-game-service/internal/app"
)

// maxUploadBytes bounds question file uploads; banks are hand-written CSV,
// anything bigger is a mistake.
const maxUploadBytes = 1 << 20

// CSVHandler serves the file-based boundary of the game: question uploads
// and the sample file download.
type CSVHandler struct {
	service   *app.GameService
	sampleCSV []byte
}

func NewCSVHandler(service *app.GameService, sampleCSV []byte) *CSVHandler {
	return &CSVHandler{service: service, sampleCSV: sampleCSV}
}

// ServeUpload accepts a multipart CSV upload for a session. The filename
// check runs before the file content is read, so a wrong extension never
// leaves partial state behind.
func (h *CSVHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "could not read uploaded file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		http.Error(w, "file must have a .csv extension", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read uploaded file", http.StatusBadRequest)
		return
	}

	count, err := h.service.UploadBank(r.Context(), sessionID, header.Filename, string(content))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"questions": count})
}

// ServeSample hands out the built-in sample CSV as a download so players
// can see the expected column layout.
func (h *CSVHandler) ServeSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sample-questions.csv"`)
	_, _ = w.Write(h.sampleCSV)
}
