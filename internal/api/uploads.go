package api

import (
	"net/http"
)

// multipart overhead allowed on top of the file itself
const formSlack = 1 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.media == nil {
		respondError(w, http.StatusServiceUnavailable, "uploads are disabled")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.media.MaxBytes()+formSlack)
	if err := r.ParseMultipartForm(formSlack); err != nil {
		respondError(w, http.StatusBadRequest, "upload must be a multipart form within the size limit")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	url, err := s.media.Save(r.FormValue("bucket"), header.Filename, file)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}
