package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docmerge/internal/compose"
	"github.com/dgallion1/docmerge/internal/merge"
	"github.com/dgallion1/docmerge/internal/ooxml"
	"github.com/dgallion1/docmerge/internal/pipeline"
	"github.com/dgallion1/docmerge/internal/preview"
	"github.com/dgallion1/docmerge/internal/records"
	"github.com/go-chi/chi/v5"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// mergeUpload is the validated pair of files a merge request carries.
type mergeUpload struct {
	templateName string
	templateData []byte
	recordsName  string
	recordsData  []byte
	convert      bool
}

// handleMerge runs a merge synchronously and returns the combined document.
// Meant for small record sets; large batches go through /api/merge/batch.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readMergeUpload(w, r)
	if !ok {
		return
	}

	src, err := records.ForFile(up.recordsName)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	set, err := src.Parse(bytes.NewReader(up.recordsData))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(set.Records) == 0 {
		jsonError(w, "record file has no data rows", http.StatusBadRequest)
		return
	}

	templateData := up.templateData
	if up.convert {
		pkg, err := ooxml.OpenPackage(templateData)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ooxml.ConvertTemplate(pkg, up.templateName); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if templateData, err = pkg.Bytes(); err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	merged := make([][]byte, 0, len(set.Records))
	for i, rec := range set.Records {
		pkg, err := ooxml.OpenPackage(templateData)
		if err != nil {
			jsonError(w, fmt.Sprintf("template: %s", err), http.StatusBadRequest)
			return
		}
		buf, err := merge.Merge(pkg, records.NewResolver(rec))
		if err != nil {
			jsonError(w, fmt.Sprintf("record %d: %s", i, err), http.StatusUnprocessableEntity)
			return
		}
		merged = append(merged, buf)
	}

	combined, err := compose.Combine(merged)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	name := strings.TrimSuffix(up.templateName, filepath.Ext(up.templateName)) + "-merged.docx"
	w.Header().Set("Content-Type", docxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(combined)
}

// handleMergeBatch queues a batch job and returns its poll URL.
func (s *Server) handleMergeBatch(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readMergeUpload(w, r)
	if !ok {
		return
	}
	if !records.IsSupportedExtension(up.recordsName) {
		jsonError(w, fmt.Sprintf("unsupported record file type: %s", filepath.Ext(up.recordsName)), http.StatusBadRequest)
		return
	}

	hash := pipeline.ContentHashHex(append(append([]byte{}, up.templateData...), up.recordsData...))
	now := time.Now()
	job := &pipeline.Job{
		ID:              pipeline.NewID(),
		BatchID:         hash[:16],
		Status:          pipeline.StatusQueued,
		Phase:           "queued",
		TemplateName:    up.templateName,
		RecordsName:     up.recordsName,
		ConvertTemplate: up.convert,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	job.SetContentHash(hash)
	job.SetInputs(up.templateData, up.recordsData)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"batch_id": job.BatchID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/merge/%s/status", job.ID),
	})
}

func (s *Server) handleMergeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"batch_id": snap.BatchID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

func (s *Server) handleMergeResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found (completed batches remain under /api/batches)", http.StatusNotFound)
		return
	}
	data := job.Result()
	if job.Snapshot().Status != pipeline.StatusCompleted || data == nil {
		jsonError(w, "batch has no result yet", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", docxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.BatchID+".docx"))
	w.Write(data)
}

func (s *Server) handleMergePreview(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	data := job.Result()
	if data == nil {
		jsonError(w, "batch has no result yet", http.StatusConflict)
		return
	}
	text, err := preview.Text(data)
	if err != nil {
		jsonError(w, "preview failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"batch_id": job.BatchID,
		"text":     text,
	})
}

// readMergeUpload parses the multipart form shared by the sync and batch
// merge endpoints: a "template" docx file, a "records" data file, and an
// optional "convert_template" flag for .dotx input.
func (s *Server) readMergeUpload(w http.ResponseWriter, r *http.Request) (mergeUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*2+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return mergeUpload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	var up mergeUpload
	var ok bool
	if up.templateName, up.templateData, ok = s.readFormFile(w, r, "template"); !ok {
		return mergeUpload{}, false
	}
	if up.recordsName, up.recordsData, ok = s.readFormFile(w, r, "records"); !ok {
		return mergeUpload{}, false
	}
	up.convert = r.FormValue("convert_template") == "true"
	return up, true
}

func (s *Server) readFormFile(w http.ResponseWriter, r *http.Request, field string) (string, []byte, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		jsonError(w, field+" file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read "+field, http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", field, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return sanitizeFilename(header.Filename), data, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
