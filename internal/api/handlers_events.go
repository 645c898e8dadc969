// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/logging"
)

// uploadFormField names the multipart field carrying the CSV file.
const uploadFormField = "file"

// UploadEvents ingests a user_id,date CSV.
//
// Method: POST
// Path: /api/v1/events
//
// The body is either the raw CSV (text/csv) or a multipart form with the
// file in the "file" field. The whole file is validated before anything is
// stored. Re-uploading the same rows is a no-op reported as duplicates.
// A store failure responds 500 with the rows already written under
// error.details.stored.
func (h *Handler) UploadEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Import.MaxUploadBytes)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile(uploadFormField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				rw.FromError(err)
				return
			}
			rw.BadRequest("multipart upload requires a \"file\" field")
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.importer.Import(r.Context(), body)
	if result != nil && result.Inserted > 0 {
		h.service.InvalidateReports()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.Is(err, events.ErrInvalidInput) || errors.As(err, &tooLarge) {
			rw.FromError(err)
			return
		}
		if result != nil {
			// Earlier batches stay committed; a retry skips them as duplicates.
			rw.DatabaseErrorWithDetails(err, map[string]interface{}{"stored": result})
			return
		}
		rw.DatabaseError(err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int64("inserted", result.Inserted).
		Int64("duplicates", result.Duplicates).
		Msg("Upload stored")
	rw.Created(result)
}

// EventStats returns stored event counts and the covered date range.
//
// Method: GET
// Path: /api/v1/events/stats
func (h *Handler) EventStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(stats)
}
