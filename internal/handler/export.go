package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_start_date", "trip_end_date",
	"event_id", "participant", "drink_type", "timestamp", "date", "has_photo",
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatCSV  = "csv"
)

// GetExport implements GET /export.
// ?format=json (default) and ?format=yaml return the whole dataset as a
// document that POST /import accepts; ?format=csv returns a flat table with
// one row per drink event.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatJSON
	}

	switch format {
	case formatCSV:
		rows, err := s.data.Rows(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err, "")
			return
		}
		writeAttachment(w, "text/csv", exportFilename(formatCSV), buildCSV(rows))

	case formatJSON, formatYAML:
		doc, err := s.data.Export(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err, "")
			return
		}
		body, contentType, err := encodeDocument(doc, format)
		if err != nil {
			s.writeServiceError(w, r, err, "")
			return
		}
		writeAttachment(w, contentType, exportFilename(format), body)

	default:
		invalidParam(w, fmt.Errorf("invalid format for parameter format: %q is not one of json, yaml, csv", format))
	}
}

// PostImport implements POST /import. The body is a document produced by
// GET /export; it replaces every stored record. The format comes from
// ?format= or, failing that, the Content-Type header.
func (s *Server) PostImport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatJSON
		if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/yaml" || mt == "application/x-yaml" || mt == "text/yaml" {
			format = formatYAML
		}
	}

	var doc domain.Document
	switch format {
	case formatJSON:
		if err := decodeJSON(r, &doc); err != nil {
			writeDecodeError(w, err)
			return
		}
	case formatYAML:
		if err := yaml.NewDecoder(r.Body).Decode(&doc); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeDecodeError(w, errBodyTooLarge)
				return
			}
			badRequest(w, "malformed YAML body: "+err.Error())
			return
		}
	default:
		invalidParam(w, fmt.Errorf("invalid format for parameter format: %q is not one of json, yaml", format))
		return
	}

	result, err := s.data.Import(r.Context(), doc)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func encodeDocument(doc domain.Document, format string) ([]byte, string, error) {
	if format == formatYAML {
		b, err := yaml.Marshal(doc)
		if err != nil {
			return nil, "", fmt.Errorf("handler.encodeDocument: %w", err)
		}
		return b, "application/yaml", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, "", fmt.Errorf("handler.encodeDocument: %w", err)
	}
	return buf.Bytes(), "application/json", nil
}

// buildCSV encodes domain rows as CSV, header first.
func buildCSV(rows []domain.ExportRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(rowToCSVRecord(r))
	}
	w.Flush()
	return buf.Bytes()
}

// rowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Rows of trips without events leave the event columns empty.
func rowToCSVRecord(r domain.ExportRow) []string {
	ts, hasPhoto := "", ""
	if r.EventID != "" {
		ts = r.Timestamp.UTC().Format(time.RFC3339)
		hasPhoto = strconv.FormatBool(r.HasPhoto)
	}
	return []string{
		r.TripID,
		r.TripName,
		r.TripStartDate,
		r.TripEndDate,
		r.EventID,
		r.ParticipantName,
		r.DrinkTypeName,
		ts,
		r.Date,
		hasPhoto,
	}
}

func exportFilename(format string) string {
	return fmt.Sprintf("booze-cruise-export-%s.%s", time.Now().UTC().Format(domain.DateLayout), format)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(body)
}
