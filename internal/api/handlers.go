package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"dogmeet/internal/domain"
	"dogmeet/internal/metrics"
	"dogmeet/internal/models"
	"dogmeet/internal/render"
)

const (
	msgSubmitFailed = "There was an error saving your appointment."
	msgListFailed   = "Unable to fetch appointments."
	msgExportFailed = "Unable to export appointments."

	readyTimeout = 3 * time.Second
)

func (s *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	appt, err := parseAppointment(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.store.AppendRow(r.Context(), appt.Row())
	metrics.IncSubmitted(err)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", requestIDFromContext(r.Context())).Msg("Error appending row")
		http.Error(w, msgSubmitFailed, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, s.cfg.HTTP.RedirectPath, http.StatusFound)
}

func (s *HTTPServer) handleAppointments(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListRows(r.Context())
	metrics.IncListed(err)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", requestIDFromContext(r.Context())).Msg("Error retrieving appointments")
		http.Error(w, msgListFailed, http.StatusInternalServerError)
		return
	}

	page := render.AppointmentsPage(rows, render.PageOptions{EscapeHTML: s.cfg.Render.EscapeHTML})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		s.log.Error().Err(err).Msg("render appointments")
	}
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListRows(r.Context())
	if err != nil {
		metrics.IncExported(err)
		s.log.Error().Err(err).Str("request_id", requestIDFromContext(r.Context())).Msg("Error retrieving appointments for export")
		http.Error(w, msgExportFailed, http.StatusInternalServerError)
		return
	}

	// Build the whole workbook first so a failure can still become a 500.
	var buf bytes.Buffer
	err = s.writeWorkbook(&buf, rows, s.cfg.Google.SheetName)
	metrics.IncExported(err)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", requestIDFromContext(r.Context())).Msg("Error building workbook")
		http.Error(w, msgExportFailed, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("appointments_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn().Err(err).Msg("write workbook response")
	}
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(domain.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.log.Warn().Err(err).Msg("readiness check failed")
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready"))
}

// parseAppointment reads the form fields (urlencoded, multipart or JSON)
// and normalizes firstTime. Nothing else is validated.
func parseAppointment(r *http.Request) (models.Appointment, error) {
	fields, err := formFields(r)
	if err != nil {
		return models.Appointment{}, err
	}

	return models.Appointment{
		Date:          fields["date"],
		Time:          fields["time"],
		DogName:       fields["dogName"],
		Address:       fields["address"],
		FirstTime:     models.NormalizeFirstTime(fields["firstTime"]),
		PaymentMethod: fields["paymentMethod"],
		Notes:         fields["notes"],
	}, nil
}

var formKeys = []string{"date", "time", "dogName", "address", "firstTime", "paymentMethod", "notes"}

func formFields(r *http.Request) (map[string]string, error) {
	fields := make(map[string]string, len(formKeys))

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		// An empty body counts as an empty object.
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid JSON body")
		}
		for _, k := range formKeys {
			fields[k] = jsonString(body[k])
		}
		return fields, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return nil, fmt.Errorf("invalid form body")
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body")
	}
	for _, k := range formKeys {
		fields[k] = r.PostFormValue(k)
	}
	return fields, nil
}

func jsonString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
