package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/steadfast/idlerest/internal/estimate"
	"github.com/steadfast/idlerest/internal/geometry"
	"github.com/steadfast/idlerest/internal/ledger"
	"github.com/steadfast/idlerest/internal/metrics"
	"github.com/steadfast/idlerest/internal/pricing"
	"github.com/steadfast/idlerest/internal/reference"
	"github.com/steadfast/idlerest/internal/specsheet"
)

const (
	exportFileName   = "STEADFAST_idler_estimation.xlsx"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxSpecSheetSize = 5 << 20
)

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
	WarningMessage string
}

type estimateViewData struct {
	baseViewData
	Input      estimate.Input
	Estimate   *estimate.Estimate
	Summary    ledger.Summary
	ProfitMin  int
	ProfitMax  int
	IsAssisted bool
	IsImpact   bool
}

type ledgerViewData struct {
	baseViewData
	Records []ledger.Record
	Summary ledger.Summary
}

type referenceViewData struct {
	baseViewData
	Rows []reference.Row
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderEstimate(w, r, http.StatusOK, estimateViewData{Input: defaultInput()})
}

func (s *server) handleEstimatePreview(w http.ResponseWriter, r *http.Request) {
	in, err := parseEstimateForm(r)
	if err != nil {
		s.renderEstimate(w, r, http.StatusBadRequest, estimateViewData{Input: in, baseViewData: baseViewData{ErrorMessage: err.Error()}})
		return
	}

	est, err := s.estimator.Preview(r.Context(), in)
	if err != nil {
		s.renderEstimateError(w, r, in, err)
		return
	}

	view := estimateViewData{Input: in, Estimate: &est}
	if in.Variant == estimate.Assisted && in.UseReferenceTable && !est.Resolution.FromReference {
		view.WarningMessage = "Pipe size not found. Please enter costs manually."
	}
	s.renderEstimate(w, r, http.StatusOK, view)
}

func (s *server) handleEstimateAdd(w http.ResponseWriter, r *http.Request) {
	in, err := parseEstimateForm(r)
	if err != nil {
		s.renderEstimate(w, r, http.StatusBadRequest, estimateViewData{Input: in, baseViewData: baseViewData{ErrorMessage: err.Error()}})
		return
	}

	l, ok := s.sessions.lookup(r)
	if !ok {
		l = ledger.New()
	}
	rec, err := s.estimator.Add(r.Context(), in, l)
	if err != nil {
		s.renderEstimateError(w, r, in, err)
		return
	}
	l = s.sessions.save(w, r, l)

	s.log.Info().Str("id", rec.ID.String()).Str("label", rec.Label).Float64("final_cost", rec.FinalCost).Msg("estimate added")
	s.renderEstimate(w, r, http.StatusOK, estimateViewData{
		Input:        in,
		Summary:      l.Totals(),
		baseViewData: baseViewData{SuccessMessage: fmt.Sprintf("Added: %s → ₹%.2f", rec.Label, rec.FinalCost)},
	})
}

// renderEstimateError maps estimator errors onto the form. Invalid input is
// the user's to fix; anything else failed a durable write or read.
func (s *server) renderEstimateError(w http.ResponseWriter, r *http.Request, in estimate.Input, err error) {
	var verr *estimate.ValidationError
	var gerr *geometry.GeometryError
	switch {
	case errors.As(err, &verr), errors.As(err, &gerr), errors.Is(err, geometry.ErrUnknownMaterial):
		s.renderEstimate(w, r, http.StatusUnprocessableEntity, estimateViewData{Input: in, baseViewData: baseViewData{ErrorMessage: err.Error()}})
	default:
		s.log.Error().Err(err).Msg("estimate failed")
		s.renderEstimate(w, r, http.StatusInternalServerError, estimateViewData{Input: in, baseViewData: baseViewData{ErrorMessage: "Could not save the estimate: " + err.Error()}})
	}
}

func (s *server) renderEstimate(w http.ResponseWriter, r *http.Request, status int, view estimateViewData) {
	if view.Summary.Count == 0 {
		if l, ok := s.sessions.lookup(r); ok {
			view.Summary = l.Totals()
		}
	}
	view.ProfitMin = pricing.MinProfitPercent
	view.ProfitMax = pricing.MaxProfitPercent
	view.IsAssisted = view.Input.Variant == estimate.Assisted
	view.IsImpact = pricing.IdlerType(view.Input.IdlerType) == pricing.Impact
	s.renderTemplate(w, status, "estimate.html", view)
}

func (s *server) handleLedger(w http.ResponseWriter, r *http.Request) {
	view := ledgerViewData{}
	if l, ok := s.sessions.lookup(r); ok {
		view.Records = l.List()
		view.Summary = l.Totals()
	}
	s.renderTemplate(w, http.StatusOK, "ledger.html", view)
}

func (s *server) handleLedgerExport(w http.ResponseWriter, r *http.Request) {
	var records []ledger.Record
	if l, ok := s.sessions.lookup(r); ok {
		records = l.List()
	}

	data, err := ledger.ExportXLSX(records)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to export ledger")
		http.Error(w, "failed to export ledger", http.StatusInternalServerError)
		return
	}
	metrics.IncreaseExports("xlsx")

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName))
	_, _ = w.Write(data)
}

func (s *server) handleSpecUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSpecSheetSize)
	if err := r.ParseMultipartForm(maxSpecSheetSize); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := defaultInput()
	file, _, err := r.FormFile("spec")
	if err != nil {
		s.renderEstimate(w, r, http.StatusBadRequest, estimateViewData{Input: in, baseViewData: baseViewData{ErrorMessage: "spec file is required"}})
		return
	}
	defer file.Close()

	prefill, err := specsheet.Parse(file)
	if err != nil {
		s.renderEstimate(w, r, http.StatusUnprocessableEntity, estimateViewData{Input: in, baseViewData: baseViewData{ErrorMessage: err.Error()}})
		return
	}

	s.renderEstimate(w, r, http.StatusOK, estimateViewData{
		Input:        applyPrefill(in, prefill),
		baseViewData: baseViewData{SuccessMessage: "Spec sheet loaded."},
	})
}

func (s *server) handleReference(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reference.All(r.Context())
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read reference table")
		s.renderTemplate(w, http.StatusOK, "reference.html", referenceViewData{baseViewData: baseViewData{ErrorMessage: "Reference table could not be read."}})
		return
	}
	s.renderTemplate(w, http.StatusOK, "reference.html", referenceViewData{Rows: rows})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
