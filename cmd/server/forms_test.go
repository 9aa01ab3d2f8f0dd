package main

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/steadfast/idlerest/internal/estimate"
	"github.com/steadfast/idlerest/internal/specsheet"
)

func scenarioForm() url.Values {
	form := url.Values{}
	form.Set("variant", "simple")
	form.Set("material", "Mild Steel")
	form.Set("idler_type", "Carrying")
	form.Set("pipe_od", "114")
	form.Set("pipe_thickness", "4")
	form.Set("pipe_length", "600")
	form.Set("shaft_dia", "25")
	form.Set("shaft_length", "650")
	form.Set("pipe_price", "60")
	form.Set("shaft_price", "55")
	for _, k := range []string{"bearing", "cup", "dust_cover", "seal", "circlip", "painting"} {
		form.Set(k, "100")
	}
	form.Set("machining", "200")
	form.Set("testing", "50")
	form.Set("profit_percent", "15")
	return form
}

func TestParseEstimateForm_Success(t *testing.T) {
	req := httptest.NewRequest("POST", "/estimate/preview", nil)
	req.Form = scenarioForm()
	req.Form.Set("use_reference", "on")

	in, err := parseEstimateForm(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.Variant != estimate.Simple || in.Material != "Mild Steel" || in.IdlerType != "Carrying" {
		t.Fatalf("unexpected selections: %+v", in)
	}
	if in.PipeOD != 114 || in.ShaftLength != 650 || in.ProfitPercent != 15 {
		t.Fatalf("unexpected numbers: %+v", in)
	}
	if in.BoughtOut.DustCover != 100 || in.Conversion.Machining != 200 {
		t.Fatalf("unexpected costs: %+v", in)
	}
	if !in.UseReferenceTable {
		t.Fatalf("expected use_reference to be checked")
	}
}

func TestParseEstimateForm_BlankOptionalFieldsAreZero(t *testing.T) {
	req := httptest.NewRequest("POST", "/estimate/preview", nil)
	req.Form = scenarioForm()
	req.Form.Del("variant")
	req.Form.Set("welding", " ")

	in, err := parseEstimateForm(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.Variant != estimate.Simple {
		t.Fatalf("expected simple variant by default, got %q", in.Variant)
	}
	if in.Conversion.Welding != 0 || in.RubberRings != 0 {
		t.Fatalf("expected zero for blank fields: %+v", in)
	}
}

func TestParseEstimateForm_InvalidNumbers(t *testing.T) {
	for field, value := range map[string]string{
		"pipe_od":        "abc",
		"shaft_price":    "NaN",
		"bearing":        "Inf",
		"rubber_rings":   "2.5",
		"profit_percent": "fifteen",
	} {
		req := httptest.NewRequest("POST", "/estimate/preview", nil)
		req.Form = scenarioForm()
		req.Form.Set(field, value)

		_, err := parseEstimateForm(req)
		if err == nil {
			t.Fatalf("expected error for %s=%q", field, value)
		}
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected error to name %s, got %v", field, err)
		}
	}
}

func TestApplyPrefill_OverridesOnlyKnownValues(t *testing.T) {
	in := applyPrefill(defaultInput(), specsheet.Prefill{PipeOD: 114, ShaftDia: 25, IdlerType: "Impact"})

	if in.PipeOD != 114 || in.ShaftDia != 25 || in.IdlerType != "Impact" {
		t.Fatalf("expected prefilled values, got %+v", in)
	}
	if in.PipeLength != 50 || in.Material != "Mild Steel" {
		t.Fatalf("expected defaults to survive, got %+v", in)
	}
}
