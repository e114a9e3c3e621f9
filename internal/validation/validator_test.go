package validation_test

import (
	"testing"

	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/validation"
)

func validKeysetRequest() *models.KeysetRequest {
	return &models.KeysetRequest{
		Profile:  "GMK",
		Colorway: "Red Samurai",
		Designer: []string{"RedSuns"},
		ICDate:   "2023-10-01",
		Details:  "https://geekhack.org/index.php?topic=1",
		GBLaunch: "2024-01-05",
		GBEnd:    "2024-02-05",
		Image:    "https://example.com/red-samurai.png",
	}
}

func hasFieldError(errs []validation.FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateKeyset_Valid(t *testing.T) {
	v := validation.New()
	if errs := v.ValidateKeyset(validKeysetRequest()); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
}

func TestValidateKeyset_RequiredFields(t *testing.T) {
	v := validation.New()
	req := validKeysetRequest()
	req.Profile = ""
	req.Designer = nil

	errs := v.ValidateKeyset(req)
	if !hasFieldError(errs, "Profile") {
		t.Error("Missing profile should be reported")
	}
	if !hasFieldError(errs, "Designer") {
		t.Error("Missing designer list should be reported")
	}
}

func TestValidateKeyset_DateFormats(t *testing.T) {
	v := validation.New()

	cases := []struct {
		name    string
		mutate  func(*models.KeysetRequest)
		wantErr string
	}{
		{"bad icDate", func(r *models.KeysetRequest) { r.ICDate = "10/01/2023" }, "ICDate"},
		{"quarter not allowed for icDate", func(r *models.KeysetRequest) { r.ICDate = "2023Q4" }, "ICDate"},
		{"bad gbEnd", func(r *models.KeysetRequest) { r.GBEnd = "soon" }, "GBEnd"},
		{"bad gbLaunch", func(r *models.KeysetRequest) { r.GBLaunch = "2024Q5" }, "GBLaunch"},
	}
	for _, tc := range cases {
		req := validKeysetRequest()
		tc.mutate(req)
		if errs := v.ValidateKeyset(req); !hasFieldError(errs, tc.wantErr) {
			t.Errorf("%s: expected error on %s, got %v", tc.name, tc.wantErr, errs)
		}
	}
}

func TestValidateKeyset_LaunchdateAccepts(t *testing.T) {
	v := validation.New()

	for _, launch := range []string{"2024-01-05", "2024-01", "2024Q3", ""} {
		req := validKeysetRequest()
		req.GBLaunch = launch
		if errs := v.ValidateKeyset(req); len(errs) != 0 {
			t.Errorf("gbLaunch %q should be accepted, got %v", launch, errs)
		}
	}
}

func TestValidateKeyset_URLs(t *testing.T) {
	v := validation.New()
	req := validKeysetRequest()
	req.Details = "not a url"
	req.Image = "also not"

	errs := v.ValidateKeyset(req)
	if !hasFieldError(errs, "Details") || !hasFieldError(errs, "Image") {
		t.Errorf("Invalid URLs should be reported, got %v", errs)
	}
}

func TestValidatePreset(t *testing.T) {
	v := validation.New()

	if errs := v.ValidatePreset(&models.PresetRequest{Name: "EU vendors only"}); len(errs) != 0 {
		t.Errorf("Named preset should validate, got %v", errs)
	}
	if errs := v.ValidatePreset(&models.PresetRequest{}); !hasFieldError(errs, "Name") {
		t.Errorf("Unnamed preset should be rejected, got %v", errs)
	}
}
