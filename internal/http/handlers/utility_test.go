package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCalculateReplaysKeySequence(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"keys":"12+7="}`)
	app.Calculate(w, httptest.NewRequest(http.MethodPost, "/v1/calc", body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp calcResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Display != "19" {
		t.Fatalf("display = %q, want 19", resp.Display)
	}
	if resp.Expression != "12 + 7 =" {
		t.Fatalf("expression = %q", resp.Expression)
	}
}

func TestCalculateIgnoresUnknownKeys(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"keys":"8x/2="}`)
	app.Calculate(w, httptest.NewRequest(http.MethodPost, "/v1/calc", body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp calcResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Display != "4" {
		t.Fatalf("display = %q, want 4", resp.Display)
	}
}

func TestCalculateRequiresKeys(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})

	for name, body := range map[string]string{
		"empty keys":   `{"keys":"  "}`,
		"missing keys": `{}`,
	} {
		w := httptest.NewRecorder()
		app.Calculate(w, httptest.NewRequest(http.MethodPost, "/v1/calc", strings.NewReader(body)))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", name, w.Code)
		}
		if !strings.Contains(w.Body.String(), "keys_required") {
			t.Fatalf("%s: body = %s", name, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	app.Calculate(w, httptest.NewRequest(http.MethodPost, "/v1/calc", strings.NewReader("not json")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d", w.Code)
	}
}

func TestConvertBetweenUnits(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})

	w := httptest.NewRecorder()
	app.Convert(w, httptest.NewRequest(http.MethodGet, "/v1/convert?category=length&from=km&to=mile&value=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp convertResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result != 3.1069 {
		t.Fatalf("result = %v, want 3.1069", resp.Result)
	}

	// Swapping direction is the same endpoint with from and to exchanged.
	w = httptest.NewRecorder()
	app.Convert(w, httptest.NewRequest(http.MethodGet, "/v1/convert?category=temperature&from=fahrenheit&to=celsius&value=212", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("swap status = %d, body %s", w.Code, w.Body.String())
	}
	resp = convertResponse{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result != 100 {
		t.Fatalf("result = %v, want 100", resp.Result)
	}
}

func TestConvertRejectsBadInput(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})

	w := httptest.NewRecorder()
	app.Convert(w, httptest.NewRequest(http.MethodGet, "/v1/convert?category=length&from=km&to=furlong&value=1", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown unit: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unsupported_conversion") {
		t.Fatalf("unknown unit: body = %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	app.Convert(w, httptest.NewRequest(http.MethodGet, "/v1/convert?category=length&from=km&to=m&value=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad value: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "value_required") {
		t.Fatalf("bad value: body = %s", w.Body.String())
	}
}

func TestConvertUnitsListsCategory(t *testing.T) {
	app := newTestApp(t, &StubExecutor{})

	w := httptest.NewRecorder()
	app.ConvertUnits(w, httptest.NewRequest(http.MethodGet, "/v1/convert/units?category=weight", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp convertUnitsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Units) != 4 || resp.Units[0] != "kg" {
		t.Fatalf("units = %v", resp.Units)
	}

	w = httptest.NewRecorder()
	app.ConvertUnits(w, httptest.NewRequest(http.MethodGet, "/v1/convert/units?category=volume", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown category: status = %d", w.Code)
	}
}
