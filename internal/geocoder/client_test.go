package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReverseGeocode_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/geocode/v1/json" {
			t.Fatalf("path = %s, want /geocode/v1/json", r.URL.Path)
		}
		if key := r.URL.Query().Get("key"); key != "test-key" {
			t.Fatalf("key = %q, want test-key", key)
		}
		if q := r.URL.Query().Get("q"); q == "" {
			t.Fatalf("empty q parameter")
		}

		resp := geocodeResponse{}
		resp.Results = []struct {
			Components Components `json:"components"`
		}{
			{Components: Components{
				Village:       "Bibighar",
				County:        "Kanpur",
				StateDistrict: "Kanpur Division",
				State:         "Uttar Pradesh",
				Postcode:      "208001",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-key")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	location, err := client.ReverseGeocode(ctx, 26.46, 80.33)
	if err != nil {
		t.Fatalf("ReverseGeocode error: %v", err)
	}

	want := "Bibighar, Kanpur, Kanpur Division, Uttar Pradesh\n208001"
	if location != want {
		t.Fatalf("location = %q, want %q", location, want)
	}
}

func TestReverseGeocode_EmptyResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-key")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := client.ReverseGeocode(ctx, 0, 0); err == nil {
		t.Fatalf("expected error for empty results")
	}
}

func TestReverseGeocode_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "bad-key")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := client.ReverseGeocode(ctx, 0, 0); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestReverseGeocode_NotConfigured(t *testing.T) {
	client := NewClient("", "")

	if _, err := client.ReverseGeocode(context.Background(), 0, 0); err == nil {
		t.Fatalf("expected error for unconfigured client")
	}
}

func TestFormatAddress_MissingParts(t *testing.T) {
	tests := []struct {
		name       string
		components Components
		want       string
	}{
		{
			name: "no village",
			components: Components{
				County:   "Kanpur",
				State:    "Uttar Pradesh",
				Postcode: "208001",
			},
			want: "Kanpur, Uttar Pradesh\n208001",
		},
		{
			name: "no postcode",
			components: Components{
				Village: "Bibighar",
				State:   "Uttar Pradesh",
			},
			want: "Bibighar, Uttar Pradesh",
		},
		{
			name:       "empty",
			components: Components{},
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAddress(tt.components); got != tt.want {
				t.Fatalf("FormatAddress = %q, want %q", got, tt.want)
			}
		})
	}
}
