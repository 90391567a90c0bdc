package security

import (
	"net/http/httptest"
	"testing"
)

func TestDetectSuspiciousRequest(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"normal api call", "/api/transactions?kind=expense", false},
		{"path traversal", "/static/../../etc/passwd", true},
		{"env probe", "/.env", true},
		{"wordpress scan", "/wp-admin/setup.php", true},
		{"code injection in query", "/api/transactions?q=eval(document)", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := d.DetectSuspiciousRequest(r); got != tt.want {
				t.Errorf("DetectSuspiciousRequest(%s)=%v, want %v", tt.target, got, tt.want)
			}
		})
	}

	if d.SuspiciousCount() != 4 {
		t.Errorf("SuspiciousCount=%d, want 4", d.SuspiciousCount())
	}
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		want       string
	}{
		{"direct connection", "203.0.113.7:4431", "", "", "203.0.113.7"},
		{"forwarded behind trusted proxy", "10.0.0.5:8080", "203.0.113.9, 10.0.0.5", "", "203.0.113.9"},
		{"forwarded header from untrusted peer is ignored", "203.0.113.7:4431", "198.51.100.1", "", "203.0.113.7"},
		{"x-real-ip behind trusted proxy", "127.0.0.1:9000", "", "203.0.113.2", "203.0.113.2"},
		{"garbage forwarded value falls back", "10.0.0.5:8080", "not-an-ip", "", "10.0.0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				r.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP=%q, want %q", got, tt.want)
			}
		})
	}
}
