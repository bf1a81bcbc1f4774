package llm

import "testing"

type probe struct {
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    string
	}{
		{"plain object", `{"status": "verified", "confidence": 0.9}`, false, "verified"},
		{"fenced", "```json\n{\"status\": \"debunked\"}\n```", false, "debunked"},
		{"fenced no language", "```\n{\"status\": \"debunked\"}\n```", false, "debunked"},
		{"prose around object", `Here is my answer: {"status": "misleading"} hope it helps`, false, "misleading"},
		{"not json", "the claim is probably true", true, ""},
		{"empty", "", true, ""},
		{"truncated object", `{"status": "verified", "confi`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out probe
			err := DecodeJSON(tt.input, &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && out.Status != tt.want {
				t.Errorf("status = %q, want %q", out.Status, tt.want)
			}
		})
	}
}
