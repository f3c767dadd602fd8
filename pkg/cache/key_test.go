package cache

import (
	"net/url"
	"testing"
)

func TestBuildKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []any
		want  string
	}{
		{
			name:  "drops nil and blank parts, keeps falsy values",
			parts: []any{"a", nil, " b ", 1, false, nil},
			want:  "a|b|1|false",
		},
		{
			name:  "entity and id",
			parts: []any{"job", "j-42"},
			want:  "job|j-42",
		},
		{
			name:  "paginated list",
			parts: []any{"jobs", "c-7", "page", 3},
			want:  "jobs|c-7|page|3",
		},
		{
			name:  "zero page number is kept",
			parts: []any{"jobs", "c-7", "page", 0},
			want:  "jobs|c-7|page|0",
		},
		{
			name:  "all parts blank",
			parts: []any{nil, "", "   "},
			want:  "",
		},
		{
			name:  "no parts",
			parts: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildKey(tt.parts...)
			if got != tt.want {
				t.Errorf("BuildKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestKey(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		path   string
		query  url.Values
		want   string
	}{
		{
			name:   "strips embedded query string",
			userID: "user123",
			path:   "/api/test?old=param",
			want:   "u:user123|/api/test",
		},
		{
			name:   "sorts query keys",
			userID: "user123",
			path:   "/api/test",
			query:  url.Values{"z": {"last"}, "a": {"first"}},
			want:   "u:user123|/api/test?a=first&z=last",
		},
		{
			name: "anonymous request has no user prefix",
			path: "/companies/c-7/jobs",
			want: "/companies/c-7/jobs",
		},
		{
			name:   "valueless query entries are dropped",
			userID: "u1",
			path:   "/jobs",
			query:  url.Values{"page": {"2"}, "ghost": nil},
			want:   "u:u1|/jobs?page=2",
		},
		{
			name:   "query with only valueless entries omits the separator",
			userID: "u1",
			path:   "/jobs",
			query:  url.Values{"ghost": nil},
			want:   "u:u1|/jobs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequestKey(tt.userID, tt.path, tt.query)
			if got != tt.want {
				t.Errorf("RequestKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRequestKey_Determinism ensures key order in the query map never
// changes the resulting key.
func TestRequestKey_Determinism(t *testing.T) {
	query := url.Values{
		"page":     {"2"},
		"location": {"berlin"},
		"remote":   {"true"},
		"salary":   {"50000"},
	}

	first := RequestKey("user123", "/companies/c-7/jobs", query)
	for i := 0; i < 10; i++ {
		if got := RequestKey("user123", "/companies/c-7/jobs", query); got != first {
			t.Fatalf("RequestKey not deterministic: %q vs %q", got, first)
		}
	}
}
