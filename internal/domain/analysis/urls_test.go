package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "empty body",
			body: "",
			want: []string{},
		},
		{
			name: "no links",
			body: "please review the attached invoice",
			want: []string{},
		},
		{
			name: "single http link",
			body: "click http://evil.example/login now",
			want: []string{"http://evil.example/login"},
		},
		{
			name: "https link terminated by double quote",
			body: `<a href="https://evil.example/reset?id=42">reset</a>`,
			want: []string{"https://evil.example/reset?id=42"},
		},
		{
			name: "duplicates and order preserved",
			body: "see http://a.com and http://a.com",
			want: []string{"http://a.com", "http://a.com"},
		},
		{
			name: "mixed schemes in scan order",
			body: "first https://one.example then http://two.example/x",
			want: []string{"https://one.example", "http://two.example/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.body)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
