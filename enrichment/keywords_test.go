package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "frequency ordering",
			text: "database database database index index query",
			want: []string{"database", "index", "query"},
		},
		{
			name: "stop words removed",
			text: "the quick brown fox and the lazy dog",
			want: []string{"quick", "brown", "fox", "lazy", "dog"},
		},
		{
			name: "short words removed",
			text: "go is an ok language for web apps",
			want: []string{"language", "web", "apps"},
		},
		{
			name: "case folded",
			text: "Kubernetes KUBERNETES kubernetes Docker docker helm",
			want: []string{"kubernetes", "docker", "helm"},
		},
		{
			name: "capped at five",
			text: "one one one two two two three three four four five six seven",
			want: []string{"one", "two", "three", "four", "five"},
		},
		{
			name: "ties break by first occurrence",
			text: "zebra apple zebra apple mango",
			want: []string{"zebra", "apple", "mango"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "punctuation splits words",
			text: "storage, storage; search!",
			want: []string{"storage", "search"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.text))
		})
	}
}
