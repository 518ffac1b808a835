package summarizer_test

import (
	"fmt"
	"strings"
	"testing"

	"planner/internal/summarizer"

	"github.com/stretchr/testify/assert"
)

func words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i+1)
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "ten words unchanged", in: strings.Join(words(10), " "), want: strings.Join(words(10), " ")},
		{name: "exactly twenty unchanged", in: strings.Join(words(20), " "), want: strings.Join(words(20), " ")},
		{
			name: "short text keeps its spacing",
			in:   "  keep\tthis   spacing\n",
			want: "  keep\tthis   spacing\n",
		},
		{
			name: "twenty five words truncated",
			in:   strings.Join(words(25), " "),
			want: strings.Join(words(20), " ") + "...",
		},
		{
			name: "irregular whitespace collapsed when truncating",
			in:   strings.Join(words(21), " \n\t "),
			want: strings.Join(words(20), " ") + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarizer.Summarize(tt.in))
		})
	}
}
