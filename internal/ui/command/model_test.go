package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"active", Command{Kind: KindFilter, Arg: "active"}},
		{"COMPLETED", Command{Kind: KindFilter, Arg: "completed"}},
		{"filter bogus", Command{Kind: KindFilter, Arg: "all"}},
		{"search buy milk", Command{Kind: KindSearch, Arg: "buy milk"}},
		{"search", Command{Kind: KindSearch, Arg: ""}},
		{"page 3", Command{Kind: KindPage, N: 3}},
		{"p -1", Command{Kind: KindPage, N: -1}},
		{"size 10", Command{Kind: KindPageSize, N: 10}},
		{"  clear ", Command{Kind: KindClear}},
		{"refresh", Command{Kind: KindRefresh}},
		{"q", Command{Kind: KindQuit}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"page", "page x", "size 0", "size -2", "launch"} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}
