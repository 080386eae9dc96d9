package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommandKind(t *testing.T) {
	tests := []struct {
		in    string
		want  CommandKind
		known bool
	}{
		{"info", CommandInfo, true},
		{" Status ", CommandStatus, true},
		{"UPDATE", CommandUpdate, true},
		{"Foo", CommandKind("Foo"), false},
		{"", CommandKind(""), false},
	}
	for _, tt := range tests {
		got := ParseCommandKind(tt.in)
		require.Equal(t, tt.want, got, tt.in)
		require.Equal(t, tt.known, got.Known(), tt.in)
	}
}
