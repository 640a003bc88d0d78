package cmd

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsk(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		current string
		want    string
	}{
		{name: "empty keeps current", input: "\n", current: "alice", want: "alice"},
		{name: "dash clears current", input: "-\n", current: "alice", want: ""},
		{name: "answer replaces current", input: "  bob \n", current: "alice", want: "bob"},
		{name: "empty without current", input: "\n", current: "", want: ""},
		{name: "no trailing newline", input: "carol", current: "alice", want: "carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := bufio.NewReader(strings.NewReader(tt.input))
			assert.Equal(t, tt.want, ask(reader, "User name", tt.current, ""))
		})
	}
}
