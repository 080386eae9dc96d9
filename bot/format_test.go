package bot

import (
	"testing"

	"ServerDesk/entity"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text    string
		ok      bool
		kind    entity.CommandKind
		profile string
	}{
		{text: "/info p1", ok: true, kind: entity.CommandInfo, profile: "p1"},
		{text: "/LIST", ok: true, kind: entity.CommandList},
		{text: "/status@ServerDeskBot  p2 extra", ok: true, kind: entity.CommandStatus, profile: "p2"},
		{text: "/status@OtherBot p2", ok: false},
		{text: "/Foo", ok: true, kind: entity.CommandKind("Foo")},
		{text: "hello", ok: false},
		{text: "/", ok: false},
		{text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd, ok := parseCommand(tt.text, "ServerDeskBot")
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			require.Equal(t, tt.kind, cmd.kind)
			require.Equal(t, tt.profile, cmd.profileID)
		})
	}
}

func TestToHTML(t *testing.T) {
	require.Equal(t, "<b>Count:</b> 2", toHTML("**Count:** 2"))
	require.Equal(t, "<pre>Profile Id: p1\nProfile: A &lt;1&gt;</pre>", toHTML("```Profile Id: p1\nProfile: A <1>```"))
	require.Equal(t, "plain", toHTML("plain"))
}

func TestSanitize(t *testing.T) {
	require.Equal(t, `WARN: failed \(retry\)\.`, sanitize("WARN: failed (retry)."))
	require.Equal(t, "", sanitize(""))
}
