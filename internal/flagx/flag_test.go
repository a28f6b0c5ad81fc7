package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-api", "http://127.0.0.1:4000", "story", "list"},
			allowed: []string{"-api", "-db"},
			want:    []string{"-api", "http://127.0.0.1:4000"},
		},
		{
			name:    "equals form",
			args:    []string{"-db=/tmp/j.db", "login", "-u", "alice"},
			allowed: []string{"-api", "-db"},
			want:    []string{"-db=/tmp/j.db"},
		},
		{
			name:    "next token starting with dash is not a value",
			args:    []string{"-api", "-db", "x.db"},
			allowed: []string{"-api", "-db"},
			want:    []string{"-api", "-db", "x.db"},
		},
		{
			name:    "value that looks like a flag in equals form",
			args:    []string{"-db=--weird.db"},
			allowed: []string{"-db"},
			want:    []string{"-db=--weird.db"},
		},
		{
			name:    "unknown flags ignored, result not nil",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-api"},
			want:    []string{},
		},
		{
			name:    "repeated flag kept in order",
			args:    []string{"-i", "3", "-i", "10"},
			allowed: []string{"-i"},
			want:    []string{"-i", "3", "-i", "10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short -c", args: []string{"-c", "/etc/journify.json"}, want: "/etc/journify.json"},
		{name: "long -config", args: []string{"-config", "/etc/relay.json"}, want: "/etc/relay.json"},
		{name: "double dash with equals", args: []string{"story", "list", "--config=dev.json"}, want: "dev.json"},
		{name: "subcommand flags ignored", args: []string{"story", "add", "--lat", "1.5", "-d", "hi"}, want: ""},
		{name: "last wins", args: []string{"-c", "/a.json", "-config", "/b.json"}, want: "/b.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JsonConfigFlags(tt.args))
		})
	}
}
