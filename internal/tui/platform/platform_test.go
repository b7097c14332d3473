package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name  string
	args  []string
	stdin string
}

func fakeLauncher(goos string, env map[string]string, installed ...string) (Launcher, *[]call) {
	var calls []call
	have := map[string]bool{}
	for _, bin := range installed {
		have[bin] = true
	}
	return Launcher{
		GOOS:   goos,
		Getenv: func(k string) string { return env[k] },
		LookPath: func(bin string) (string, error) {
			if have[bin] {
				return "/usr/bin/" + bin, nil
			}
			return "", errors.New("not found")
		},
		Run: func(name string, args []string, stdin string) error {
			calls = append(calls, call{name: name, args: args, stdin: stdin})
			return nil
		},
	}, &calls
}

func TestImageTarget(t *testing.T) {
	got, err := ImageTarget("  https://img.example.com/photo-1-0.png ")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/photo-1-0.png", got)

	for _, tc := range []struct {
		in   string
		want error
	}{
		{in: "", want: ErrNoImage},
		{in: "   ", want: ErrNoImage},
		{in: "file:///tmp/a.png", want: ErrNotWebImage},
		{in: "images/a.png", want: ErrNotWebImage},
		{in: "https://", want: ErrNotWebImage},
	} {
		_, err := ImageTarget(tc.in)
		assert.ErrorIs(t, err, tc.want, "input %q", tc.in)
	}
}

func TestLauncherOpen(t *testing.T) {
	const target = "https://img.example.com/a.png"
	for _, tc := range []struct {
		goos string
		env  map[string]string
		want call
	}{
		{goos: "darwin", want: call{name: "open", args: []string{target}}},
		{goos: "windows", want: call{name: "rundll32", args: []string{"url.dll,FileProtocolHandler", target}}},
		{goos: "linux", want: call{name: "xdg-open", args: []string{target}}},
		{goos: "linux", env: map[string]string{"BROWSER": "firefox"}, want: call{name: "firefox", args: []string{target}}},
	} {
		l, calls := fakeLauncher(tc.goos, tc.env)
		require.NoError(t, l.Open(target))
		require.Len(t, *calls, 1)
		assert.Equal(t, tc.want, (*calls)[0], tc.goos)
	}
}

func TestLauncherCopy(t *testing.T) {
	l, calls := fakeLauncher("linux", nil, "xclip", "wl-copy")
	require.NoError(t, l.Copy("https://img.example.com/a.png"))
	assert.Equal(t, []call{{name: "xclip", args: []string{"-selection", "clipboard"}, stdin: "https://img.example.com/a.png"}}, *calls)

	l, calls = fakeLauncher("linux", map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, "xclip", "wl-copy")
	require.NoError(t, l.Copy("x"))
	assert.Equal(t, "wl-copy", (*calls)[0].name)

	l, calls = fakeLauncher("windows", nil, "clip")
	require.NoError(t, l.Copy("x"))
	assert.Equal(t, "clip", (*calls)[0].name)
}

func TestLauncherCopy_NoTool(t *testing.T) {
	l, calls := fakeLauncher("linux", nil)
	assert.ErrorIs(t, l.Copy("x"), ErrNoClipboard)
	assert.Empty(t, *calls)
}

func TestLauncherOpen_WrapsFailure(t *testing.T) {
	l, _ := fakeLauncher("linux", nil)
	boom := errors.New("exit status 3")
	l.Run = func(string, []string, string) error { return boom }
	err := l.Open("https://img.example.com/a.png")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "xdg-open")
}
