// Package platform hands review images to the desktop: the browser and the
// clipboard.
package platform

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var (
	ErrNoImage      = errors.New("review has no image")
	ErrNotWebImage  = errors.New("image is not a web URL")
	ErrNoClipboard  = errors.New("no clipboard command available")
	defaultLauncher = NewLauncher()
)

// ImageTarget checks that an image identity can be handed to a browser. The
// bundled fixture and the HTTP backend both produce absolute http(s) URLs;
// anything else stays inside the image cache.
func ImageTarget(identity string) (string, error) {
	trimmed := strings.TrimSpace(identity)
	if trimmed == "" {
		return "", ErrNoImage
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotWebImage, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrNotWebImage, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrNotWebImage)
	}
	return trimmed, nil
}

// Launcher runs the desktop helpers. Its fields are swapped in tests.
type Launcher struct {
	GOOS     string
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Run      func(name string, args []string, stdin string) error
}

func NewLauncher() Launcher {
	return Launcher{
		GOOS:     runtime.GOOS,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Run:      run,
	}
}

// Open shows target in the user's browser. $BROWSER wins over the
// platform opener.
func (l Launcher) Open(target string) error {
	name, args := l.browserCommand(target)
	if err := l.Run(name, args, ""); err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	return nil
}

// Copy puts target on the clipboard.
func (l Launcher) Copy(target string) error {
	c, err := l.clipboardCommand()
	if err != nil {
		return err
	}
	if err := l.Run(c[0], c[1:], target); err != nil {
		return fmt.Errorf("copy with %s: %w", c[0], err)
	}
	return nil
}

func (l Launcher) browserCommand(target string) (string, []string) {
	if b := strings.TrimSpace(l.Getenv("BROWSER")); b != "" {
		return b, []string{target}
	}
	switch l.GOOS {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

func (l Launcher) clipboardCommand() ([]string, error) {
	var candidates [][]string
	switch l.GOOS {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		candidates = [][]string{{"clip"}}
	default:
		if l.Getenv("WAYLAND_DISPLAY") != "" {
			candidates = append(candidates, []string{"wl-copy"})
		}
		candidates = append(candidates,
			[]string{"xclip", "-selection", "clipboard"},
			[]string{"xsel", "--clipboard", "--input"},
			[]string{"wl-copy"},
		)
	}
	for _, c := range candidates {
		if _, err := l.LookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrNoClipboard
}

func run(name string, args []string, stdin string) error {
	cmd := exec.Command(name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	return cmd.Run()
}

func OpenURLInBrowser(target string) error { return defaultLauncher.Open(target) }

func CopyURLToClipboard(target string) error { return defaultLauncher.Copy(target) }
