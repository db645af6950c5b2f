package shared

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// BrowserEnv names a browser command that replaces the platform default.
const BrowserEnv = "BROWSER"

var getRuntime = func() string { return runtime.GOOS }

// browserCommand returns the program and arguments that open url.
func browserCommand(url string) (string, []string, error) {
	if browser := os.Getenv(BrowserEnv); browser != "" {
		return browser, []string{url}, nil
	}

	switch goos := getRuntime(); goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("%w: no browser launcher for %s", ErrServiceUnavailable, goos)
	}
}

// OpenBrowser opens url in the user's browser without waiting for it to exit.
func OpenBrowser(url string) error {
	name, args, err := browserCommand(url)
	if err != nil {
		return err
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("%w: failed to open browser: %v", ErrServiceUnavailable, err)
	}
	return nil
}
