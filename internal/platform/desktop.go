package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier shows system notifications through the OS notification
// daemon.
type DesktopNotifier struct {
	// AssetDir resolves web-style icon paths such as /images/logo.png.
	AssetDir string

	notify func(title, message, icon string) error
}

func NewDesktopNotifier(appName, assetDir string) *DesktopNotifier {
	if appName != "" {
		beeep.AppName = appName
	}
	return &DesktopNotifier{AssetDir: assetDir, notify: func(title, message, icon string) error {
		return beeep.Notify(title, message, icon)
	}}
}

func (d *DesktopNotifier) Notify(_ context.Context, ev Event) error {
	n, ok := ev.(SystemNotification)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNoSurface, ev)
	}
	if err := d.notify(n.Title, n.Body, d.iconPath(n.Icon)); err != nil {
		return fmt.Errorf("desktop notify: %w", err)
	}
	return nil
}

// iconPath returns a local file for icon, or "" when there is none.
func (d *DesktopNotifier) iconPath(icon string) string {
	if icon == "" || d.AssetDir == "" || strings.Contains(icon, "://") {
		return ""
	}
	p := filepath.Join(d.AssetDir, filepath.FromSlash(strings.TrimPrefix(icon, "/")))
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}
