package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/pribylovaa/news-analyzer/internal/models"
)

// desktopTitle — заголовок системного уведомления.
const desktopTitle = "News Alert"

// maxDesktopMessage — предел текста уведомления в рунах; длиннее демоны
// уведомлений обрезают текст сами, без многоточия.
const maxDesktopMessage = 256

// Runner показывает уведомление с заголовком и текстом.
type Runner func(title, message string) error

var appNameOnce sync.Once

// Desktop показывает системное уведомление через beeep
// (D-Bus или notify-send на Linux, osascript на macOS, Toast на Windows).
type Desktop struct {
	run Runner
}

// NewDesktop создаёт канал для текущей ОС.
func NewDesktop() *Desktop {
	appNameOnce.Do(func() { beeep.AppName = "news-analyzer" })

	return &Desktop{run: beeepRunner}
}

// NewDesktopWith позволяет подменить показ уведомления.
func NewDesktopWith(run Runner) *Desktop {
	return &Desktop{run: run}
}

// Name реализует Sink.
func (d *Desktop) Name() string { return "desktop" }

// Send реализует Sink. beeep не принимает контекст, поэтому показ идёт
// в отдельной горутине, а Send возвращается по ctx.Done.
func (d *Desktop) Send(ctx context.Context, alert models.Alert) error {
	msg := truncate(alert.Message(), maxDesktopMessage)

	done := make(chan error, 1)
	go func() { done <- d.run(desktopTitle, msg) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("desktop: %w", ctx.Err())
	}
}

func beeepRunner(title, message string) error {
	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("beeep: %w", err)
	}

	return nil
}

// truncate обрезает строку до n рун.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}
