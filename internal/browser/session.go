package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// session is one isolated rod page implementing capture.Session.
type session struct {
	page   *rod.Page
	logger *slog.Logger
}

func newSession(ctx context.Context, b *rod.Browser, useStealth bool, logger *slog.Logger) (*session, error) {
	var page *rod.Page
	var err error

	if useStealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	return &session{page: page.Context(ctx), logger: logger}, nil
}

func (s *session) Navigate(ctx context.Context, pageURL string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.page.Context(navCtx).Navigate(pageURL); err != nil {
		return err
	}
	return s.page.Context(navCtx).WaitLoad()
}

// WaitReady races network idle against the settle delay; whichever
// completes first wins. Pages that poll forever never go idle, so the
// settle delay is the upper bound.
func (s *session) WaitReady(ctx context.Context, settle time.Duration) error {
	idleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wait := s.page.Context(idleCtx).WaitRequestIdle(300*time.Millisecond, nil, nil, nil)

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		wait()
	}()

	select {
	case <-idle:
	case <-time.After(settle):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *session) ScrollThrough(ctx context.Context, step int, pause time.Duration) error {
	res, err := s.page.Context(ctx).Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return fmt.Errorf("browser: measure for scroll: %w", err)
	}
	total := res.Value.Int()

	for y := 0; y < total; y += step {
		if _, err := s.page.Context(ctx).Eval(`(y) => window.scrollTo(0, y)`, y); err != nil {
			return fmt.Errorf("browser: scroll to %d: %w", y, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}

	if _, err := s.page.Context(ctx).Eval(`() => window.scrollTo(0, 0)`); err != nil {
		return fmt.Errorf("browser: scroll back to top: %w", err)
	}
	return nil
}

func (s *session) ContentHeight(ctx context.Context) (int, error) {
	res, err := s.page.Context(ctx).Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

func (s *session) SetViewport(ctx context.Context, width, height int) error {
	return s.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
}

func (s *session) Screenshot(ctx context.Context) ([]byte, error) {
	return s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

func (s *session) Close() error {
	if s.page != nil {
		return s.page.Close()
	}
	return nil
}
