package scrape

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Renderer produces the HTML of a page after scripts have run.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Hard cap on navigation; a hanging page aborts the dynamic tier
// instead of hanging the caller.
const navigationTimeout = 30 * time.Second

// Scroll to the bottom in steps so lazy-loaded menu sections mount.
const autoScrollJS = `
	new Promise((resolve) => {
		let totalHeight = 0;
		const distance = 200;
		const timer = setInterval(() => {
			const scrollHeight = document.body.scrollHeight;
			window.scrollBy(0, distance);
			totalHeight += distance;
			if (totalHeight >= scrollHeight) {
				clearInterval(timer);
				resolve();
			}
		}, 200);
	})
`

// ChromeRenderer is the heavy dynamic tier: a headless browser session
// per call. The session is scoped to the call and released on every
// exit path, including timeout and caller cancellation.
type ChromeRenderer struct{}

func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{}
}

func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(
		ctx,
		chromedp.DefaultExecAllocatorOptions[:]...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, navigationTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Evaluate(autoScrollJS, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}

	return html, nil
}
