package chrome

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Tab represents an open player page
type Tab struct {
	URL     string
	Ctx     context.Context // tab context
	browser *Browser        // a ref to the browser which made this tab
	cancel  func()          // closes the tab
}

func (t *Tab) Close() {
	t.cancel()
}

// Void is a type which can be used when you want to run an async function without returning anything.
// It can stop large responses causing errors "Object reference chain is too long (-32000)"
// when we don't care about the response.
type Void *runtime.RemoteObject

// Run an anonymous async iffe in the tab. Set the type parameter to a basic data type
// which can be returned as JSON e.g string, map[string]any, []string. If you do not want
// to return anything, use chrome.Void. For example:
//
//	result, err := RunAsyncFn[string](ctx, "return await getSomeString()")
//	void, err := RunAsyncFn[chrome.Void](ctx, "doSomething(); await doSomethingElse();")
func RunAsyncFn[T any](ctx context.Context, js string) (*T, error) {
	out := new(T)
	err := chromedp.Run(ctx,
		chromedp.Evaluate(`(async () => {`+js+`})()`, &out, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteInto evaluates js synchronously and decodes the result into T.
func ExecuteInto[T any](ctx context.Context, js string) (*T, error) {
	out := new(T)
	err := chromedp.Run(ctx,
		chromedp.Evaluate(js, &out),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WaitFor polls cond every 50ms until it returns true, ctx is done, or timeout passes.
func WaitFor(ctx context.Context, timeout time.Duration, cond func() bool) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		if cond() {
			return true
		}
		select {
		case <-ctx.Done():
			return cond()
		case <-deadline.C:
			return cond()
		case <-tick.C:
		}
	}
}
