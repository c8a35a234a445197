package chrome

import (
	"context"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/matrix-org/complement/ct"
	"github.com/matrix-org/complement/must"
)

func MustExecuteInto[T any](t ct.TestLike, ctx context.Context, js string) T {
	t.Helper()
	out, err := ExecuteInto[T](ctx, js)
	must.NotError(t, js, err)
	if out == nil {
		ct.Fatalf(t, "MustExecuteInto: output was nil. JS: %s", js)
	}
	return *out
}

// MustRunAsyncFn is RunAsyncFn but fails the test if an error is returned when executing.
func MustRunAsyncFn[T any](t ct.TestLike, ctx context.Context, js string) *T {
	t.Helper()
	result, err := RunAsyncFn[T](ctx, js)
	if err != nil {
		ct.Fatalf(t, "MustRunAsyncFn: %s", err)
	}
	return result
}

func MustExecute(t ct.TestLike, ctx context.Context, js string) {
	t.Helper()
	var r *runtime.RemoteObject // stop large responses causing errors "Object reference chain is too long (-32000)"
	err := chromedp.Run(ctx,
		chromedp.Evaluate(js, &r),
	)
	must.NotError(t, js, err)
}
