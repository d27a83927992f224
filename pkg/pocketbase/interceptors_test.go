package pocketbase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInterceptorRejected = errors.New("rejected")

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, "debug:"+msg)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, "info:"+msg)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, "warn:"+msg)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, "error:"+msg)
}

func TestInterceptorChain(t *testing.T) {
	t.Parallel()
	t.Run("runs request interceptors in order", func(t *testing.T) {
		t.Parallel()

		chain := pocketbase.NewInterceptorChain()

		var order []int

		chain.AddRequestInterceptor(func(ctx context.Context, req *pocketbase.Request) error {
			order = append(order, 1)

			return nil
		})
		chain.AddRequestInterceptor(func(ctx context.Context, req *pocketbase.Request) error {
			order = append(order, 2)

			return nil
		})

		err := chain.ExecuteRequestInterceptors(context.Background(), &pocketbase.Request{})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("first failure stops the chain", func(t *testing.T) {
		t.Parallel()

		chain := pocketbase.NewInterceptorChain()

		secondCalled := false

		chain.AddRequestInterceptor(func(ctx context.Context, req *pocketbase.Request) error {
			return errInterceptorRejected
		})
		chain.AddRequestInterceptor(func(ctx context.Context, req *pocketbase.Request) error {
			secondCalled = true

			return nil
		})

		err := chain.ExecuteRequestInterceptors(context.Background(), &pocketbase.Request{})
		require.ErrorIs(t, err, errInterceptorRejected)
		assert.False(t, secondCalled)
	})

	t.Run("response interceptors see request and response", func(t *testing.T) {
		t.Parallel()

		chain := pocketbase.NewInterceptorChain()

		chain.AddResponseInterceptor(func(ctx context.Context, req *pocketbase.Request, resp *pocketbase.Response) error {
			assert.Equal(t, "GET", req.Method)
			assert.Equal(t, 200, resp.StatusCode)

			return nil
		})

		err := chain.ExecuteResponseInterceptors(context.Background(),
			&pocketbase.Request{Method: "GET", Path: "health"},
			&pocketbase.Response{StatusCode: 200})
		require.NoError(t, err)
	})
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := pocketbase.HeaderInterceptor("X-Client-Version", "1.0.0")

	req := &pocketbase.Request{Headers: http.Header{}}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "1.0.0", req.Headers.Get("X-Client-Version"))

	// Nil headers are initialized on demand.
	bare := &pocketbase.Request{}
	require.NoError(t, interceptor(context.Background(), bare))
	assert.Equal(t, "1.0.0", bare.Headers.Get("X-Client-Version"))
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}

	reqInterceptor := pocketbase.LoggingInterceptor(logger)
	respInterceptor := pocketbase.LoggingResponseInterceptor(logger)

	req := &pocketbase.Request{Method: "GET", Path: "health"}

	require.NoError(t, reqInterceptor(context.Background(), req))
	require.NoError(t, respInterceptor(context.Background(), req, &pocketbase.Response{StatusCode: 200}))
	require.NoError(t, respInterceptor(context.Background(), req, &pocketbase.Response{StatusCode: 500, Error: errInterceptorRejected}))

	assert.Equal(t, []string{"debug:API Request", "debug:API Response", "error:API Response Error"}, logger.entries)
}

func TestRateLimitInterceptor(t *testing.T) {
	t.Parallel()
	t.Run("allows initial burst", func(t *testing.T) {
		t.Parallel()

		interceptor := pocketbase.RateLimitInterceptor(3)

		for i := 0; i < 3; i++ {
			require.NoError(t, interceptor(context.Background(), &pocketbase.Request{}))
		}
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		t.Parallel()

		interceptor := pocketbase.RateLimitInterceptor(1)

		// Drain the bucket.
		require.NoError(t, interceptor(context.Background(), &pocketbase.Request{}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := interceptor(ctx, &pocketbase.Request{})
		require.ErrorIs(t, err, context.Canceled)
	})
}
