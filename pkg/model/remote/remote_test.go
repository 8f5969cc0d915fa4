package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
	"github.com/matzehuels/floorgen/pkg/mask"
	"github.com/matzehuels/floorgen/pkg/model"
	"github.com/matzehuels/floorgen/pkg/observability"
)

func testInput(t *testing.T, nodes, size int) model.Input {
	t.Helper()
	cond, err := mask.Encode(nodes, size, nil, nil)
	require.NoError(t, err)
	in := model.Input{
		Conditioning: cond,
		Noise:        make([][]float32, nodes),
		Features:     make([][]float32, nodes),
		Edges:        [][3]int{{0, 1, 0}},
	}
	for i := range in.Noise {
		in.Noise[i] = make([]float32, 4)
		in.Features[i] = []float32{1, 0}
	}
	return in
}

func TestInvoke(t *testing.T) {
	var got request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(response{Masks: [][][]float32{
			{{1, -1}, {-1, 1}},
			{{-1, -1}, {1, 1}},
		}})
	}))
	defer server.Close()

	c := New(server.URL, WithHTTPClient(server.Client()), WithHeader("Authorization", "Bearer secret"))
	out, err := c.Invoke(context.Background(), testInput(t, 2, 2))
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, mask.Map{Size: 2, Data: []float32{1, -1, -1, 1}}, out[0])
	assert.Equal(t, mask.Map{Size: 2, Data: []float32{-1, -1, 1, 1}}, out[1])

	require.Len(t, got.Conditioning, 2)
	assert.Len(t, got.Conditioning[0], 2, "two channels per node")
	assert.Equal(t, [][3]int{{0, 1, 0}}, got.Edges)
	assert.Len(t, got.Noise, 2)
}

func TestInvokeErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    ferrors.Code
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "out of memory", http.StatusInternalServerError)
		}, ferrors.ErrCodeNetwork},
		{"garbage", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}, ferrors.ErrCodeInvalidFormat},
		{"ragged", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(response{Masks: [][][]float32{{{1, 1}, {1}}}})
		}, ferrors.ErrCodeInvalidFormat},
		{"service error", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(response{Error: "checkpoint not loaded"})
		}, ferrors.ErrCodeModelInference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				tt.handler(w, r)
			}))
			defer server.Close()

			_, err := New(server.URL, WithHTTPClient(server.Client())).Invoke(context.Background(), testInput(t, 1, 2))
			require.Error(t, err)
			assert.True(t, ferrors.Is(err, tt.code), "code = %v", ferrors.GetCode(err))
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}

func TestInvokeContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(server.URL, WithHTTPClient(server.Client())).Invoke(ctx, testInput(t, 1, 2))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInvokeInvalidInput(t *testing.T) {
	c := New("http://127.0.0.1:0")
	_, err := c.Invoke(context.Background(), model.Input{})
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidInput))
}

func TestNewOptions(t *testing.T) {
	c := New("http://model.local/infer", WithTimeout(3*time.Second))
	assert.Equal(t, "http://model.local/infer", c.URL())
	assert.Equal(t, 3*time.Second, c.http.Timeout)

	c = New("http://model.local/infer", WithTimeout(0))
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.statuses = append(h.statuses, status)
}

func TestInvokeReportsHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New(server.URL, WithHTTPClient(server.Client())).Invoke(context.Background(), testInput(t, 1, 2))
	require.Error(t, err)
	assert.Equal(t, []int{http.StatusServiceUnavailable}, hooks.statuses)
}
