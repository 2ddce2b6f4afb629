package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickvault/models"
)

type setsPayload struct {
	Sets []models.Set `json:"sets"`
}

func (p setsPayload) Validate() error {
	for _, s := range p.Sets {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func TestGetDecodesSuccessEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sets/search.php", r.URL.Path)
		assert.Equal(t, "falcon", r.URL.Query().Get("q"))
		w.Write([]byte(`{"success":true,"sets":[{"set_num":"75192-1","name":"Millennium Falcon","num_parts":7541}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	res := Get[setsPayload](context.Background(), c, "/sets/search.php", map[string][]string{"q": {"falcon"}})
	require.True(t, res.IsOk())
	payload, err := res.Unwrap()
	require.NoError(t, err)
	require.Len(t, payload.Sets, 1)
	assert.Equal(t, 7541, payload.Sets[0].NumParts)
}

func TestApplicationFailureCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Set already in wishlist"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := Exec(context.Background(), c, http.MethodPost, "/wishlist/add.php", []models.AddItem{{SetNum: "10220-1", Quantity: 1}})
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Set already in wishlist", UserMessage(err))
	assert.False(t, IsRetryable(err))
}

func TestNonSuccessStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := Exec(context.Background(), c, http.MethodGet, "/themes/list.php", nil)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, GenericErrorMessage, UserMessage(err))
}

func TestInvalidPayloadIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"sets":[{"name":"no id"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	res := Get[setsPayload](context.Background(), c, "/sets/latest.php", nil)
	var invalid *InvalidPayloadError
	require.True(t, errors.As(res.Error(), &invalid))
	assert.Empty(t, res.ValueOr(setsPayload{}).Sets)
}

func TestCredentialsAndRequestIDAreForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("PHPSESSID"); assert.NoError(t, err) {
			assert.Equal(t, "abc123", cookie.Value)
		}
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	ctx := WithCredentials(context.Background(), []*http.Cookie{{Name: "PHPSESSID", Value: "abc123"}})
	ctx = WithRequestID(ctx, "req-1")
	require.NoError(t, Exec(ctx, New(srv.URL, time.Second), http.MethodGet, "/auth/me.php", nil))
}

func TestCancelledContextAbortsRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Exec(ctx, New(srv.URL, time.Second), http.MethodGet, "/sets/latest.php", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUploadSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "42", r.FormValue("post_id"))
		f, hdr, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cover.png", hdr.Filename)
		assert.Equal(t, "png-bytes", string(data))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "url": "/uploads/cover.png"})
	}))
	defer srv.Close()

	var out struct {
		URL string `json:"url"`
	}
	err := New(srv.URL, time.Second).Upload(context.Background(), "/blog/upload_image.php",
		FilePart{Field: "image", Filename: "cover.png", ContentType: "image/png", Data: []byte("png-bytes")},
		map[string]string{"post_id": "42"}, &out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.URL, "cover.png"))
}
