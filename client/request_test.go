package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_ReplayCarriesRetryMarker(t *testing.T) {
	req := NewRequest(http.MethodGet, "/api/events")
	req.Header.Set("X-Trace", "1")

	replay := req.replay()
	assert.True(t, replay.Retried())
	assert.False(t, req.Retried(), "original request is not mutated")

	replay.Header.Set("X-Trace", "2")
	assert.Equal(t, "1", req.Header.Get("X-Trace"))
}

func TestRequest_BuildSetsHeaders(t *testing.T) {
	req, err := NewJSONRequest(http.MethodPost, "api/tickets/purchase", map[string]int{"quantity": 1})
	require.NoError(t, err)
	req.requestID = "req-1"

	httpReq, err := req.build("http://localhost:8081/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081/api/tickets/purchase", httpReq.URL.String())
	assert.Equal(t, "application/json", httpReq.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", httpReq.Header.Get("Accept"))
	assert.Equal(t, "req-1", httpReq.Header.Get("X-Request-ID"))
	assert.Empty(t, httpReq.Header.Get("Authorization"))
}

func TestRequest_NilJSONBody(t *testing.T) {
	req, err := NewJSONRequest(http.MethodPost, "/api/auth/logout", nil)
	require.NoError(t, err)
	assert.Nil(t, req.Body)
}

func TestRequest_UnencodableJSONBody(t *testing.T) {
	_, err := NewJSONRequest(http.MethodPost, "/x", make(chan int))
	assert.Error(t, err)
}

func TestNewUploadRequest_ContentType(t *testing.T) {
	req, err := NewUploadRequest("/api/events/e1/image", Form{
		Files: []FormFile{{Field: "file", FileName: "a.txt", Content: []byte("a")}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Contains(t, req.ContentType, "multipart/form-data; boundary=")
	assert.Contains(t, string(req.Body), `filename="a.txt"`)
}

func TestAttemptState_String(t *testing.T) {
	tests := []struct {
		state attemptState
		want  string
	}{
		{stateInitial, "INITIAL"},
		{stateAttempted, "ATTEMPTED"},
		{stateRefreshing, "REFRESHING"},
		{stateReplayed, "REPLAYED"},
		{stateSucceeded, "SUCCEEDED"},
		{stateFailed, "FAILED"},
		{attemptState(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestRefreshResponse_Tokens(t *testing.T) {
	tests := []struct {
		name        string
		resp        refreshResponse
		wantAccess  string
		wantRefresh string
	}{
		{
			name:       "top level token",
			resp:       refreshResponse{refreshPayload: refreshPayload{Token: "A2"}},
			wantAccess: "A2",
		},
		{
			name:        "top level accessToken",
			resp:        refreshResponse{refreshPayload: refreshPayload{AccessToken: "A2", RefreshToken: "R2"}},
			wantAccess:  "A2",
			wantRefresh: "R2",
		},
		{
			name: "envelope data wins",
			resp: refreshResponse{
				refreshPayload: refreshPayload{Token: "outer"},
				Data:           &refreshPayload{Token: "inner"},
			},
			wantAccess: "inner",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, refresh := tt.resp.tokens()
			assert.Equal(t, tt.wantAccess, access)
			assert.Equal(t, tt.wantRefresh, refresh)
		})
	}
}
