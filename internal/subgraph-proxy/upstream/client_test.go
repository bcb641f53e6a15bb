package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForward_SendsGraphQLRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/subgraphs/x", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, GraphQLResponseAccept, r.Header.Get("Accept"))

		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"query":"{ games { id } }","variables":{"first":5}}`, string(b))

		w.Header().Set("Content-Type", "application/graphql-response+json")
		_, _ = w.Write([]byte(`{"data":{"games":[]}}`))
	}))
	defer srv.Close()

	c := New(time.Second)
	res, err := c.Forward(context.Background(), srv.URL+"/subgraphs/x", "{ games { id } }", json.RawMessage(`{"first":5}`))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "application/graphql-response+json", res.ContentType)
	assert.Equal(t, `{"data":{"games":[]}}`, string(res.Body))
}

func TestForward_DefaultsVariables(t *testing.T) {
	for _, vars := range []json.RawMessage{nil, json.RawMessage("null")} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"query":"q","variables":{}}`, string(b))
		}))
		_, err := New(time.Second).Forward(context.Background(), srv.URL, "q", vars)
		require.NoError(t, err)
		srv.Close()
	}
}

func TestForward_TimeoutAbortsUpstream(t *testing.T) {
	aborted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.ReadAll(r.Body)
		select {
		case <-r.Context().Done():
			close(aborted)
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(50*time.Millisecond).Forward(context.Background(), srv.URL, "q", nil)
	require.Error(t, err)

	var uerr *UnreachableError
	require.True(t, errors.As(err, &uerr))
	assert.True(t, uerr.Timeout)
	assert.Equal(t, "Subgraph request timed out", err.Error())

	select {
	case <-aborted:
	case <-time.After(2 * time.Second):
		t.Fatal("upstream request was not aborted")
	}
}

func TestForward_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = New(time.Second).Forward(context.Background(), "http://"+addr, "q", nil)
	var uerr *UnreachableError
	require.True(t, errors.As(err, &uerr))
	assert.False(t, uerr.Timeout)
	assert.Equal(t, "ECONNREFUSED", uerr.Code)
	assert.Contains(t, err.Error(), "(ECONNREFUSED)")
}

func TestForward_DoesNotFollowRedirects(t *testing.T) {
	var hits atomic.Int32
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusTemporaryRedirect)
	}))
	defer srv.Close()

	res, err := New(time.Second).Forward(context.Background(), srv.URL, "q", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTemporaryRedirect, res.Status)
	assert.False(t, res.OK())
	assert.Zero(t, hits.Load())
}

func TestUnreachableError_Message(t *testing.T) {
	assert.Equal(t, "Subgraph unreachable", (&UnreachableError{}).Error())
	assert.Equal(t, "boom (ECONNRESET)", (&UnreachableError{Code: "ECONNRESET", Err: errors.New("boom")}).Error())
}
