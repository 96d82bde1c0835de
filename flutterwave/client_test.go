package flutterwave

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestVerifyByIDParsesTransaction(t *testing.T) {
	var gotAuth, gotPath string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"message": "Transaction fetched successfully",
			"data": {"id": 8412745, "tx_ref": "REF1", "status": "successful", "amount": 500, "currency": "NGN"}
		}`))
	})

	client := NewClient("sk-test", server.URL, time.Second)
	tx, err := client.VerifyByID(context.Background(), "8412745")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/transactions/8412745/verify", gotPath)
	assert.Equal(t, "8412745", tx.TransactionID())
	assert.Equal(t, "REF1", tx.TxRef)
	assert.True(t, tx.Successful())
	assert.Equal(t, 500.0, tx.Amount)
	assert.Equal(t, "NGN", tx.Currency)
	assert.Contains(t, string(tx.Raw), "8412745")
}

func TestVerifyByReferenceURL(t *testing.T) {
	var gotQuery string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"status":"success","data":{"id":1,"tx_ref":"REF 1","status":"successful","amount":10,"currency":"NGN"}}`))
	})

	client := NewClient("sk-test", server.URL, time.Second)
	_, err := client.VerifyByReference(context.Background(), "REF 1")
	require.NoError(t, err)
	assert.Equal(t, "tx_ref=REF+1", gotQuery)
}

func TestVerifyNon2xxReturnsVerificationError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":"error","message":"No transaction was found for this id","data":null}`))
	})

	client := NewClient("sk-test", server.URL, time.Second)
	_, err := client.VerifyByID(context.Background(), "999")

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "No transaction was found for this id", verr.Message)
	assert.Contains(t, string(verr.Raw), "No transaction was found")
}

func TestVerifyMissingDataIsVerificationError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","message":"ok"}`))
	})

	client := NewClient("sk-test", server.URL, time.Second)
	_, err := client.VerifyByID(context.Background(), "1")

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ok", verr.Message)
}

func TestVerifyStatusCaseInsensitive(t *testing.T) {
	tx := &Transaction{Status: "SUCCESSFUL"}
	assert.True(t, tx.Successful())
	tx.Status = "pending"
	assert.False(t, tx.Successful())
}

func TestVerifyTimeout(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	client := NewClient("sk-test", server.URL, 20*time.Millisecond)
	_, err := client.VerifyByID(context.Background(), "1")
	require.Error(t, err)

	var verr *VerificationError
	assert.False(t, errors.As(err, &verr))
}
