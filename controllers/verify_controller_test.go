package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serac-labs/seracpay/flutterwave"
	"github.com/serac-labs/seracpay/models"
	"github.com/serac-labs/seracpay/payments"
	"github.com/serac-labs/seracpay/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier stands in for the provider API and records how it was called.
type fakeVerifier struct {
	tx        *flutterwave.Transaction
	err       error
	idCalls   int
	refCalls  int
	lastID    string
	lastTxRef string
}

func (f *fakeVerifier) VerifyByID(_ context.Context, transactionID string) (*flutterwave.Transaction, error) {
	f.idCalls++
	f.lastID = transactionID
	return f.tx, f.err
}

func (f *fakeVerifier) VerifyByReference(_ context.Context, txRef string) (*flutterwave.Transaction, error) {
	f.refCalls++
	f.lastTxRef = txRef
	return f.tx, f.err
}

type verifyFixture struct {
	router   *gin.Engine
	orders   *repository.MemoryOrderStore
	quotes   *repository.MemoryQuoteStore
	verifier *fakeVerifier
	ctrl     *VerifyController
}

func newVerifyFixture(verifier *fakeVerifier, seedQuotes ...models.Quote) *verifyFixture {
	gin.SetMode(gin.TestMode)
	orders := repository.NewMemoryOrderStore()
	quotes := repository.NewMemoryQuoteStore(seedQuotes...)
	ctrl := &VerifyController{
		Engine:       payments.NewEngine(orders, quotes),
		Verifier:     verifier,
		SecretKey:    "sk-test",
		DefaultBrand: testBrand,
		Timeout:      time.Second,
	}

	router := gin.New()
	router.POST("/api/payments/verify", ctrl.VerifyPayment)

	return &verifyFixture{router: router, orders: orders, quotes: quotes, verifier: verifier, ctrl: ctrl}
}

func (f *verifyFixture) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/verify", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func successfulTransaction() *flutterwave.Transaction {
	raw := `{"id":8412745,"tx_ref":"REF1","status":"successful","amount":100,"currency":"USD"}`
	var tx flutterwave.Transaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		panic(err)
	}
	tx.Raw = json.RawMessage(raw)
	return &tx
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestVerifyRequiresTransactionIDOrTxRef(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{})

	w := f.post(t, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Missing transaction_id or tx_ref", resp["message"])
	assert.Equal(t, 0, f.verifier.idCalls+f.verifier.refCalls)
}

func TestVerifyMissingSecretIsConfigurationError(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{tx: successfulTransaction()})
	f.ctrl.SecretKey = ""

	w := f.post(t, `{"transaction_id":"8412745"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Missing Flutterwave secret key", resp["message"])
	assert.Equal(t, 0, f.verifier.idCalls+f.verifier.refCalls)
}

func TestVerifyShortCircuitsOnExistingOrder(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{tx: successfulTransaction()})

	first := f.post(t, `{"transaction_id":"8412745"}`)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, 1, f.verifier.idCalls)

	// Same transaction again, e.g. a user refreshing a processing page.
	second := f.post(t, `{"transaction_id":"8412745"}`)
	require.Equal(t, http.StatusOK, second.Code)

	resp := decode(t, second)
	assert.Equal(t, true, resp["alreadyProcessed"])
	assert.NotNil(t, resp["orderDoc"])
	// No second outbound call was made.
	assert.Equal(t, 1, f.verifier.idCalls)
	assert.Equal(t, 1, f.orders.Count())
}

func TestVerifyFallsBackToReferenceLookup(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{tx: successfulTransaction()})

	w := f.post(t, `{"tx_ref":"REF1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, f.verifier.idCalls)
	assert.Equal(t, 1, f.verifier.refCalls)
	assert.Equal(t, "REF1", f.verifier.lastTxRef)
}

func TestVerifyProviderRejectionPropagatesMessage(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{
		err: &flutterwave.VerificationError{
			Message: "No transaction was found for this id",
			Raw:     json.RawMessage(`{"status":"error","message":"No transaction was found for this id"}`),
		},
	})

	w := f.post(t, `{"transaction_id":"999"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "failed", resp["status"])
	assert.Equal(t, "No transaction was found for this id", resp["message"])
	assert.Equal(t, 0, f.orders.Count())
}

func TestVerifyRejectsNonSuccessfulStatus(t *testing.T) {
	tx := successfulTransaction()
	tx.Status = "pending"
	f := newVerifyFixture(&fakeVerifier{tx: tx})

	w := f.post(t, `{"transaction_id":"8412745"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "failed", resp["status"])
	assert.Equal(t, "Transaction not successful", resp["message"])
	assert.Equal(t, 0, f.orders.Count())
}

func TestVerifyAmountMatchSucceeds(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{tx: successfulTransaction()})

	w := f.post(t, `{"transaction_id":"8412745","expectedAmount":100,"currency":"USD"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.orders.Count())
}

func TestVerifyAmountMismatchNamesBothValues(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{tx: successfulTransaction()})

	w := f.post(t, `{"transaction_id":"8412745","expectedAmount":150}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "failed", resp["status"])
	assert.Contains(t, resp["message"], "150")
	assert.Contains(t, resp["message"], "100")
	assert.Equal(t, 0, f.orders.Count())
}

func TestVerifyCurrencyMismatch(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{tx: successfulTransaction()})

	w := f.post(t, `{"transaction_id":"8412745","currency":"NGN"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp["message"], "NGN")
	assert.Contains(t, resp["message"], "USD")
	assert.Equal(t, 0, f.orders.Count())
}

func TestVerifyCreatesOrderWithOrderData(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{tx: successfulTransaction()})

	w := f.post(t, `{
		"transaction_id": "8412745",
		"orderData": {"trackingRef": "SRC-2024-001", "customerEmail": "jo@example.com"}
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["verified"])
	orderID, _ := resp["orderId"].(string)
	require.NotEmpty(t, orderID)

	order, err := f.orders.FindByTransactionID(context.Background(), testBrand, "8412745")
	require.NoError(t, err)
	assert.Equal(t, "SRC-2024-001", order.TrackingRef)
	assert.Equal(t, "jo@example.com", order.Extra["customerEmail"])
	// Stored values come from the provider, not the request.
	assert.Equal(t, 100.0, order.Amount)
	assert.Equal(t, "USD", order.Currency)
}

func TestVerifyLinksQuoteByExplicitID(t *testing.T) {
	f := newVerifyFixture(&fakeVerifier{tx: successfulTransaction()}, models.Quote{
		ID:      "quote-7",
		BrandID: testBrand,
		TxRef:   "other-ref",
		Status:  models.QuoteStatusPending,
	})

	w := f.post(t, `{"transaction_id":"8412745","quoteId":"quote-7"}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	orderID, _ := resp["orderId"].(string)

	quote, found := f.quotes.Get("quote-7")
	require.True(t, found)
	assert.Equal(t, models.QuoteStatusPaid, quote.Status)
	assert.Equal(t, orderID, quote.OrderID)
}

func TestVerifySucceedsWhenQuoteStoreIsDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orders := repository.NewMemoryOrderStore()
	ctrl := &VerifyController{
		Engine:       payments.NewEngine(orders, unreachableQuoteStore{}),
		Verifier:     &fakeVerifier{tx: successfulTransaction()},
		SecretKey:    "sk-test",
		DefaultBrand: testBrand,
		Timeout:      time.Second,
	}
	router := gin.New()
	router.POST("/api/payments/verify", ctrl.VerifyPayment)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/verify",
		bytes.NewBufferString(`{"transaction_id":"8412745","quoteId":"quote-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.NotEmpty(t, resp["orderId"])
	assert.Equal(t, 1, orders.Count())
}

type unreachableQuoteStore struct{}

func (unreachableQuoteStore) FindByTxRef(context.Context, string, string) (*models.Quote, error) {
	return nil, context.DeadlineExceeded
}

func (unreachableQuoteStore) MarkPaid(context.Context, string, string, string, models.FlexTime) error {
	return context.DeadlineExceeded
}
