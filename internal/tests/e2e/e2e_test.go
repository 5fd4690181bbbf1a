package e2e

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/tokenredirect"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/interfaces/rest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type E2ETestSuite struct {
	suite.Suite
	stack  *Stack
	client *TestClient
}

func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupTest() {
	suite.stack = NewStack(suite.T())
	suite.client = NewTestClient(suite.stack.Server.URL)
}

func paymentRequest(family domain.GatewayFamily, amount, currency string) rest.InitiatePaymentRequest {
	return rest.InitiatePaymentRequest{
		Amount:        dec(amount),
		Currency:      currency,
		GatewayFamily: string(family),
		OrderID:       "order-e2e",
		ReturnURL:     "https://shop.example.test/return",
		CancelURL:     "https://shop.example.test/cancel",
	}
}

func (suite *E2ETestSuite) TestDirectCapture_ChallengeThenRefund() {
	t := suite.T()
	suite.stack.Direct.RequireChallenge = true

	initiated := suite.client.Initiate(t, paymentRequest(domain.FamilyDirectCapture, "100.00", "USD"))
	suite.Require().Equal(http.StatusCreated, initiated.Status)
	payment := initiated.Payment(t)
	suite.Equal(domain.StateRequiresAction, payment.State)
	suite.Require().NotNil(payment.Action)
	suite.Equal(domain.ActionChallenge, payment.Action.Type)

	confirmed := suite.client.Confirm(t, payment.Action.Token)
	suite.Require().Equal(http.StatusOK, confirmed.Status)
	suite.Equal(domain.StateCompleted, confirmed.Payment(t).State)

	partial := suite.client.Refund(t, payment.GatewayPaymentID, rest.RefundRequest{Amount: dec("60.00")})
	suite.Require().Equal(http.StatusOK, partial.Status)
	suite.Equal(domain.StatePartiallyRefunded, partial.Refund(t).State)

	remaining := suite.client.Refund(t, payment.GatewayPaymentID, rest.RefundRequest{})
	suite.Require().Equal(http.StatusOK, remaining.Status)
	suite.Equal(domain.StateRefunded, remaining.Refund(t).State)

	over := suite.client.Refund(t, payment.GatewayPaymentID, rest.RefundRequest{Amount: dec("1.00")})
	suite.Equal(http.StatusBadRequest, over.Status)
	suite.Equal(string(domain.KindValidation), over.Envelope.Error.Code)

	suite.Contains(suite.client.Metrics(t), "orchestrator_operations_total")
}

func (suite *E2ETestSuite) TestRedirectApproval_CaptureAfterApproval() {
	t := suite.T()

	initiated := suite.client.Initiate(t, paymentRequest(domain.FamilyRedirectApproval, "25.00", "EUR"))
	suite.Require().Equal(http.StatusCreated, initiated.Status)
	order := initiated.Payment(t)
	suite.Equal(domain.StatePendingApproval, order.State)
	suite.Require().NotNil(order.Action)
	suite.Equal(domain.ActionApprovalURL, order.Action.Type)

	early := suite.client.Capture(t, order.GatewayPaymentID)
	suite.Equal(http.StatusPaymentRequired, early.Status)
	suite.Equal(domain.StatePendingApproval, suite.client.Status(t, order.GatewayPaymentID).Payment(t).State)

	suite.stack.Approval.Approve(order.GatewayPaymentID)

	captured := suite.client.Capture(t, order.GatewayPaymentID)
	suite.Require().Equal(http.StatusOK, captured.Status)
	suite.Equal(domain.StateCompleted, captured.Payment(t).State)
}

func (suite *E2ETestSuite) TestTokenRedirect_ReturnCommitsToken() {
	t := suite.T()

	initiated := suite.client.Initiate(t, paymentRequest(domain.FamilyTokenRedirect, "50000", "CLP"))
	suite.Require().Equal(http.StatusCreated, initiated.Status)
	payment := initiated.Payment(t)
	suite.Equal(domain.StatePendingPayment, payment.State)
	suite.Require().NotNil(payment.Action)

	u, err := url.Parse(payment.Action.URL)
	suite.Require().NoError(err)
	token := u.Query().Get(tokenredirect.TokenParam)

	suite.stack.Token.Pay(token)

	committed := suite.client.RedirectReturn(t, token)
	suite.Require().Equal(http.StatusOK, committed.Status)
	result := committed.Payment(t)
	suite.Equal(domain.StateCompleted, result.State)
	suite.Equal("CLP", result.Currency)
	suite.True(decimal.NewFromInt(50000).Equal(result.Amount))

	status := suite.client.Status(t, token)
	suite.Equal(http.StatusOK, status.Status)
	suite.Equal(domain.StateUnknown, status.Payment(t).State)
}

func (suite *E2ETestSuite) TestRejectsFractionalZeroDecimalAmount() {
	t := suite.T()

	res := suite.client.Initiate(t, paymentRequest(domain.FamilyDirectCapture, "100.50", "CLP"))

	suite.Equal(http.StatusBadRequest, res.Status)
	suite.Equal(string(domain.KindValidation), res.Envelope.Error.Code)
	suite.Equal(0, suite.stack.Direct.GetCalls("CreatePaymentIntent"))
}

func (suite *E2ETestSuite) TestIdempotentInitiateReplays() {
	t := suite.T()
	req := paymentRequest(domain.FamilyDirectCapture, "10.00", "USD")

	first := suite.client.InitiateWithKey(t, req, "same-key")
	second := suite.client.InitiateWithKey(t, req, "same-key")

	suite.Equal(http.StatusCreated, first.Status)
	suite.Equal(http.StatusCreated, second.Status)
	suite.Equal(first.Payment(t).GatewayPaymentID, second.Payment(t).GatewayPaymentID)
	suite.Equal(1, suite.stack.Direct.GetCalls("CreatePaymentIntent"))

	req.Amount = dec("11.00")
	mismatch := suite.client.InitiateWithKey(t, req, "same-key")
	suite.Equal(http.StatusBadRequest, mismatch.Status)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
