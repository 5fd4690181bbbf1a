package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionStoreTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDatabase
	store  *postgres.TransactionStore
}

func TestTransactionStoreSuite(t *testing.T) {
	suite.Run(t, new(TransactionStoreTestSuite))
}

func (suite *TransactionStoreTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.store = postgres.NewTransactionStore(suite.testDB.DB)
}

func (suite *TransactionStoreTestSuite) TearDownSuite() {
	if suite.testDB != nil {
		suite.testDB.Cleanup(suite.T())
	}
}

func (suite *TransactionStoreTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
}

func (suite *TransactionStoreTestSuite) newTransaction(family domain.GatewayFamily, amount, currency string) *domain.Transaction {
	tx, err := domain.NewTransaction("pay-"+uuid.NewString(), "order-"+uuid.NewString(), family, decimal.RequireFromString(amount), currency)
	suite.Require().NoError(err)
	return tx
}

func (suite *TransactionStoreTestSuite) Test_CreateAndGet_RoundTrip() {
	ctx := context.Background()
	tx := suite.newTransaction(domain.FamilyDirectCapture, "100.50", "USD")
	suite.Require().NoError(tx.Transition(domain.StateRequiresAction))
	tx.Action = &domain.ActionPayload{Type: domain.ActionChallenge, Token: tx.GatewayPaymentID}

	suite.Require().NoError(suite.store.Create(ctx, tx))

	got, err := suite.store.Get(ctx, tx.GatewayPaymentID)
	suite.Require().NoError(err)
	suite.Equal(tx.OrderID, got.OrderID)
	suite.Equal(domain.FamilyDirectCapture, got.Family)
	suite.Equal(domain.StateRequiresAction, got.State)
	suite.True(decimal.RequireFromString("100.50").Equal(got.Amount))
	suite.True(got.RefundedAmount.IsZero())
	suite.Equal("USD", got.Currency)
	suite.Require().NotNil(got.Action)
	suite.Equal(domain.ActionChallenge, got.Action.Type)
	suite.Nil(got.LastError)
}

func (suite *TransactionStoreTestSuite) Test_Create_Duplicate() {
	ctx := context.Background()
	tx := suite.newTransaction(domain.FamilyTokenRedirect, "50000", "CLP")
	suite.Require().NoError(suite.store.Create(ctx, tx))

	err := suite.store.Create(ctx, tx)

	suite.ErrorIs(err, application.ErrDuplicateTransaction)
}

func (suite *TransactionStoreTestSuite) Test_Get_NotFound() {
	_, err := suite.store.Get(context.Background(), "missing")

	suite.ErrorIs(err, application.ErrTransactionNotFound)
}

func (suite *TransactionStoreTestSuite) Test_Update_RefundBalanceAndError() {
	ctx := context.Background()
	tx := suite.newTransaction(domain.FamilyDirectCapture, "100.00", "USD")
	suite.Require().NoError(tx.Transition(domain.StateCompleted))
	suite.Require().NoError(suite.store.Create(ctx, tx))

	suite.Require().NoError(tx.ApplyRefund(decimal.RequireFromString("60.00")))
	tx.LastError = domain.NewCanonicalError(domain.KindNetwork, "timeout", string(domain.FamilyDirectCapture))
	suite.Require().NoError(suite.store.Update(ctx, tx, domain.StateCompleted))

	got, err := suite.store.Get(ctx, tx.GatewayPaymentID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatePartiallyRefunded, got.State)
	suite.True(decimal.RequireFromString("60").Equal(got.RefundedAmount))
	suite.Require().NotNil(got.LastError)
	suite.Equal(domain.KindNetwork, got.LastError.Kind)
	suite.True(got.LastError.Retryable)
}

func (suite *TransactionStoreTestSuite) Test_Update_StalePreviousState() {
	ctx := context.Background()
	tx := suite.newTransaction(domain.FamilyRedirectApproval, "20.00", "EUR")
	suite.Require().NoError(suite.store.Create(ctx, tx))
	suite.Require().NoError(tx.Transition(domain.StatePendingApproval))

	err := suite.store.Update(ctx, tx, domain.StatePendingApproval)

	suite.ErrorIs(err, application.ErrConcurrentUpdate)
}

func (suite *TransactionStoreTestSuite) Test_Update_StaleVersionOnSelfTransition() {
	ctx := context.Background()
	tx := suite.newTransaction(domain.FamilyDirectCapture, "100.00", "USD")
	suite.Require().NoError(tx.Transition(domain.StateCompleted))
	suite.Require().NoError(tx.ApplyRefund(decimal.RequireFromString("10.00")))
	suite.Require().NoError(suite.store.Create(ctx, tx))

	first, err := suite.store.Get(ctx, tx.GatewayPaymentID)
	suite.Require().NoError(err)
	second, err := suite.store.Get(ctx, tx.GatewayPaymentID)
	suite.Require().NoError(err)

	suite.Require().NoError(first.ApplyRefund(decimal.RequireFromString("30.00")))
	suite.Require().NoError(suite.store.Update(ctx, first, domain.StatePartiallyRefunded))
	suite.Equal(int64(1), first.Version)

	suite.Require().NoError(second.ApplyRefund(decimal.RequireFromString("30.00")))
	err = suite.store.Update(ctx, second, domain.StatePartiallyRefunded)

	suite.ErrorIs(err, application.ErrConcurrentUpdate)
	got, err := suite.store.Get(ctx, tx.GatewayPaymentID)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("40").Equal(got.RefundedAmount))
	suite.Equal(int64(1), got.Version)
}

func (suite *TransactionStoreTestSuite) Test_Update_NotFound() {
	tx := suite.newTransaction(domain.FamilyRedirectApproval, "20.00", "EUR")

	err := suite.store.Update(context.Background(), tx, domain.StateCreated)

	suite.ErrorIs(err, application.ErrTransactionNotFound)
}

func (suite *TransactionStoreTestSuite) Test_FindStalePending() {
	ctx := context.Background()
	old := time.Now().UTC().Add(-3 * time.Hour)

	stale := suite.newTransaction(domain.FamilyTokenRedirect, "1000", "CLP")
	suite.Require().NoError(stale.Transition(domain.StatePendingPayment))
	stale.UpdatedAt = old
	suite.Require().NoError(suite.store.Create(ctx, stale))

	fresh := suite.newTransaction(domain.FamilyTokenRedirect, "1000", "CLP")
	suite.Require().NoError(fresh.Transition(domain.StatePendingPayment))
	suite.Require().NoError(suite.store.Create(ctx, fresh))

	completed := suite.newTransaction(domain.FamilyDirectCapture, "5.00", "USD")
	suite.Require().NoError(completed.Transition(domain.StateCompleted))
	completed.UpdatedAt = old
	suite.Require().NoError(suite.store.Create(ctx, completed))

	found, err := suite.store.FindStalePending(ctx, time.Now().UTC().Add(-time.Hour), 10)

	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(stale.GatewayPaymentID, found[0].GatewayPaymentID)
}
