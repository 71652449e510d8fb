package console

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/alextreichler/storefront-console/internal/backend"
	"github.com/alextreichler/storefront-console/internal/models"
)

type OrderControllerSuite struct {
	suite.Suite
	svc *fakeOrders
	n   *recorder
	c   *OrderController
}

func (s *OrderControllerSuite) SetupTest() {
	s.svc = &fakeOrders{conf: &models.OrderConfirmation{Text: "Order Placed Successfully"}}
	s.n = &recorder{}
	s.c = NewOrderController(s.svc, false)
}

func TestOrderControllerSuite(t *testing.T) {
	suite.Run(t, new(OrderControllerSuite))
}

func (s *OrderControllerSuite) TestNewFormHasOneBlankRow() {
	s.Equal([]OrderRow{{}}, NewOrderForm().Rows)
}

func (s *OrderControllerSuite) TestAddAndRemoveRows() {
	f := NewOrderForm().AddRow().AddRow()
	s.Len(f.Rows, 3)

	f.Rows[1].SkuCode = "b"
	f, err := f.RemoveRow(0)
	s.Require().NoError(err)
	s.Equal("b", f.Rows[0].SkuCode)

	f, _ = f.RemoveRow(0)
	f, _ = f.RemoveRow(0)
	s.Empty(f.Rows)

	_, err = f.RemoveRow(0)
	s.ErrorIs(err, ErrNoSuchRow)
}

func (s *OrderControllerSuite) TestAddRowDoesNotAlias() {
	base := OrderForm{Rows: make([]OrderRow, 1, 4)}
	a := base.AddRow()
	a.Rows[1].SkuCode = "a"
	s.Len(base.Rows, 1)
	b := base.AddRow()
	s.Equal("", b.Rows[1].SkuCode)
}

func (s *OrderControllerSuite) TestBuildRequestFiltersRows() {
	req := s.c.BuildRequest([]OrderRow{
		{SkuCode: "x", Quantity: "2"},
		{SkuCode: "", Quantity: "1"},
		{SkuCode: "  ", Quantity: "1"},
		{SkuCode: "y", Quantity: "0"},
		{SkuCode: "z", Quantity: "abc"},
	})
	s.Equal([]models.OrderLineItem{{SkuCode: "x", Quantity: 2}}, req.OrderLineItemsList)
}

func (s *OrderControllerSuite) TestBuildRequestWithPrice() {
	c := NewOrderController(s.svc, true)
	req := c.BuildRequest([]OrderRow{
		{SkuCode: "x", Quantity: "1", Price: "12.50"},
		{SkuCode: "y", Quantity: "1", Price: ""},
	})
	s.Require().Len(req.OrderLineItemsList, 2)
	s.Require().NotNil(req.OrderLineItemsList[0].Price)
	s.True(decimal.RequireFromString("12.5").Equal(*req.OrderLineItemsList[0].Price))
	s.Nil(req.OrderLineItemsList[1].Price)
}

func (s *OrderControllerSuite) TestSubmitWithoutItemsMakesNoCall() {
	for _, form := range []OrderForm{{}, NewOrderForm(), {Rows: []OrderRow{{SkuCode: "x", Quantity: "0"}}}} {
		res := s.c.Submit(context.Background(), form, s.n)
		s.Nil(res.Result)
		s.Equal(form, res.Form)
	}
	s.Empty(s.svc.requests)
	for _, got := range s.n.all() {
		s.Equal(recordedNotification{"Please add at least one order item", models.SeverityError}, got)
	}
	s.Len(s.n.all(), 3)
}

func (s *OrderControllerSuite) TestSubmitSuccessResetsForm() {
	form := OrderForm{Rows: []OrderRow{{SkuCode: "x", Quantity: "2"}, {SkuCode: "", Quantity: "1"}}}
	res := s.c.Submit(context.Background(), form, s.n)

	s.Require().Len(s.svc.requests, 1)
	s.Equal([]models.OrderLineItem{{SkuCode: "x", Quantity: 2}}, s.svc.requests[0].OrderLineItemsList)
	s.Equal(NewOrderForm(), res.Form)
	s.Require().NotNil(res.Result)
	s.Equal(StateLoaded, res.Result.State)
	s.Equal("Order Placed Successfully", res.Result.Text)
	s.Equal([]recordedNotification{{"Order placed successfully!", models.SeveritySuccess}}, s.n.all())
}

func (s *OrderControllerSuite) TestSubmitEchoesJSONFields() {
	s.svc.conf = &models.OrderConfirmation{
		Text:   `{"status":"PLACED","orderNumber":"abc"}`,
		Fields: map[string]any{"status": "PLACED", "orderNumber": "abc"},
	}
	res := s.c.Submit(context.Background(), OrderForm{Rows: []OrderRow{{SkuCode: "x", Quantity: "1"}}}, s.n)
	s.Require().NotNil(res.Result)
	s.Equal([]ConfirmationField{{"orderNumber", "abc"}, {"status", "PLACED"}}, res.Result.Fields)
}

func (s *OrderControllerSuite) TestSubmitFailureKeepsRows() {
	form := OrderForm{Rows: []OrderRow{{SkuCode: "x", Quantity: "2"}}}

	s.svc.err = &backend.HTTPError{StatusCode: 400, Body: "insufficient stock"}
	res := s.c.Submit(context.Background(), form, s.n)
	s.Equal(form, res.Form)
	s.Require().NotNil(res.Result)
	s.Equal(StateHTTPFailure, res.Result.State)
	s.Equal("Order failed: insufficient stock", res.Result.Error)

	s.svc.err = &backend.TransportError{Op: "POST", Err: errors.New("connection reset")}
	res = s.c.Submit(context.Background(), form, s.n)
	s.Equal(form, res.Form)
	s.Equal(StateTransportFailure, res.Result.State)
	s.Equal("Order failed: connection reset", res.Result.Error)

	s.Empty(s.n.all())
}
