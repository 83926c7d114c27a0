package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
	"github.com/tablekeep/pos-api/internal/lifecycle"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/pricing"
	"github.com/tablekeep/pos-api/internal/split"
)

func (f *fixture) pay(t *testing.T, orderID uuid.UUID, checkID *uuid.UUID, amount, tip string) *OrderResult {
	t.Helper()
	res, err := f.svc.AddPayment(context.Background(), PaymentRequest{
		OrderRef:  f.ref(orderID),
		CheckID:   checkID,
		Method:    enum.PaymentMethodCash,
		Amount:    dec(amount),
		TipAmount: dec(tip),
	})
	if err != nil {
		t.Fatalf("pay %s: %v", amount, err)
	}
	return res
}

// =====================
// Discounts and comps
// =====================

func TestAddDiscount_PercentageFixedAtApplication(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)

	res, err := f.svc.AddDiscount(context.Background(), DiscountRequest{
		OrderRef:     f.ref(orderID),
		DiscountType: enum.DiscountTypePercentage,
		Value:        dec("10"),
		Reason:       "happy hour",
		ApprovedBy:   f.managerID,
	})
	if err != nil {
		t.Fatalf("discount: %v", err)
	}
	assertMoney(t, "discount", res.Order.DiscountAmount, "2.65")
	assertMoney(t, "tax", res.Order.TaxAmount, "1.97")
	assertMoney(t, "total", res.Order.Total, "25.82")

	// The discount stays 2.65 when the subtotal grows.
	res = f.addItem(t, orderID, ItemInput{MenuItemID: f.soda.ID, Quantity: 1})
	assertMoney(t, "subtotal", res.Order.Subtotal, "29.00")
	assertMoney(t, "discount", res.Order.DiscountAmount, "2.65")
	assertMoney(t, "tax", res.Order.TaxAmount, "2.17")
	assertMoney(t, "total", res.Order.Total, "28.52")
}

func TestAddDiscount_Validation(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)

	tests := []struct {
		name string
		req  DiscountRequest
		want error
	}{
		{"missing reason", DiscountRequest{DiscountType: enum.DiscountTypeFixed, Value: dec("5"), ApprovedBy: f.managerID}, ErrReasonRequired},
		{"missing approver", DiscountRequest{DiscountType: enum.DiscountTypeFixed, Value: dec("5"), Reason: "x"}, ErrApproverRequired},
		{"percentage over 100", DiscountRequest{DiscountType: enum.DiscountTypePercentage, Value: dec("120"), Reason: "x", ApprovedBy: f.managerID}, pricing.ErrInvalidPercentage},
		{"unknown type", DiscountRequest{DiscountType: "BOGO", Value: dec("1"), Reason: "x", ApprovedBy: f.managerID}, pricing.ErrInvalidDiscount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.OrderRef = f.ref(orderID)
			_, err := f.svc.AddDiscount(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
	if len(f.store.discounts) != 0 {
		t.Errorf("expected no discounts written, got %d", len(f.store.discounts))
	}
}

func TestAddComp_ItemDefaultsToLineTotal(t *testing.T) {
	f := newFixture(t)
	orderID, _, saladID := f.sampleOrder(t)

	res, err := f.svc.AddComp(context.Background(), CompRequest{
		OrderRef:   f.ref(orderID),
		ItemID:     &saladID,
		Reason:     "long wait",
		ApprovedBy: f.managerID,
	})
	if err != nil {
		t.Fatalf("comp: %v", err)
	}
	assertMoney(t, "comp", res.Order.CompAmount, "6.50")
	assertMoney(t, "tax", res.Order.TaxAmount, "1.65")
	assertMoney(t, "total", res.Order.Total, "21.65")
	if len(res.Comps) != 1 || !res.Comps[0].OrderItemID.Valid {
		t.Errorf("expected item comp record, got %+v", res.Comps)
	}
}

func TestAddComp_TaxableNeverNegative(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)

	res, err := f.svc.AddComp(context.Background(), CompRequest{
		OrderRef:   f.ref(orderID),
		Amount:     dec("100"),
		Reason:     "owner's friend",
		ApprovedBy: f.managerID,
	})
	if err != nil {
		t.Fatalf("comp: %v", err)
	}
	assertMoney(t, "tax", res.Order.TaxAmount, "0.00")
	assertMoney(t, "total", res.Order.Total, "0.00")
}

func TestAddComp_VoidedItemRejected(t *testing.T) {
	f := newFixture(t)
	orderID, burgerID, _ := f.sampleOrder(t)
	if _, err := f.svc.VoidItem(context.Background(), VoidItemRequest{
		ItemRef: f.itemRef(orderID, burgerID), Reason: "x", ApprovedBy: f.managerID,
	}); err != nil {
		t.Fatalf("void: %v", err)
	}

	_, err := f.svc.AddComp(context.Background(), CompRequest{
		OrderRef: f.ref(orderID), ItemID: &burgerID, Reason: "x", ApprovedBy: f.managerID,
	})
	if !errors.Is(err, ErrCompVoided) {
		t.Fatalf("expected ErrCompVoided, got: %v", err)
	}
}

// =====================
// Payments and close
// =====================

func TestAddPayment_Validation(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)

	tests := []struct {
		name string
		req  PaymentRequest
		want error
	}{
		{"bad method", PaymentRequest{Method: "BITCOIN", Amount: dec("1")}, ErrInvalidPayment},
		{"zero amount", PaymentRequest{Method: enum.PaymentMethodCash}, pricing.ErrInvalidAmount},
		{"negative tip", PaymentRequest{Method: enum.PaymentMethodCash, Amount: dec("1"), TipAmount: dec("-1")}, ErrInvalidTip},
		{"overpayment", PaymentRequest{Method: enum.PaymentMethodCash, Amount: dec("30.00")}, ErrOverpayment},
		{"unknown check", PaymentRequest{Method: enum.PaymentMethodCash, Amount: dec("1"), CheckID: ptr(uuid.New())}, ErrCheckNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.OrderRef = f.ref(orderID)
			_, err := f.svc.AddPayment(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestCloseOrder_Boundary(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)
	ctx := context.Background()

	// 26.50 + 2.19 tax
	assertMoney(t, "total", f.order(t, orderID).Total, "28.69")

	f.pay(t, orderID, nil, "28.00", "0")
	_, err := f.svc.CloseOrder(ctx, f.ref(orderID))
	if !errors.Is(err, ErrNotFullyPaid) {
		t.Fatalf("expected ErrNotFullyPaid, got: %v", err)
	}

	res := f.pay(t, orderID, nil, "0.69", "4.00")
	assertMoney(t, "tip", res.Order.TipAmount, "4.00")
	assertMoney(t, "total excludes tips", res.Order.Total, "28.69")

	_, err = f.svc.AddPayment(ctx, PaymentRequest{OrderRef: f.ref(orderID), Method: enum.PaymentMethodCash, Amount: dec("1")})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got: %v", err)
	}

	res, err = f.svc.CloseOrder(ctx, f.ref(orderID))
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if res.Order.Status != enum.OrderStatusClosed || !res.Order.ClosedAt.Valid {
		t.Errorf("expected CLOSED with closed_at, got %s", res.Order.Status)
	}

	_, err = f.svc.CloseOrder(ctx, f.ref(orderID))
	if err == nil {
		t.Fatal("expected closing twice to fail")
	}
}

func TestCloseOrder_TipsCountTowardPaid(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)

	f.pay(t, orderID, nil, "28.00", "0.69")
	if _, err := f.svc.CloseOrder(context.Background(), f.ref(orderID)); err != nil {
		t.Fatalf("expected close to succeed with tips covering the rest, got: %v", err)
	}
}

// =====================
// Split checks
// =====================

func sumChecks(checks []database.Check) (sub, total decimal.Decimal) {
	for _, c := range checks {
		sub = sub.Add(money.FromNumeric(c.Subtotal))
		total = total.Add(money.FromNumeric(c.Total))
	}
	return sub, total
}

func TestSplitBySeat_ChecksSumToOrder(t *testing.T) {
	f := newFixture(t)
	orderID, burgerID, saladID := f.sampleOrder(t)

	res, err := f.svc.SplitCheck(context.Background(), SplitRequest{
		OrderRef: f.ref(orderID),
		Strategy: enum.SplitBySeat,
	})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	checks := res.Order.Checks
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(checks))
	}
	if checks[0].Name != "Seat 1" || checks[1].Name != "Seat 2" {
		t.Errorf("unexpected check names %q, %q", checks[0].Name, checks[1].Name)
	}
	assertMoney(t, "seat 1 subtotal", checks[0].Subtotal, "20.00")
	assertMoney(t, "seat 2 subtotal", checks[1].Subtotal, "6.50")

	sub, total := sumChecks(checks)
	if !sub.Equal(money.FromNumeric(res.Order.Order.Subtotal)) {
		t.Errorf("check subtotals %s != order subtotal", sub)
	}
	if !total.Equal(money.FromNumeric(res.Order.Order.Total)) {
		t.Errorf("check totals %s != order total", total)
	}

	if got := f.item(t, burgerID).CheckID; !got.Valid || uuid.UUID(got.Bytes) != checks[0].ID {
		t.Errorf("expected burger on seat 1 check")
	}
	if got := f.item(t, saladID).CheckID; !got.Valid || uuid.UUID(got.Bytes) != checks[1].ID {
		t.Errorf("expected salad on seat 2 check")
	}
}

func TestSplitBySeat_SingleSeatRejected(t *testing.T) {
	f := newFixture(t)
	order := f.openOrder(t)
	f.addItem(t, order.Order.ID, ItemInput{MenuItemID: f.burger.ID, Quantity: 2})

	_, err := f.svc.SplitCheck(context.Background(), SplitRequest{OrderRef: f.ref(order.Order.ID), Strategy: enum.SplitBySeat})
	if !errors.Is(err, split.ErrTooFewSeats) {
		t.Fatalf("expected ErrTooFewSeats, got: %v", err)
	}
}

func TestSplitCustom_ChecksShareAdjustments(t *testing.T) {
	f := newFixture(t)
	orderID, burgerID, saladID := f.sampleOrder(t)
	res := f.addItem(t, orderID, ItemInput{MenuItemID: f.soda.ID, Quantity: 1})
	sodaID := res.Items[2].Item.ID
	ctx := context.Background()

	_, err := f.svc.SplitCheck(ctx, SplitRequest{
		OrderRef: f.ref(orderID),
		Strategy: enum.SplitCustom,
		Groups: []split.Group{
			{Name: "Alex", ItemIDs: []uuid.UUID{burgerID}},
			{Name: "Sam", ItemIDs: []uuid.UUID{saladID}},
		},
	})
	if !errors.Is(err, split.ErrUnassigned) {
		t.Fatalf("expected ErrUnassigned, got: %v", err)
	}
	if len(f.store.checks) != 0 {
		t.Fatalf("rejected split must not create checks")
	}

	if _, err := f.svc.AddDiscount(ctx, DiscountRequest{
		OrderRef:     f.ref(orderID),
		DiscountType: enum.DiscountTypeFixed,
		Value:        dec("3.00"),
		Reason:       "birthday",
		ApprovedBy:   f.managerID,
	}); err != nil {
		t.Fatalf("discount: %v", err)
	}

	splitRes, err := f.svc.SplitCheck(ctx, SplitRequest{
		OrderRef: f.ref(orderID),
		Strategy: enum.SplitCustom,
		Groups: []split.Group{
			{Name: "Alex", ItemIDs: []uuid.UUID{burgerID, sodaID}},
			{Name: "Sam", ItemIDs: []uuid.UUID{saladID}},
		},
	})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	sub, total := sumChecks(splitRes.Order.Checks)
	if !sub.Equal(money.FromNumeric(splitRes.Order.Order.Subtotal)) {
		t.Errorf("check subtotals %s != order subtotal %s", sub, money.String(splitRes.Order.Order.Subtotal))
	}
	if !total.Equal(money.FromNumeric(splitRes.Order.Order.Total)) {
		t.Errorf("check totals %s != order total %s", total, money.String(splitRes.Order.Order.Total))
	}
}

func TestSplitEven_ReturnsShares(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)

	res, err := f.svc.SplitCheck(context.Background(), SplitRequest{
		OrderRef: f.ref(orderID),
		Strategy: enum.SplitEven,
		Guests:   3,
	})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	want := []string{"9.57", "9.56", "9.56"}
	if len(res.Shares) != len(want) {
		t.Fatalf("expected %d shares, got %d", len(want), len(res.Shares))
	}
	for i, w := range want {
		if !res.Shares[i].Equal(dec(w)) {
			t.Errorf("share %d: expected %s, got %s", i, w, res.Shares[i])
		}
	}
	if len(f.store.checks) != 0 {
		t.Errorf("even split must not create checks")
	}

	_, err = f.svc.SplitCheck(context.Background(), SplitRequest{OrderRef: f.ref(orderID), Strategy: enum.SplitEven, Guests: 1})
	if !errors.Is(err, split.ErrTooFewGuests) {
		t.Fatalf("expected ErrTooFewGuests, got: %v", err)
	}
}

func TestSplitCheck_UnknownStrategy(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)

	_, err := f.svc.SplitCheck(context.Background(), SplitRequest{OrderRef: f.ref(orderID), Strategy: "random"})
	if !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("expected ErrInvalidSplit, got: %v", err)
	}
}

func TestSplitOrder_ItemsAndPaymentsFollowChecks(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)
	ctx := context.Background()

	res, err := f.svc.SplitCheck(ctx, SplitRequest{OrderRef: f.ref(orderID), Strategy: enum.SplitBySeat})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	seat2 := res.Order.Checks[1]

	_, err = f.svc.AddItem(ctx, AddItemRequest{
		OrderRef: f.ref(orderID),
		Item:     ItemInput{MenuItemID: f.soda.ID, Quantity: 1, SeatNumber: 2},
	})
	if !errors.Is(err, ErrCheckRequired) {
		t.Fatalf("expected ErrCheckRequired, got: %v", err)
	}

	added := f.addItem(t, orderID, ItemInput{MenuItemID: f.soda.ID, Quantity: 1, SeatNumber: 2, CheckID: &seat2.ID})
	assertMoney(t, "seat 2 subtotal", added.Checks[1].Subtotal, "9.00")

	owed := money.FromNumeric(added.Checks[1].Total).StringFixed(money.Places)
	paid := f.pay(t, orderID, &seat2.ID, owed, "1.00")
	if !paid.Checks[1].IsPaid {
		t.Errorf("expected seat 2 check paid")
	}
	if paid.Checks[0].IsPaid {
		t.Errorf("expected seat 1 check unpaid")
	}

	_, err = f.svc.AddPayment(ctx, PaymentRequest{OrderRef: f.ref(orderID), CheckID: &seat2.ID, Method: enum.PaymentMethodCash, Amount: dec("1")})
	if !errors.Is(err, ErrCheckPaid) {
		t.Fatalf("expected ErrCheckPaid, got: %v", err)
	}
	_, err = f.svc.AddItem(ctx, AddItemRequest{
		OrderRef: f.ref(orderID),
		Item:     ItemInput{MenuItemID: f.soda.ID, Quantity: 1, CheckID: &seat2.ID},
	})
	if !errors.Is(err, ErrCheckPaid) {
		t.Fatalf("expected ErrCheckPaid on add, got: %v", err)
	}

	_, err = f.svc.SplitCheck(ctx, SplitRequest{OrderRef: f.ref(orderID), Strategy: enum.SplitBySeat})
	if !errors.Is(err, ErrHasPayments) {
		t.Fatalf("expected ErrHasPayments on re-split, got: %v", err)
	}
	_, err = f.svc.MergeChecks(ctx, f.ref(orderID))
	if !errors.Is(err, ErrHasPayments) {
		t.Fatalf("expected ErrHasPayments on merge, got: %v", err)
	}
}

func TestMergeChecks(t *testing.T) {
	f := newFixture(t)
	orderID, burgerID, _ := f.sampleOrder(t)
	ctx := context.Background()

	if _, err := f.svc.SplitCheck(ctx, SplitRequest{OrderRef: f.ref(orderID), Strategy: enum.SplitBySeat}); err != nil {
		t.Fatalf("split: %v", err)
	}
	res, err := f.svc.MergeChecks(ctx, f.ref(orderID))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(res.Checks) != 0 {
		t.Errorf("expected no checks, got %d", len(res.Checks))
	}
	if f.item(t, burgerID).CheckID.Valid {
		t.Errorf("expected item check cleared")
	}
}

func TestAddPayment_OrderPaymentCoversChecks(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)
	ctx := context.Background()

	res, err := f.svc.SplitCheck(ctx, SplitRequest{OrderRef: f.ref(orderID), Strategy: enum.SplitBySeat})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	seat1 := res.Order.Checks[0]
	f.pay(t, orderID, nil, "28.69", "0")

	_, err = f.svc.AddPayment(ctx, PaymentRequest{
		OrderRef: f.ref(orderID),
		CheckID:  &seat1.ID,
		Method:   enum.PaymentMethodCredit,
		Amount:   money.FromNumeric(seat1.Total),
	})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got: %v", err)
	}
	if len(f.store.payments) != 1 {
		t.Errorf("expected 1 payment recorded, got %d", len(f.store.payments))
	}
}

func TestAddPayment_CheckCappedByOrderBalance(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)
	ctx := context.Background()

	res, err := f.svc.SplitCheck(ctx, SplitRequest{OrderRef: f.ref(orderID), Strategy: enum.SplitBySeat})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	seat1 := res.Order.Checks[0]
	f.pay(t, orderID, nil, "10.00", "0")

	// Seat 1 owes more than the 18.69 left on the order.
	_, err = f.svc.AddPayment(ctx, PaymentRequest{
		OrderRef: f.ref(orderID),
		CheckID:  &seat1.ID,
		Method:   enum.PaymentMethodCash,
		Amount:   money.FromNumeric(seat1.Total),
	})
	if !errors.Is(err, ErrOverpayment) {
		t.Fatalf("expected ErrOverpayment, got: %v", err)
	}

	f.pay(t, orderID, &seat1.ID, "18.69", "0")
	if _, err := f.svc.CloseOrder(ctx, f.ref(orderID)); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRepriceChecks_VoidedCheckIsNotPaid(t *testing.T) {
	f := newFixture(t)
	orderID, _, saladID := f.sampleOrder(t)
	ctx := context.Background()

	if _, err := f.svc.SplitCheck(ctx, SplitRequest{OrderRef: f.ref(orderID), Strategy: enum.SplitBySeat}); err != nil {
		t.Fatalf("split: %v", err)
	}
	res, err := f.svc.VoidItem(ctx, VoidItemRequest{
		ItemRef:    f.itemRef(orderID, saladID),
		Reason:     "wrong table",
		ApprovedBy: f.managerID,
	})
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	seat2 := res.Checks[1]
	assertMoney(t, "seat 2 total", seat2.Total, "0.00")
	if seat2.IsPaid {
		t.Errorf("expected check with only void items to stay unpaid")
	}
}

func TestSplitEven_FinishedOrderRejected(t *testing.T) {
	f := newFixture(t)
	orderID, _, _ := f.sampleOrder(t)
	ctx := context.Background()

	f.pay(t, orderID, nil, "28.69", "0")
	if _, err := f.svc.CloseOrder(ctx, f.ref(orderID)); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err := f.svc.SplitCheck(ctx, SplitRequest{OrderRef: f.ref(orderID), Strategy: enum.SplitEven, Guests: 2})
	if !errors.Is(err, lifecycle.ErrOrderFinished) {
		t.Fatalf("expected ErrOrderFinished, got: %v", err)
	}
}
