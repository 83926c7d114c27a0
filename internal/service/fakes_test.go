package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
	"github.com/tablekeep/pos-api/internal/menu"
	"github.com/tablekeep/pos-api/internal/money"
	"go.uber.org/zap"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr error
	commits   int
	rollbacks int
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	m.commits++
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error {
	m.rollbacks++
	return nil
}
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// memStore is an in-memory OrderStore. Writes are not undone on rollback,
// so tests only inspect it after successful operations or check that a
// failed operation wrote nothing before failing.
type memStore struct {
	taxRate    pgtype.Numeric
	nextNumber int32

	// createOrderErrs are returned by successive CreateOrder calls.
	createOrderErrs []error

	orders    map[uuid.UUID]database.Order
	items     []database.OrderItem
	mods      []database.OrderItemModifier
	checks    []database.Check
	payments  []database.Payment
	discounts []database.Discount
	comps     []database.Comp
	voids     []database.Void
}

func newMemStore(taxRate string) *memStore {
	return &memStore{
		taxRate: money.ToNumeric(decimal.RequireFromString(taxRate)),
		orders:  map[uuid.UUID]database.Order{},
	}
}

var zeroMoney = money.ToNumeric(decimal.Zero)

func (m *memStore) GetNextOrderNumber(ctx context.Context, arg database.GetNextOrderNumberParams) (int32, error) {
	m.nextNumber++
	return m.nextNumber, nil
}

func (m *memStore) GetLocationTaxRate(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
	return m.taxRate, nil
}

func (m *memStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	if len(m.createOrderErrs) > 0 {
		err := m.createOrderErrs[0]
		m.createOrderErrs = m.createOrderErrs[1:]
		if err != nil {
			return database.Order{}, err
		}
	}
	o := database.Order{
		ID:             uuid.New(),
		LocationID:     arg.LocationID,
		OrderNumber:    arg.OrderNumber,
		BusinessDate:   arg.BusinessDate,
		OrderType:      arg.OrderType,
		TableNumber:    arg.TableNumber,
		GuestCount:     arg.GuestCount,
		ServerID:       arg.ServerID,
		Status:         enum.OrderStatusOpen,
		Subtotal:       zeroMoney,
		DiscountAmount: zeroMoney,
		CompAmount:     zeroMoney,
		TaxAmount:      zeroMoney,
		TipAmount:      zeroMoney,
		Total:          zeroMoney,
		OpenedAt:       arg.OpenedAt,
	}
	m.orders[o.ID] = o
	return o, nil
}

func (m *memStore) GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
	o, ok := m.orders[arg.ID]
	if !ok || o.LocationID != arg.LocationID {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *memStore) GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error) {
	return m.GetOrder(ctx, database.GetOrderParams(arg))
}

func (m *memStore) ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	var out []database.Order
	for _, o := range m.orders {
		if o.LocationID != arg.LocationID {
			continue
		}
		if len(arg.Statuses) > 0 && !slices.Contains(arg.Statuses, o.Status) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) updateOrder(id uuid.UUID, fn func(o *database.Order)) (database.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	fn(&o)
	m.orders[id] = o
	return o, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	return m.updateOrder(arg.ID, func(o *database.Order) { o.Status = arg.Status })
}

func (m *memStore) UpdateOrderTable(ctx context.Context, arg database.UpdateOrderTableParams) (database.Order, error) {
	return m.updateOrder(arg.ID, func(o *database.Order) {
		o.TableNumber = arg.TableNumber
		o.GuestCount = arg.GuestCount
	})
}

func (m *memStore) UpdateOrderTotals(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error) {
	return m.updateOrder(arg.ID, func(o *database.Order) {
		o.Subtotal = arg.Subtotal
		o.DiscountAmount = arg.DiscountAmount
		o.CompAmount = arg.CompAmount
		o.TaxAmount = arg.TaxAmount
		o.TipAmount = arg.TipAmount
		o.Total = arg.Total
	})
}

func (m *memStore) CloseOrder(ctx context.Context, arg database.CloseOrderParams) (database.Order, error) {
	return m.updateOrder(arg.ID, func(o *database.Order) {
		o.Status = arg.Status
		o.ClosedAt = arg.ClosedAt
	})
}

func (m *memStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	it := database.OrderItem{
		ID:                  uuid.New(),
		OrderID:             arg.OrderID,
		MenuItemID:          arg.MenuItemID,
		CheckID:             arg.CheckID,
		Name:                arg.Name,
		Quantity:            arg.Quantity,
		SeatNumber:          arg.SeatNumber,
		CourseNumber:        arg.CourseNumber,
		UnitPrice:           arg.UnitPrice,
		ModifierTotal:       arg.ModifierTotal,
		LineTotal:           arg.LineTotal,
		SpecialInstructions: arg.SpecialInstructions,
		Status:              enum.ItemStatusPending,
		StationID:           arg.StationID,
	}
	m.items = append(m.items, it)
	return it, nil
}

func (m *memStore) CreateOrderItemModifier(ctx context.Context, arg database.CreateOrderItemModifierParams) (database.OrderItemModifier, error) {
	mod := database.OrderItemModifier{
		ID:              uuid.New(),
		OrderItemID:     arg.OrderItemID,
		ModifierID:      arg.ModifierID,
		Name:            arg.Name,
		PriceAdjustment: arg.PriceAdjustment,
	}
	m.mods = append(m.mods, mod)
	return mod, nil
}

func (m *memStore) DeleteOrderItemModifiers(ctx context.Context, orderItemID uuid.UUID) error {
	m.mods = slices.DeleteFunc(m.mods, func(mod database.OrderItemModifier) bool {
		return mod.OrderItemID == orderItemID
	})
	return nil
}

func (m *memStore) DeletePendingOrderItem(ctx context.Context, id uuid.UUID) (int64, error) {
	before := len(m.items)
	m.items = slices.DeleteFunc(m.items, func(it database.OrderItem) bool {
		return it.ID == id && it.Status == enum.ItemStatusPending
	})
	return int64(before - len(m.items)), nil
}

func (m *memStore) itemIndex(id uuid.UUID) int {
	return slices.IndexFunc(m.items, func(it database.OrderItem) bool { return it.ID == id })
}

func (m *memStore) GetOrderItem(ctx context.Context, arg database.GetOrderItemParams) (database.OrderItem, error) {
	i := m.itemIndex(arg.ID)
	if i < 0 || m.items[i].OrderID != arg.OrderID {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	return m.items[i], nil
}

func (m *memStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	var out []database.OrderItem
	for _, it := range m.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) ListOrderItemModifiersByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItemModifier, error) {
	var out []database.OrderItemModifier
	for _, mod := range m.mods {
		i := m.itemIndex(mod.OrderItemID)
		if i >= 0 && m.items[i].OrderID == orderID {
			out = append(out, mod)
		}
	}
	return out, nil
}

func (m *memStore) UpdateOrderItemDetails(ctx context.Context, arg database.UpdateOrderItemDetailsParams) (database.OrderItem, error) {
	i := m.itemIndex(arg.ID)
	if i < 0 {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	it := &m.items[i]
	it.Quantity = arg.Quantity
	it.SeatNumber = arg.SeatNumber
	it.CourseNumber = arg.CourseNumber
	it.ModifierTotal = arg.ModifierTotal
	it.LineTotal = arg.LineTotal
	it.SpecialInstructions = arg.SpecialInstructions
	return *it, nil
}

func (m *memStore) UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error) {
	i := m.itemIndex(arg.ID)
	if i < 0 {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	it := &m.items[i]
	it.Status = arg.Status
	it.SentAt = arg.SentAt
	it.FiredAt = arg.FiredAt
	it.StartedAt = arg.StartedAt
	it.ReadyAt = arg.ReadyAt
	it.ServedAt = arg.ServedAt
	it.VoidedAt = arg.VoidedAt
	return *it, nil
}

func (m *memStore) UpdateOrderItemCheck(ctx context.Context, arg database.UpdateOrderItemCheckParams) error {
	i := m.itemIndex(arg.ID)
	if i < 0 {
		return pgx.ErrNoRows
	}
	m.items[i].CheckID = arg.CheckID
	return nil
}

func (m *memStore) ClearOrderItemChecks(ctx context.Context, orderID uuid.UUID) error {
	for i := range m.items {
		if m.items[i].OrderID == orderID {
			m.items[i].CheckID = pgtype.UUID{}
		}
	}
	return nil
}

func (m *memStore) CreateCheck(ctx context.Context, arg database.CreateCheckParams) (database.Check, error) {
	c := database.Check{
		ID:        uuid.New(),
		OrderID:   arg.OrderID,
		Name:      arg.Name,
		Subtotal:  arg.Subtotal,
		TaxAmount: arg.TaxAmount,
		Total:     arg.Total,
	}
	m.checks = append(m.checks, c)
	return c, nil
}

func (m *memStore) DeleteChecksByOrder(ctx context.Context, orderID uuid.UUID) error {
	m.checks = slices.DeleteFunc(m.checks, func(c database.Check) bool { return c.OrderID == orderID })
	return nil
}

func (m *memStore) ListChecksByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Check, error) {
	var out []database.Check
	for _, c := range m.checks {
		if c.OrderID == orderID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateCheckTotals(ctx context.Context, arg database.UpdateCheckTotalsParams) (database.Check, error) {
	i := slices.IndexFunc(m.checks, func(c database.Check) bool { return c.ID == arg.ID })
	if i < 0 {
		return database.Check{}, pgx.ErrNoRows
	}
	c := &m.checks[i]
	c.Subtotal = arg.Subtotal
	c.TaxAmount = arg.TaxAmount
	c.Total = arg.Total
	c.IsPaid = arg.IsPaid
	return *c, nil
}

func (m *memStore) CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
	p := database.Payment{
		ID:          uuid.New(),
		OrderID:     arg.OrderID,
		CheckID:     arg.CheckID,
		Method:      arg.Method,
		Amount:      arg.Amount,
		TipAmount:   arg.TipAmount,
		CardBrand:   arg.CardBrand,
		CardLast4:   arg.CardLast4,
		ProcessedBy: arg.ProcessedBy,
	}
	m.payments = append(m.payments, p)
	return p, nil
}

func (m *memStore) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error) {
	var out []database.Payment
	for _, p := range m.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) CreateComp(ctx context.Context, arg database.CreateCompParams) (database.Comp, error) {
	c := database.Comp{
		ID:          uuid.New(),
		OrderID:     arg.OrderID,
		OrderItemID: arg.OrderItemID,
		Amount:      arg.Amount,
		Reason:      arg.Reason,
		ApprovedBy:  arg.ApprovedBy,
		CreatedBy:   arg.CreatedBy,
	}
	m.comps = append(m.comps, c)
	return c, nil
}

func (m *memStore) CreateDiscount(ctx context.Context, arg database.CreateDiscountParams) (database.Discount, error) {
	d := database.Discount{
		ID:           uuid.New(),
		OrderID:      arg.OrderID,
		DiscountType: arg.DiscountType,
		Value:        arg.Value,
		Amount:       arg.Amount,
		Reason:       arg.Reason,
		ApprovedBy:   arg.ApprovedBy,
		CreatedBy:    arg.CreatedBy,
	}
	m.discounts = append(m.discounts, d)
	return d, nil
}

func (m *memStore) CreateVoid(ctx context.Context, arg database.CreateVoidParams) (database.Void, error) {
	v := database.Void{
		ID:          uuid.New(),
		OrderID:     arg.OrderID,
		OrderItemID: arg.OrderItemID,
		Amount:      arg.Amount,
		Reason:      arg.Reason,
		ApprovedBy:  arg.ApprovedBy,
		CreatedBy:   arg.CreatedBy,
	}
	m.voids = append(m.voids, v)
	return v, nil
}

func (m *memStore) ListCompsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Comp, error) {
	var out []database.Comp
	for _, c := range m.comps {
		if c.OrderID == orderID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListDiscountsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Discount, error) {
	var out []database.Discount
	for _, d := range m.discounts {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) ListVoidsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Void, error) {
	var out []database.Void
	for _, v := range m.voids {
		if v.OrderID == orderID {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeCatalog serves menu items from memory.
type fakeCatalog map[uuid.UUID]menu.Item

func (c fakeCatalog) GetItem(ctx context.Context, locationID, itemID uuid.UUID) (menu.Item, error) {
	it, ok := c[itemID]
	if !ok || it.LocationID != locationID {
		return menu.Item{}, menu.ErrItemNotFound
	}
	return it, nil
}

type sentEvent struct {
	Type       string
	LocationID uuid.UUID
	Payload    any
}

// recordingNotifier keeps every event it is handed.
type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(eventType string, locationID uuid.UUID, payload any, actorID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{Type: eventType, LocationID: locationID, Payload: payload})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

// --- Fixture ---

type fixture struct {
	svc      *OrderService
	store    *memStore
	tx       *mockTx
	notifier *recordingNotifier

	locationID uuid.UUID
	serverID   uuid.UUID
	managerID  uuid.UUID
	grillID    uuid.UUID
	barID      uuid.UUID

	burger  menu.Item // 10.00, no modifiers, grill
	salad   menu.Item // 5.00, optional "Add-ons" group, grill
	soda    menu.Item // 2.50, bar
	steak   menu.Item // 30.00, required "Temperature" group
	special menu.Item // 86'd

	avocado  menu.Modifier // +1.50 on salad
	bacon    menu.Modifier // +2.00 on salad
	rare     menu.Modifier
	medium   menu.Modifier
	clockNow time.Time
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      newMemStore("0.0825"),
		tx:         &mockTx{},
		notifier:   &recordingNotifier{},
		locationID: uuid.New(),
		serverID:   uuid.New(),
		managerID:  uuid.New(),
		grillID:    uuid.New(),
		barID:      uuid.New(),
		clockNow:   time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
	}

	addOns := menu.Group{ID: uuid.New(), Name: "Add-ons"}
	f.avocado = menu.Modifier{ID: uuid.New(), GroupID: addOns.ID, Name: "Avocado", PriceAdjustment: dec("1.50")}
	f.bacon = menu.Modifier{ID: uuid.New(), GroupID: addOns.ID, Name: "Bacon", PriceAdjustment: dec("2.00")}
	addOns.Modifiers = []menu.Modifier{f.avocado, f.bacon}

	one := int32(1)
	temp := menu.Group{ID: uuid.New(), Name: "Temperature", MinSelect: 1, MaxSelect: &one}
	f.rare = menu.Modifier{ID: uuid.New(), GroupID: temp.ID, Name: "Rare"}
	f.medium = menu.Modifier{ID: uuid.New(), GroupID: temp.ID, Name: "Medium"}
	temp.Modifiers = []menu.Modifier{f.rare, f.medium}

	f.burger = menu.Item{ID: uuid.New(), LocationID: f.locationID, Name: "Burger", Price: dec("10.00"), StationID: &f.grillID}
	f.salad = menu.Item{ID: uuid.New(), LocationID: f.locationID, Name: "Salad", Price: dec("5.00"), StationID: &f.grillID, Groups: []menu.Group{addOns}}
	f.soda = menu.Item{ID: uuid.New(), LocationID: f.locationID, Name: "Soda", Price: dec("2.50"), StationID: &f.barID}
	f.steak = menu.Item{ID: uuid.New(), LocationID: f.locationID, Name: "Steak", Price: dec("30.00"), StationID: &f.grillID, Groups: []menu.Group{temp}}
	f.special = menu.Item{ID: uuid.New(), LocationID: f.locationID, Name: "Special", Price: dec("18.00"), Is86d: true}

	catalog := fakeCatalog{}
	for _, it := range []menu.Item{f.burger, f.salad, f.soda, f.steak, f.special} {
		catalog[it.ID] = it
	}

	newStore := func(db database.DBTX) OrderStore { return f.store }
	f.svc = NewOrderService(&mockTxBeginner{tx: f.tx}, newStore, catalog, f.notifier, zap.NewNop())
	f.svc.now = func() time.Time { return f.clockNow }
	return f
}

func (f *fixture) ref(orderID uuid.UUID) OrderRef {
	return OrderRef{LocationID: f.locationID, OrderID: orderID, ActorID: f.serverID}
}

func (f *fixture) itemRef(orderID, itemID uuid.UUID) ItemRef {
	return ItemRef{OrderRef: f.ref(orderID), ItemID: itemID}
}

// openOrder creates a dine-in order for two with no items.
func (f *fixture) openOrder(t *testing.T) *OrderResult {
	t.Helper()
	res, err := f.svc.CreateOrder(context.Background(), CreateOrderRequest{
		LocationID:  f.locationID,
		ServerID:    f.serverID,
		OrderType:   enum.OrderTypeDineIn,
		TableNumber: "12",
		GuestCount:  2,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return res
}

func (f *fixture) addItem(t *testing.T, orderID uuid.UUID, in ItemInput) *OrderResult {
	t.Helper()
	res, err := f.svc.AddItem(context.Background(), AddItemRequest{OrderRef: f.ref(orderID), Item: in})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return res
}

// sampleOrder builds 2× burger on seat 1 and a salad with avocado on seat 2.
func (f *fixture) sampleOrder(t *testing.T) (orderID, burgerID, saladID uuid.UUID) {
	t.Helper()
	order := f.openOrder(t)
	res := f.addItem(t, order.Order.ID, ItemInput{MenuItemID: f.burger.ID, Quantity: 2, SeatNumber: 1})
	burgerID = res.Items[len(res.Items)-1].Item.ID
	res = f.addItem(t, order.Order.ID, ItemInput{
		MenuItemID:  f.salad.ID,
		Quantity:    1,
		SeatNumber:  2,
		ModifierIDs: []uuid.UUID{f.avocado.ID},
	})
	saladID = res.Items[len(res.Items)-1].Item.ID
	return order.Order.ID, burgerID, saladID
}

func (f *fixture) order(t *testing.T, id uuid.UUID) database.Order {
	t.Helper()
	o, ok := f.store.orders[id]
	if !ok {
		t.Fatalf("order %s not in store", id)
	}
	return o
}

func (f *fixture) item(t *testing.T, id uuid.UUID) database.OrderItem {
	t.Helper()
	i := f.store.itemIndex(id)
	if i < 0 {
		t.Fatalf("item %s not in store", id)
	}
	return f.store.items[i]
}

func assertMoney(t *testing.T, field string, got pgtype.Numeric, want string) {
	t.Helper()
	if g := money.FromNumeric(got); !g.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", field, want, g.StringFixed(money.Places))
	}
}

func conflictErr() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: orderNumberConstraint}
}

var errBoom = errors.New("boom")
