package database

// Row scanners for queries that return whole table rows. Column order
// matches the table definitions in migrations/.

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.LocationID,
		&i.OrderNumber,
		&i.BusinessDate,
		&i.OrderType,
		&i.TableNumber,
		&i.GuestCount,
		&i.ServerID,
		&i.Status,
		&i.Subtotal,
		&i.DiscountAmount,
		&i.CompAmount,
		&i.TaxAmount,
		&i.TipAmount,
		&i.Total,
		&i.OpenedAt,
		&i.ClosedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanOrderItem(row rowScanner) (OrderItem, error) {
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.MenuItemID,
		&i.CheckID,
		&i.Name,
		&i.Quantity,
		&i.SeatNumber,
		&i.CourseNumber,
		&i.UnitPrice,
		&i.ModifierTotal,
		&i.LineTotal,
		&i.SpecialInstructions,
		&i.Status,
		&i.StationID,
		&i.SentAt,
		&i.FiredAt,
		&i.StartedAt,
		&i.ReadyAt,
		&i.ServedAt,
		&i.VoidedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanCheck(row rowScanner) (Check, error) {
	var i Check
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.Name,
		&i.Subtotal,
		&i.TaxAmount,
		&i.Total,
		&i.IsPaid,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanPayment(row rowScanner) (Payment, error) {
	var i Payment
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.CheckID,
		&i.Method,
		&i.Amount,
		&i.TipAmount,
		&i.CardBrand,
		&i.CardLast4,
		&i.ProcessedBy,
		&i.CreatedAt,
	)
	return i, err
}

func scanMenuItem(row rowScanner) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.LocationID,
		&i.StationID,
		&i.Name,
		&i.Price,
		&i.Is86d,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
