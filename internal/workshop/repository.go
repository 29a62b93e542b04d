package workshop

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("workshop: record not found")

// Repository loads order and client snapshots for the analytics service.
type Repository interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgx pool into the snapshot repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, order_number, client_id, client_name, fabric_color,
	fabric_type, garment_model, description, total_amount, status, priority,
	reception_date, deadline, created_at`

func (r *repository) GetOrder(ctx context.Context, id string) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	items, err := r.loadItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	var ids []string
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *repository) loadItems(ctx context.Context, orderIDs []string) (map[string][]OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, gender, type, size, quantity, color, notes
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[string][]OrderItem, len(orderIDs))
	for rows.Next() {
		var item OrderItem
		var orderID string
		var gender, color, notes pgtype.Text
		if err := rows.Scan(&item.ID, &orderID, &gender, &item.Type, &item.Size, &item.Quantity, &color, &notes); err != nil {
			return nil, err
		}
		item.Gender = Gender(gender.String)
		item.Color = color.String
		item.Notes = notes.String
		grouped[orderID] = append(grouped[orderID], item)
	}
	return grouped, rows.Err()
}

func (r *repository) GetClient(ctx context.Context, id string) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, business_name, name, phone, email, address, created_at
		FROM clients WHERE id = $1`, id)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_name, name, phone, email, address, created_at
		FROM clients ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var fabricColor, fabricType, model, description pgtype.Text
	var reception, deadline, createdAt pgtype.Timestamptz
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ClientID, &o.ClientName,
		&fabricColor, &fabricType, &model, &description,
		&o.TotalAmount, &o.Status, &o.Priority,
		&reception, &deadline, &createdAt,
	)
	if err != nil {
		return Order{}, err
	}
	o.FabricColor = fabricColor.String
	o.FabricType = fabricType.String
	o.GarmentModel = model.String
	o.Description = description.String
	o.ReceptionDate = timeOrZero(reception)
	o.Deadline = timeOrZero(deadline)
	o.CreatedAt = timeOrZero(createdAt)
	return o, nil
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	var business, phone, email, address pgtype.Text
	var createdAt pgtype.Timestamptz
	err := row.Scan(&c.ID, &business, &c.Name, &phone, &email, &address, &createdAt)
	if err != nil {
		return Client{}, err
	}
	c.BusinessName = business.String
	c.Phone = phone.String
	c.Email = email.String
	c.Address = address.String
	c.CreatedAt = timeOrZero(createdAt)
	return c, nil
}

func timeOrZero(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time
}
