package workshop

import "time"

// OrderStatus enumerates the production states an order moves through.
// The values are the labels the workshop uses on paper tickets, so they
// are stored verbatim.
type OrderStatus string

const (
	StatusReceived       OrderStatus = "Recibido"
	StatusPendingCut     OrderStatus = "Pendiente por cortar"
	StatusCutting        OrderStatus = "En corte"
	StatusCutReady       OrderStatus = "Cortado"
	StatusPendingSew     OrderStatus = "Pendiente por coser"
	StatusSewing         OrderStatus = "En costura"
	StatusSewn           OrderStatus = "Cosido"
	StatusFinishing      OrderStatus = "En acabados"
	StatusQualityControl OrderStatus = "Revisión de calidad"
	StatusReady          OrderStatus = "Listo para entrega"
	StatusDelivered      OrderStatus = "Entregado"
	StatusPaused         OrderStatus = "En pausa"
	StatusCancelled      OrderStatus = "Cancelado"
	StatusReturned       OrderStatus = "Devuelto para ajustes"
	StatusTrash          OrderStatus = "Papelera"
)

// FunnelStage groups statuses for production-flow reporting.
type FunnelStage string

const (
	StageReception FunnelStage = "reception"
	StagePrep      FunnelStage = "prep"
	StageActive    FunnelStage = "active"
	StageFinishing FunnelStage = "finishing"
	StageCompleted FunnelStage = "completed"
)

var funnelStages = map[OrderStatus]FunnelStage{
	StatusReceived:       StageReception,
	StatusPendingCut:     StagePrep,
	StatusPendingSew:     StagePrep,
	StatusCutting:        StageActive,
	StatusCutReady:       StageActive,
	StatusSewing:         StageActive,
	StatusSewn:           StageActive,
	StatusFinishing:      StageFinishing,
	StatusQualityControl: StageFinishing,
	StatusReady:          StageCompleted,
	StatusDelivered:      StageCompleted,
}

// Funnel returns the funnel stage for a status. Cancelled, trashed,
// paused and returned orders sit outside the funnel and report false.
func (s OrderStatus) Funnel() (FunnelStage, bool) {
	stage, ok := funnelStages[s]
	return stage, ok
}

// Terminal reports whether the status ends an order's production life.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusTrash
}

// Priority marks the urgency tier of an order.
type Priority string

const (
	PriorityNormal     Priority = "Normal"
	PriorityUrgent     Priority = "Urgente"
	PriorityVeryUrgent Priority = "Muy Urgente"
)

// Rush reports whether the order jumps the normal queue.
func (p Priority) Rush() bool {
	return p != "" && p != PriorityNormal
}

// Gender identifies the garment target for an order item. Service items
// (embroidery runs, repairs) leave it empty.
type Gender string

const (
	GenderMale   Gender = "Caballero"
	GenderFemale Gender = "Dama"
	GenderBoy    Gender = "Niño"
	GenderGirl   Gender = "Niña"
)

// OrderItem is a single garment or service line inside an order.
type OrderItem struct {
	ID       string `json:"id" db:"id"`
	Gender   Gender `json:"gender,omitempty" db:"gender"`
	Type     string `json:"type" db:"type"`
	Size     string `json:"size" db:"size"`
	Quantity int    `json:"quantity" db:"quantity"`
	Color    string `json:"color,omitempty" db:"color"`
	Notes    string `json:"notes,omitempty" db:"notes"`
}

// Order is an immutable snapshot of a production order. The analytics
// engine only reads it; mutation happens in the order-entry layer.
type Order struct {
	ID          string `json:"id" db:"id"`
	OrderNumber string `json:"order_number" db:"order_number"`
	ClientID    string `json:"client_id" db:"client_id"`
	ClientName  string `json:"client_name" db:"client_name"`

	FabricColor  string `json:"fabric_color" db:"fabric_color"`
	FabricType   string `json:"fabric_type" db:"fabric_type"`
	GarmentModel string `json:"garment_model" db:"garment_model"`
	Description  string `json:"description" db:"description"`

	Items []OrderItem `json:"items" db:"-"`

	TotalAmount float64 `json:"total_amount" db:"total_amount"`

	Status   OrderStatus `json:"status" db:"status"`
	Priority Priority    `json:"priority" db:"priority"`

	ReceptionDate time.Time `json:"reception_date" db:"reception_date"`
	Deadline      time.Time `json:"deadline" db:"deadline"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// StartedAt returns the instant production clock starts for lead-time
// purposes: the reception date when recorded, otherwise creation.
func (o Order) StartedAt() time.Time {
	if !o.ReceptionDate.IsZero() {
		return o.ReceptionDate
	}
	return o.CreatedAt
}

// TotalQuantity sums line-item quantities.
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// Client is a workshop customer. BusinessName is the preferred display
// name when present.
type Client struct {
	ID           string    `json:"id" db:"id"`
	BusinessName string    `json:"business_name,omitempty" db:"business_name"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Email        string    `json:"email,omitempty" db:"email"`
	Address      string    `json:"address,omitempty" db:"address"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DisplayName prefers the business name, falling back to the contact.
func (c Client) DisplayName() string {
	if c.BusinessName != "" {
		return c.BusinessName
	}
	return c.Name
}
