package entity

import "time"

// Resultados posibles de una acción auditada.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDenied  = "denied"
)

// Tipos de entidad auditados.
const (
	EntityProduct  = "product"
	EntitySupplier = "supplier"
	EntityClient   = "client"
	EntityUser     = "user"
	EntityPurchase = "purchase"
	EntitySale     = "sale"
	EntityRoute    = "route"
)

// Acciones auditadas.
const (
	ActionCreate     = "CREATE"
	ActionUpdate     = "UPDATE"
	ActionEnable     = "ENABLE"
	ActionDisable    = "DISABLE"
	ActionAdjust     = "ADJUST_QUANTITY"
	ActionComplete   = "COMPLETE"
	ActionCancel     = "CANCEL"
	ActionChangeRole = "CHANGE_ROLE"
	ActionLogin      = "LOGIN"
	ActionDenied     = "ACCESS_DENIED"
)

// ActivityLog entrada inmutable del registro de auditoría.
type ActivityLog struct {
	ID            string
	ActorID       string
	ActorUsername string
	Action        string
	EntityType    string
	EntityID      string
	Detail        string
	Outcome       string
	CreatedAt     time.Time
}
