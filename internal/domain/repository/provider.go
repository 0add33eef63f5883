package repository

// Provider entrega el store de cada tipo de entidad.
// Los casos de uso lo consultan en cada operación para que un reinicio del
// selector de backend (durable ↔ memoria) se observe sin reiniciar el proceso.
type Provider interface {
	Customers() CustomerRepository
	Users() UserRepository
	Roles() RoleRepository
	EmailLogs() EmailLogRepository
}
