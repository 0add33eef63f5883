package entity

// Role dato de referencia prácticamente estático (Administrator, Standard User).
type Role struct {
	ID          int    `json:"role_id"`
	Name        string `json:"role_name"`
	Description string `json:"description"`
}

func (r *Role) String() string { return r.Name }
