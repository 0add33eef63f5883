package memory

import (
	"fmt"
	"time"

	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// Datos de ejemplo con los que arranca el backend en memoria.

func sampleCustomers(now time.Time) []*entity.Customer {
	mk := func(id int64, first, last, company, title, email, linkedin string, active bool) *entity.Customer {
		t := now
		return &entity.Customer{
			ID: id, FirstName: first, LastName: last, CompanyName: company, Title: title,
			Email: email, LinkedInURL: linkedin, IsActive: active, CreatedAt: &t, UpdatedAt: &t,
		}
	}
	return []*entity.Customer{
		mk(1, "John", "Doe", "Acme Corp", "CEO", "john.doe@acme.com", "https://linkedin.com/in/johndoe", true),
		mk(2, "Jane", "Smith", "Tech Solutions Inc", "CTO", "jane.smith@techsolutions.com", "https://linkedin.com/in/janesmith", true),
		mk(3, "Bob", "Johnson", "Healthcare Plus", "Director of IT", "bob.johnson@healthcareplus.com", "", false),
	}
}

func sampleUsers(now time.Time, hash func(string) (string, error)) ([]*entity.User, error) {
	seeds := []struct {
		id                 int64
		username, password string
		email, first, last string
		role               int
	}{
		{1, "admin", "admin123", "admin@mycrm.com", "System", "Administrator", entity.RoleAdmin},
		{2, "user", "user123", "user@mycrm.com", "Standard", "User", entity.RoleStandard},
	}
	users := make([]*entity.User, 0, len(seeds))
	for _, s := range seeds {
		digest, err := hash(s.password)
		if err != nil {
			return nil, fmt.Errorf("hash usuario de ejemplo %s: %w", s.username, err)
		}
		t := now
		users = append(users, &entity.User{
			ID: s.id, Username: s.username, PasswordHash: digest, Email: s.email,
			FirstName: s.first, LastName: s.last, RoleID: s.role, IsActive: true,
			CreatedAt: &t, UpdatedAt: &t,
		})
	}
	return users, nil
}

func sampleRoles() []*entity.Role {
	return []*entity.Role{
		{ID: entity.RoleAdmin, Name: "Administrator", Description: "Full system access"},
		{ID: entity.RoleStandard, Name: "Standard User", Description: "Read-only access"},
	}
}
