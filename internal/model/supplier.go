package model

type Supplier struct {
	BaseModel
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Active        bool   `json:"active"`
	Address       string `json:"address,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type SupplierUpdate struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Active        *bool   `json:"active"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contact_person"`
	Notes         *string `json:"notes"`
}

func (u SupplierUpdate) Apply(s *Supplier) {
	setIfPresent(&s.Name, u.Name)
	setIfPresent(&s.Email, u.Email)
	setIfPresent(&s.Phone, u.Phone)
	setIfPresent(&s.Active, u.Active)
	setIfPresent(&s.Address, u.Address)
	setIfPresent(&s.ContactPerson, u.ContactPerson)
	setIfPresent(&s.Notes, u.Notes)
}
