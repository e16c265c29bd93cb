package model

import "strings"

type IdentificationType string

const (
	IDNationalID    IdentificationType = "national-id"
	IDPassport      IdentificationType = "passport"
	IDDriverLicense IdentificationType = "driver-license"
)

type Client struct {
	BaseModel
	Name               string             `json:"name" validate:"required"`
	Surname            string             `json:"surname" validate:"required"`
	Identification     string             `json:"identification" validate:"required"`
	IdentificationType IdentificationType `json:"identification_type" validate:"id_type"`
	Address            string             `json:"address"`
	Phone              string             `json:"phone"`
	Email              string             `json:"email" validate:"omitempty,email"`
}

// FullName is the denormalized name stored on sales.
func (c Client) FullName() string {
	return strings.TrimSpace(c.Name + " " + c.Surname)
}

// SameIdentity reports whether both records describe the same person.
func (c Client) SameIdentity(identification string, idType IdentificationType) bool {
	return c.Identification == identification && c.IdentificationType == idType
}

// ClientUpdate carries optional fields; only non-nil fields overwrite.
type ClientUpdate struct {
	Name               *string             `json:"name"`
	Surname            *string             `json:"surname"`
	Identification     *string             `json:"identification"`
	IdentificationType *IdentificationType `json:"identification_type"`
	Address            *string             `json:"address"`
	Phone              *string             `json:"phone"`
	Email              *string             `json:"email"`
}

func (u ClientUpdate) Apply(c *Client) {
	setIfPresent(&c.Name, u.Name)
	setIfPresent(&c.Surname, u.Surname)
	setIfPresent(&c.Identification, u.Identification)
	setIfPresent(&c.IdentificationType, u.IdentificationType)
	setIfPresent(&c.Address, u.Address)
	setIfPresent(&c.Phone, u.Phone)
	setIfPresent(&c.Email, u.Email)
}

// MergeFrom copies the non-empty contact fields of an incoming submission,
// so a checkout form that leaves email blank does not wipe a stored email.
func (c *Client) MergeFrom(in Client) {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&c.Name, in.Name},
		{&c.Surname, in.Surname},
		{&c.Address, in.Address},
		{&c.Phone, in.Phone},
		{&c.Email, in.Email},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}
