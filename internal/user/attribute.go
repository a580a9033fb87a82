package user

import "github.com/curo-bpm/curo/pkg/projection"

const (
	AttributeID        = "id"
	AttributeFirstName = "firstName"
	AttributeLastName  = "lastName"
	AttributeEmail     = "email"
)

type Response struct {
	ID        *string `json:"id,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

type field = projection.Field[User, Response]

var schema = projection.NewSchema(
	field{Name: AttributeID, Copy: func(d *Response, u *User) { d.ID = projection.NonZero(u.ID) }},
	field{Name: AttributeFirstName, Copy: func(d *Response, u *User) { d.FirstName = projection.NonZero(u.FirstName) }},
	field{Name: AttributeLastName, Copy: func(d *Response, u *User) { d.LastName = projection.NonZero(u.LastName) }},
	field{Name: AttributeEmail, Copy: func(d *Response, u *User) { d.Email = projection.NonZero(u.Email) }},
)

func ParseAttributes(values []string) (projection.Mask, error) {
	return schema.Parse("attributes", values)
}

func Project(u *User, mask projection.Mask) *Response {
	return schema.Project(u, mask)
}
