package user

type User struct {
	ID        string `yaml:"id"`
	FirstName string `yaml:"first_name,omitempty"`
	LastName  string `yaml:"last_name,omitempty"`
	Email     string `yaml:"email,omitempty"`
	// PasswordHash is a bcrypt hash; only the local engine stores it.
	PasswordHash string   `yaml:"password_hash,omitempty"`
	Groups       []string `yaml:"groups,omitempty"`
}

type Group struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

type Filter struct {
	GroupID string
}
