package permission

// Request maps a scope ("*" or a resource id) to resource types and the
// actions asked for on them.
type Request map[string]map[string][]string

type Permissions struct {
	UserID          string          `json:"userId"`
	Groups          []string        `json:"groups"`
	Permissions     Request         `json:"permissions"`
	CuroPermissions map[string]bool `json:"curoPermissions"`
}

type GrantType string

const (
	GrantTypeGlobal GrantType = "global"
	GrantTypeGrant  GrantType = "grant"
	GrantTypeRevoke GrantType = "revoke"
)

// Grant is one engine authorization row.
type Grant struct {
	ID           string    `yaml:"id"`
	Type         GrantType `yaml:"type"`
	UserID       string    `yaml:"user_id,omitempty"`
	GroupID      string    `yaml:"group_id,omitempty"`
	ResourceType string    `yaml:"resource_type"`
	ResourceID   string    `yaml:"resource_id"`
	Permissions  []string  `yaml:"permissions"`
}
