package process

import "github.com/curo-bpm/curo/pkg/variable"

// Variables Curo writes on every process instance it starts.
var (
	Title     = variable.New[string]("title", variable.TypeString)
	Category  = variable.New[string]("category", variable.TypeString)
	Initiator = variable.New[string]("initiator", variable.TypeString)
)
