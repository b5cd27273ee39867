package echoapi

import (
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/role"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	VisibilityRequest struct {
		Hidden bool `json:"hidden"`
	}

	ReopenRequest struct {
		Reason string `json:"reason"`
	}

	CapabilitiesResponse struct {
		Role         string            `json:"role"`
		Capabilities []role.Capability `json:"capabilities"`
	}
)

func (r *LoginRequest) Validate() error {
	r.Username = core.CleanString(r.Username, true /* lower */)
	return core.Validate.Struct(r)
}
