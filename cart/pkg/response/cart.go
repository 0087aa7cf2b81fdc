package response

import (
	"github.com/google/uuid"

	"github.com/Alturino/raffa/cart/pkg/engine"
)

type Cart struct {
	ID uuid.UUID `json:"id"`
	engine.Snapshot
}

// Mutation reports the cart after a quantity change together with what the
// stock ceiling allowed.
type Mutation struct {
	Cart   Cart          `json:"cart"`
	Result engine.Result `json:"result"`
}
